package baseline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leakscout/leakscout/internal/findings"
)

func wtFinding(pattern, path string, line int, text string) findings.Validated {
	return findings.Validated{
		Raw: findings.Raw{
			FilePath:    path,
			LineNumber:  line,
			MatchedText: text,
			PatternID:   pattern,
			Source:      findings.SourceWorkingTree,
		},
	}
}

func baselineOf(entries ...Entry) *Baseline {
	return &Baseline{entries: entries}
}

func TestApplyExactMatch(t *testing.T) {
	b := baselineOf(Entry{
		PatternID: "p1", FilePath: ".env", LineNumber: 3,
		Fingerprint: Fingerprint("accepted-secret"),
	})
	all := []findings.Validated{wtFinding("p1", ".env", 3, "accepted-secret")}

	if got := b.Apply(all); got != 1 {
		t.Fatalf("suppressed = %d, want 1", got)
	}
	if !all[0].Baselined {
		t.Fatal("matching finding not marked baselined")
	}
}

func TestApplyMatchesByFingerprintWhenLineMoves(t *testing.T) {
	b := baselineOf(Entry{
		PatternID: "p1", FilePath: ".env", LineNumber: 3,
		Fingerprint: Fingerprint("accepted-secret"),
	})
	all := []findings.Validated{wtFinding("p1", ".env", 42, "accepted-secret")}

	if got := b.Apply(all); got != 1 {
		t.Fatalf("moved secret not suppressed, got %d", got)
	}
}

func TestApplyMatchesByLineWhenContentShifts(t *testing.T) {
	b := baselineOf(Entry{
		PatternID: "p1", FilePath: ".env", LineNumber: 3,
		Fingerprint: Fingerprint("old-form-of-secret"),
	})
	all := []findings.Validated{wtFinding("p1", ".env", 3, "new-form-of-secret")}

	if got := b.Apply(all); got != 1 {
		t.Fatalf("positional match not suppressed, got %d", got)
	}
}

func TestApplyRequiresPatternAndPath(t *testing.T) {
	b := baselineOf(Entry{
		PatternID: "p1", FilePath: ".env", LineNumber: 3,
		Fingerprint: Fingerprint("accepted-secret"),
	})
	all := []findings.Validated{
		wtFinding("p2", ".env", 3, "accepted-secret"),
		wtFinding("p1", "other.env", 3, "accepted-secret"),
	}

	if got := b.Apply(all); got != 0 {
		t.Fatalf("suppressed = %d across pattern/path mismatch, want 0", got)
	}
}

func TestApplyEntrySuppressesOnlyOneFinding(t *testing.T) {
	b := baselineOf(Entry{
		PatternID: "p1", FilePath: ".env", LineNumber: 3,
		Fingerprint: Fingerprint("accepted-secret"),
	})
	all := []findings.Validated{
		wtFinding("p1", ".env", 3, "accepted-secret"),
		wtFinding("p1", ".env", 9, "accepted-secret"),
	}

	if got := b.Apply(all); got != 1 {
		t.Fatalf("suppressed = %d, want 1: a second copy must stay visible", got)
	}
	if all[0].Baselined == all[1].Baselined {
		t.Fatal("expected exactly one of the two findings baselined")
	}
}

func TestApplyNeverSuppressesHistoricalFindings(t *testing.T) {
	b := baselineOf(Entry{
		PatternID: "p1", FilePath: ".env", LineNumber: 3,
		Fingerprint: Fingerprint("accepted-secret"),
	})
	historical := wtFinding("p1", ".env", 3, "accepted-secret")
	historical.Source = findings.SourceGitHistory
	all := []findings.Validated{historical}

	if got := b.Apply(all); got != 0 {
		t.Fatalf("historical finding suppressed, got %d", got)
	}
}

func TestLoadReadsFindingsArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "previous.json")
	artifact := `{
  "findings": [
    {"pattern_id": "p1", "file_path": ".env", "line_number": 3, "matched_text": "accepted-secret", "source": "working-tree"},
    {"pattern_id": "p1", "file_path": ".env", "line_number": 3, "matched_text": "historic-secret", "source": "git-history"}
  ]
}`
	if err := os.WriteFile(path, []byte(artifact), 0644); err != nil {
		t.Fatal(err)
	}

	b, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("entries = %d, want 1 (history findings excluded)", b.Len())
	}

	all := []findings.Validated{wtFinding("p1", ".env", 3, "accepted-secret")}
	if got := b.Apply(all); got != 1 {
		t.Fatalf("loaded baseline failed to suppress, got %d", got)
	}
}

func TestLoadRejectsMalformedArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed baseline")
	}
}
