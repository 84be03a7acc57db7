package baseline

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"

	"github.com/leakscout/leakscout/internal/findings"
)

// Entry is one accepted finding from a previous scan. Matching is staged:
// exact location plus fingerprint first, then fingerprint only (the secret
// moved), then location only (the line was edited but the secret stayed put).
type Entry struct {
	PatternID   string `json:"pattern_id"`
	FilePath    string `json:"file_path"`
	LineNumber  int    `json:"line_number"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Baseline is a set of previously accepted findings.
type Baseline struct {
	entries []Entry
}

// Fingerprint returns the stable identity of a finding's matched content.
// It keys on the secret text rather than the surrounding line, so fingerprints
// survive reformatting around the secret.
func Fingerprint(matchedText string) string {
	sum := sha256.Sum256([]byte(matchedText))
	return fmt.Sprintf("%x", sum[:])
}

// artifactFile is the slice of a findings artifact the baseline cares about.
type artifactFile struct {
	Findings []struct {
		PatternID   string          `json:"pattern_id"`
		FilePath    string          `json:"file_path"`
		LineNumber  int             `json:"line_number"`
		MatchedText string          `json:"matched_text"`
		Source      findings.Source `json:"source"`
	} `json:"findings"`
}

// Load reads a previous findings artifact and builds a Baseline from its
// working-tree findings. Historical findings are never baselined; a secret in
// history stays reportable until rotated.
func Load(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline %q: %w", path, err)
	}
	var artifact artifactFile
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse baseline %q: %w", path, err)
	}

	b := &Baseline{}
	for _, f := range artifact.Findings {
		if f.Source == findings.SourceGitHistory {
			continue
		}
		b.entries = append(b.entries, Entry{
			PatternID:   f.PatternID,
			FilePath:    f.FilePath,
			LineNumber:  f.LineNumber,
			Fingerprint: Fingerprint(f.MatchedText),
		})
	}
	return b, nil
}

// Len returns the number of baseline entries.
func (b *Baseline) Len() int {
	return len(b.entries)
}

// Apply marks every working-tree finding that correlates to a baseline entry.
// Each baseline entry suppresses at most one finding per stage pass, so a
// second copy of an already accepted secret still surfaces as new.
func (b *Baseline) Apply(all []findings.Validated) (suppressed int) {
	used := make([]bool, len(b.entries))
	matched := make([]bool, len(all))

	for stage := 1; stage <= 3; stage++ {
		for i := range all {
			if matched[i] || all[i].Source != findings.SourceWorkingTree {
				continue
			}
			fp := Fingerprint(all[i].MatchedText)
			for ei, entry := range b.entries {
				if used[ei] {
					continue
				}
				if matchStage(entry, &all[i], fp, stage) {
					all[i].Baselined = true
					matched[i] = true
					used[ei] = true
					suppressed++
					break
				}
			}
		}
	}
	return suppressed
}

// matchStage applies one correlation stage. Pattern and path must agree in
// every stage; the stages relax in order from exact to positional.
func matchStage(e Entry, f *findings.Validated, fingerprint string, stage int) bool {
	if e.PatternID == "" || f.PatternID == "" {
		return false
	}
	if e.PatternID != f.PatternID || e.FilePath != f.FilePath {
		return false
	}
	switch stage {
	case 1:
		return e.LineNumber == f.LineNumber && e.Fingerprint != "" && e.Fingerprint == fingerprint
	case 2:
		return e.Fingerprint != "" && e.Fingerprint == fingerprint
	case 3:
		return e.LineNumber == f.LineNumber
	default:
		return false
	}
}
