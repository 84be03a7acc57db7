package report

import (
	"fmt"
	"os"
	"strings"

	"github.com/leakscout/leakscout/internal/aggregate"
	"github.com/leakscout/leakscout/internal/findings"
	"github.com/leakscout/leakscout/internal/patterns"
)

// WriteMarkdown renders the human report: executive summary, findings grouped
// by severity with redacted previews and commit attribution, diagnostics, and
// remediation guidance when anything critical was found.
func (w *Writer) WriteMarkdown(rep *aggregate.Report) error {
	var b strings.Builder

	b.WriteString("# Secret Scan Report\n\n")
	writeSummary(&b, rep)
	writeFindingSections(&b, rep)
	writeDiagnostics(&b, rep)
	writeRemediation(&b, rep)

	if err := os.WriteFile(w.markdownFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write %q: %w", w.markdownFile, err)
	}
	return nil
}

func writeSummary(b *strings.Builder, rep *aggregate.Report) {
	meta := rep.Metadata
	b.WriteString(fmt.Sprintf("- **Scan ID**: `%s`\n", meta.ScanID))
	b.WriteString(fmt.Sprintf("- **Root**: `%s`\n", meta.Root))
	b.WriteString(fmt.Sprintf("- **Mode**: %s\n", meta.Mode))
	b.WriteString(fmt.Sprintf("- **Started**: %s\n", meta.StartedAt.Format("2006-01-02 15:04:05 MST")))
	b.WriteString(fmt.Sprintf("- **Duration**: %s\n\n", meta.Duration))

	if meta.Partial {
		b.WriteString("> **Scan incomplete.** Results below cover only what was scanned; absence of findings is not a clean bill of health.\n\n")
		if len(meta.Incomplete) > 0 {
			b.WriteString("Not fully covered:\n\n")
			for _, item := range meta.Incomplete {
				b.WriteString(fmt.Sprintf("- `%s`\n", item))
			}
			b.WriteString("\n")
		}
	}

	if rep.Summary.Total == 0 {
		if meta.Partial {
			b.WriteString("No secrets found in the portion scanned.\n\n")
		} else {
			b.WriteString("**No secrets found.**\n\n")
		}
		return
	}

	b.WriteString("## Summary\n\n")
	b.WriteString("| Severity | Count |\n|---|---|\n")
	for _, sev := range patterns.AllSeverities() {
		if n := rep.Summary.BySeverity[sev.String()]; n > 0 {
			b.WriteString(fmt.Sprintf("| %s | %d |\n", sev, n))
		}
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%d finding(s) across %d file(s)", rep.Summary.Total, rep.Summary.FilesAffected))
	if rep.Summary.Historical > 0 {
		b.WriteString(fmt.Sprintf(", %d historical across %d commit(s)", rep.Summary.Historical, rep.Summary.CommitsAffected))
	}
	b.WriteString(".\n")
	if rep.Summary.StillPresent > 0 {
		b.WriteString(fmt.Sprintf("%d secret(s) appear in git history **and** the current tree.\n", rep.Summary.StillPresent))
	}
	if rep.Summary.HistoryOnly > 0 {
		b.WriteString(fmt.Sprintf("%d secret(s) exist only in git history and still need rotation.\n", rep.Summary.HistoryOnly))
	}
	b.WriteString("\n")
}

func writeFindingSections(b *strings.Builder, rep *aggregate.Report) {
	for _, sev := range patterns.AllSeverities() {
		var matched []findings.Validated
		for _, f := range rep.Findings {
			if f.FinalSeverity == sev {
				matched = append(matched, f)
			}
		}
		if len(matched) == 0 {
			continue
		}
		b.WriteString(fmt.Sprintf("## %s (%d)\n\n", sev, len(matched)))
		for _, f := range matched {
			writeFinding(b, f)
		}
	}
}

func writeFinding(b *strings.Builder, f findings.Validated) {
	b.WriteString(fmt.Sprintf("### %s\n\n", f.RuleName))
	b.WriteString(fmt.Sprintf("- **Location**: `%s:%d`\n", f.FilePath, f.LineNumber))
	b.WriteString(fmt.Sprintf("- **Type**: %s\n", f.SecretType))
	b.WriteString(fmt.Sprintf("- **Confidence**: %s\n", f.Confidence))
	b.WriteString(fmt.Sprintf("- **Preview**: `%s`\n", Redact(f.MatchedText)))
	if f.IsPlaceholder {
		b.WriteString("- **Note**: value looks like a placeholder or documented example\n")
	}
	if f.Baselined {
		b.WriteString("- **Note**: accepted in baseline, not counted against the gate\n")
	}
	switch f.Correlation {
	case findings.CorrelationStillPresent:
		b.WriteString("- **Status**: still present in the working tree and in git history, rotate and remove\n")
	case findings.CorrelationHistoryOnly:
		b.WriteString("- **Status**: removed from the working tree but recoverable from git history, rotate\n")
	}
	if f.History != nil {
		b.WriteString(fmt.Sprintf("- **Commit**: `%s` on `%s` by %s (%s)\n",
			shortCommit(f.History.CommitHash), f.History.RefName, f.History.Author,
			f.History.CommitDate.Format("2006-01-02")))
		if f.History.CommitMessage != "" {
			b.WriteString(fmt.Sprintf("- **Message**: %s\n", firstLine(f.History.CommitMessage)))
		}
	}
	if f.Warning != "" {
		b.WriteString(fmt.Sprintf("- **Warning**: %s\n", f.Warning))
	}
	b.WriteString("\n")
}

func writeDiagnostics(b *strings.Builder, rep *aggregate.Report) {
	if len(rep.Diagnostics) == 0 {
		return
	}
	b.WriteString("## Diagnostics\n\n")
	for _, d := range rep.Diagnostics {
		if d.Path != "" {
			b.WriteString(fmt.Sprintf("- `%s` (%s): %s\n", d.Path, d.Kind, d.Detail))
		} else {
			b.WriteString(fmt.Sprintf("- %s: %s\n", d.Kind, d.Detail))
		}
	}
	b.WriteString("\n")
}

func writeRemediation(b *strings.Builder, rep *aggregate.Report) {
	if rep.Summary.BySeverity[patterns.SeverityCritical.String()] == 0 {
		return
	}
	b.WriteString("## Remediation\n\n")
	b.WriteString("1. Rotate every credential listed above. Assume any secret that reached version control is compromised.\n")
	b.WriteString("2. Move secrets to environment variables or a secret manager; keep `.env` files out of version control.\n")
	b.WriteString("3. For secrets in git history, rewriting history only helps after rotation; rotated secrets can stay in history.\n")
	b.WriteString("4. Add this scan to CI so new secrets are blocked before merge.\n")
}

func shortCommit(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
