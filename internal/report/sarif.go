package report

import (
	"fmt"
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/leakscout/leakscout/internal/aggregate"
	"github.com/leakscout/leakscout/internal/patterns"
)

const toolURI = "https://github.com/leakscout/leakscout"

// WriteSarif writes the SARIF 2.1.0 artifact for code-scanning integrations.
func (w *Writer) WriteSarif(rep *aggregate.Report) error {
	sarifReport, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI("leakscout", toolURI)
	for _, f := range rep.Findings {
		rule := run.AddRule(f.PatternID).
			WithDescription(f.RuleName).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: toSarifLevel(f.FinalSeverity),
			})

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(f.FilePath)).
				WithRegion(sarif.NewRegion().WithStartLine(f.LineNumber)),
		)

		message := fmt.Sprintf("%s detected (%s confidence): %s", f.RuleName, f.Confidence, Redact(f.MatchedText))
		if f.History != nil {
			message = fmt.Sprintf("%s, introduced in commit %s", message, shortCommit(f.History.CommitHash))
		}

		result := sarif.NewRuleResult(rule.ID).
			WithMessage(sarif.NewTextMessage(message)).
			WithLevel(toSarifLevel(f.FinalSeverity)).
			WithLocations([]*sarif.Location{location})
		run.AddResult(result)
	}
	sarifReport.AddRun(run)

	file, err := os.OpenFile(w.sarifFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", w.sarifFile, err)
	}
	defer func() { _ = file.Close() }()
	return sarifReport.PrettyWrite(file)
}

func toSarifLevel(severity patterns.Severity) string {
	switch severity {
	case patterns.SeverityCritical, patterns.SeverityHigh:
		return "error"
	case patterns.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}
