package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/leakscout/leakscout/internal/aggregate"
	"github.com/leakscout/leakscout/pkg/shared/config"
)

// Writer renders a finished aggregate report into the output artifacts:
// a machine-readable JSON file, a human markdown summary and a SARIF file.
type Writer struct {
	findingsFile string
	markdownFile string
	sarifFile    string
	logger       hclog.Logger
}

// New creates a Writer that places artifacts at the scan root.
func New(root string, cfg *config.Config, logger hclog.Logger) *Writer {
	return &Writer{
		findingsFile: filepath.Join(root, cfg.Report.FindingsFile),
		markdownFile: filepath.Join(root, cfg.Report.MarkdownFile),
		sarifFile:    filepath.Join(root, cfg.Report.SarifFile),
		logger:       logger,
	}
}

// WriteAll writes every artifact. A failure to write any of them is fatal:
// a CI gate that cannot read the artifact must not be allowed to pass.
func (w *Writer) WriteAll(rep *aggregate.Report) error {
	if err := w.WriteJSON(rep); err != nil {
		return fmt.Errorf("failed to write findings artifact: %w", err)
	}
	if err := w.WriteMarkdown(rep); err != nil {
		return fmt.Errorf("failed to write markdown report: %w", err)
	}
	if err := w.WriteSarif(rep); err != nil {
		return fmt.Errorf("failed to write SARIF report: %w", err)
	}
	w.logger.Info("reports written",
		"findings", w.findingsFile, "markdown", w.markdownFile, "sarif", w.sarifFile)
	return nil
}

// Redact keeps the first 4 and last 2 characters of a matched secret and
// masks everything in between. Short values are fully masked.
func Redact(secret string) string {
	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}
	masked := len(secret) - 6
	if masked > 24 {
		masked = 24
	}
	return secret[:4] + strings.Repeat("*", masked) + secret[len(secret)-2:]
}
