package report

import (
	"encoding/json"
	"fmt"

	"github.com/leakscout/leakscout/internal/aggregate"
	"github.com/leakscout/leakscout/pkg/shared/files"
)

// WriteJSON writes the machine-readable findings artifact. The aggregate
// already carries a deterministic finding order, so two runs over the same
// tree produce identical artifacts apart from metadata timing.
func (w *Writer) WriteJSON(rep *aggregate.Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return files.WriteJsonFile(w.findingsFile, data)
}
