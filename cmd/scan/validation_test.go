package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateScanArgs(t *testing.T) {
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "not-a-dir.txt")
	assert.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))
	overlay := filepath.Join(tmpDir, "rules.yml")
	assert.NoError(t, os.WriteFile(overlay, []byte("rules: []"), 0644))

	tests := []struct {
		name    string
		options RunOptionsScan
		args    []string
		wantErr string
	}{
		{
			name:    "Valid target path with default mode",
			options: RunOptionsScan{Mode: "full"},
			args:    []string{tmpDir},
			wantErr: "",
		},
		{
			name:    "Valid quick mode",
			options: RunOptionsScan{Mode: "quick"},
			args:    []string{tmpDir},
			wantErr: "",
		},
		{
			name:    "No target path defaults to current directory",
			options: RunOptionsScan{Mode: "full"},
			args:    []string{},
			wantErr: "",
		},
		{
			name:    "Two target paths",
			options: RunOptionsScan{Mode: "full"},
			args:    []string{tmpDir, tmpDir},
			wantErr: "at most one target path may be specified",
		},
		{
			name:    "Unknown mode",
			options: RunOptionsScan{Mode: "paranoid"},
			args:    []string{tmpDir},
			wantErr: "invalid mode",
		},
		{
			name:    "Missing target path",
			options: RunOptionsScan{Mode: "full"},
			args:    []string{filepath.Join(tmpDir, "missing")},
			wantErr: "does not exist",
		},
		{
			name:    "Target path is a file",
			options: RunOptionsScan{Mode: "full"},
			args:    []string{tmpFile},
			wantErr: "must be a directory",
		},
		{
			name:    "Valid overlay file",
			options: RunOptionsScan{Mode: "full", Overlay: overlay},
			args:    []string{tmpDir},
			wantErr: "",
		},
		{
			name:    "Missing overlay file",
			options: RunOptionsScan{Mode: "full", Overlay: filepath.Join(tmpDir, "nope.yml")},
			args:    []string{tmpDir},
			wantErr: "patterns file is not accessible",
		},
		{
			name:    "Overlay path is a directory",
			options: RunOptionsScan{Mode: "full", Overlay: tmpDir},
			args:    []string{tmpDir},
			wantErr: "patterns file is not accessible",
		},
		{
			name:    "Missing baseline file",
			options: RunOptionsScan{Mode: "full", Baseline: filepath.Join(tmpDir, "nope.json")},
			args:    []string{tmpDir},
			wantErr: "baseline file is not accessible",
		},
		{
			name:    "Negative workers",
			options: RunOptionsScan{Mode: "full", Workers: -1},
			args:    []string{tmpDir},
			wantErr: "'workers' flag must be a positive integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := validateScanArgs(&tt.options, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				assert.True(t, filepath.IsAbs(root), "resolved root should be absolute")
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}
