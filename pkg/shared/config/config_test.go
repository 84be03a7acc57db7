package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.NoError(t, err)
	assert.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, DefaultFileTimeout, cfg.Scanner.FileTimeout)
	assert.Equal(t, DefaultWallClockBudget, cfg.Scanner.WallClockBudget)
	assert.Equal(t, DefaultChunkSize, cfg.Scanner.ChunkSize)
	assert.Equal(t, int64(DefaultMaxFileSize), cfg.Walker.MaxFileSize)
	assert.Equal(t, DefaultFindingsFile, cfg.Report.FindingsFile)
	assert.Contains(t, cfg.Walker.ExcludedDirs, "node_modules")
	assert.Contains(t, cfg.Walker.ExcludedDirs, ".git")
	assert.Greater(t, cfg.Scanner.Workers, 0)
}

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `
scanner:
  workers: 4
  file_timeout: 30s
walker:
  max_file_size: 1048576
report:
  findings_file: custom-findings.json
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	assert.NoError(t, err)
	assert.NoError(t, ValidateConfig(cfg))

	assert.Equal(t, 4, cfg.Scanner.Workers)
	assert.Equal(t, 30*time.Second, cfg.Scanner.FileTimeout)
	assert.Equal(t, int64(1048576), cfg.Walker.MaxFileSize)
	assert.Equal(t, "custom-findings.json", cfg.Report.FindingsFile)
	// unset keys keep their defaults
	assert.Equal(t, DefaultWallClockBudget, cfg.Scanner.WallClockBudget)
	assert.Equal(t, DefaultMarkdownFile, cfg.Report.MarkdownFile)
}

func TestLoadConfigMissingFileIsError(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLoadConfigMalformedYAMLIsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yml")
	assert.NoError(t, os.WriteFile(path, []byte("scanner: [not a mapping"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero workers", func(c *Config) { c.Scanner.Workers = 0 }},
		{"too many workers", func(c *Config) { c.Scanner.Workers = 10000 }},
		{"zero chunk size", func(c *Config) { c.Scanner.ChunkSize = 0 }},
		{"negative file timeout", func(c *Config) { c.Scanner.FileTimeout = -time.Second }},
		{"zero max file size", func(c *Config) { c.Walker.MaxFileSize = 0 }},
		{"entropy threshold out of range", func(c *Config) { c.Validator.DefaultEntropyThreshold = 42 }},
		{"empty artifact name", func(c *Config) { c.Report.FindingsFile = "" }},
		{"artifact name escapes output dir", func(c *Config) { c.Report.MarkdownFile = "../report.md" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			ApplyDefaults(cfg)
			tt.mutate(cfg)
			assert.Error(t, ValidateConfig(cfg))
		})
	}
}
