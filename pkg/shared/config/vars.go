package config

import (
	"runtime"
	"time"
)

// Default limits for a scan run. All of these can be overridden via the YAML
// configuration file.
const (
	DefaultFileTimeout     = 10 * time.Second
	DefaultWallClockBudget = 15 * time.Minute
	DefaultChunkSize       = 64
	DefaultMaxFileSize     = 10 * 1024 * 1024
)

// Default artifact names, written at the scan root.
const (
	DefaultFindingsFile = "leakscout-findings.json"
	DefaultMarkdownFile = "leakscout-report.md"
	DefaultSarifFile    = "leakscout.sarif"
)

// DefaultExcludedDirs lists directory-name segments that are never descended
// into: dependency caches, VCS metadata, and build output.
func DefaultExcludedDirs() []string {
	return []string{
		"node_modules", ".git", "bin", "obj", "dist", "build", ".next",
		"__pycache__", ".venv", "venv", "vendor", "packages",
		".vercel", ".nuxt", ".cache", "coverage",
	}
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	cfg.Scanner.Workers = SetThen(cfg.Scanner.Workers, runtime.NumCPU())
	cfg.Scanner.FileTimeout = SetThen(cfg.Scanner.FileTimeout, time.Duration(DefaultFileTimeout))
	cfg.Scanner.WallClockBudget = SetThen(cfg.Scanner.WallClockBudget, time.Duration(DefaultWallClockBudget))
	cfg.Scanner.ChunkSize = SetThen(cfg.Scanner.ChunkSize, DefaultChunkSize)

	cfg.Walker.MaxFileSize = SetThen(cfg.Walker.MaxFileSize, int64(DefaultMaxFileSize))
	if len(cfg.Walker.ExcludedDirs) == 0 {
		cfg.Walker.ExcludedDirs = DefaultExcludedDirs()
	}

	cfg.Report.FindingsFile = SetThen(cfg.Report.FindingsFile, DefaultFindingsFile)
	cfg.Report.MarkdownFile = SetThen(cfg.Report.MarkdownFile, DefaultMarkdownFile)
	cfg.Report.SarifFile = SetThen(cfg.Report.SarifFile, DefaultSarifFile)
}
