package config

import (
	"fmt"
	"time"

	"github.com/leakscout/leakscout/pkg/shared/files"
)

// ValidateConfig checks if the global configurations have valid values.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := validateScannerConfig(&cfg.Scanner); err != nil {
		return fmt.Errorf("YAML global config: scanner directive is invalid: %w", err)
	}
	if err := validateWalkerConfig(&cfg.Walker); err != nil {
		return fmt.Errorf("YAML global config: walker directive is invalid: %w", err)
	}
	if err := validateValidatorConfig(&cfg.Validator); err != nil {
		return fmt.Errorf("YAML global config: validator directive is invalid: %w", err)
	}
	if err := validateReportConfig(&cfg.Report); err != nil {
		return fmt.Errorf("YAML global config: report directive is invalid: %w", err)
	}
	return nil
}

func validateReportConfig(cfg *Report) error {
	if cfg == nil {
		return fmt.Errorf("report configuration is nil")
	}
	for _, name := range []string{cfg.FindingsFile, cfg.MarkdownFile, cfg.SarifFile} {
		if name == "" {
			return fmt.Errorf("artifact file name must not be empty")
		}
		if _, err := files.EnsureWithinRoot(".", name); err != nil {
			return fmt.Errorf("artifact file name must stay inside the output directory: %q", name)
		}
	}
	return nil
}

func validateScannerConfig(cfg *Scanner) error {
	if cfg == nil {
		return fmt.Errorf("scanner configuration is nil")
	}
	if cfg.Workers < 1 || cfg.Workers > 256 {
		return fmt.Errorf("workers must be between 1 and 256: %d", cfg.Workers)
	}
	if cfg.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive: %d", cfg.ChunkSize)
	}
	if err := validateDuration(cfg.FileTimeout, "file_timeout", 10*time.Minute); err != nil {
		return err
	}
	if err := validateDuration(cfg.WallClockBudget, "wall_clock_budget", 24*time.Hour); err != nil {
		return err
	}
	return nil
}

func validateWalkerConfig(cfg *Walker) error {
	if cfg == nil {
		return fmt.Errorf("walker configuration is nil")
	}
	if cfg.MaxFileSize < 1 {
		return fmt.Errorf("max_file_size must be positive: %d", cfg.MaxFileSize)
	}
	return nil
}

func validateValidatorConfig(cfg *Validator) error {
	if cfg == nil {
		return fmt.Errorf("validator configuration is nil")
	}
	if cfg.DefaultEntropyThreshold < 0 || cfg.DefaultEntropyThreshold > 8 {
		return fmt.Errorf("default_entropy_threshold must be between 0 and 8: %f", cfg.DefaultEntropyThreshold)
	}
	for name, threshold := range cfg.EntropyThresholds {
		if threshold < 0 || threshold > 8 {
			return fmt.Errorf("entropy threshold for %q must be between 0 and 8: %f", name, threshold)
		}
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}
