package config

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v2"
)

// Config is the global application configuration, decoded from YAML once at
// startup and passed explicitly into every component.
type Config struct {
	Logger    Logger    `yaml:"logger"`
	Scanner   Scanner   `yaml:"scanner"`
	Walker    Walker    `yaml:"walker"`
	Validator Validator `yaml:"validator"`
	Patterns  Patterns  `yaml:"patterns"`
	Report    Report    `yaml:"report"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// Scanner holds scheduling and budget settings for a scan run.
type Scanner struct {
	Workers         int           `yaml:"workers"`
	FileTimeout     time.Duration `yaml:"file_timeout"`
	WallClockBudget time.Duration `yaml:"wall_clock_budget"`
	ChunkSize       int           `yaml:"chunk_size"`
}

// Walker holds file enumeration settings.
type Walker struct {
	ExcludedDirs []string `yaml:"excluded_dirs"`
	MaxFileSize  int64    `yaml:"max_file_size"`
}

// Validator holds the tunable confidence-scoring data. Entropy thresholds and
// the placeholder deny-list are configuration, not constants; empty values
// fall back to built-in defaults.
type Validator struct {
	DefaultEntropyThreshold float64            `yaml:"default_entropy_threshold"`
	EntropyThresholds       map[string]float64 `yaml:"entropy_thresholds"`
	PlaceholderTerms        []string           `yaml:"placeholder_terms"`
	KnownExamples           []string           `yaml:"known_examples"`
}

// Patterns points at an optional YAML overlay extending the built-in rule catalog.
type Patterns struct {
	Overlay string `yaml:"overlay"`
}

// Report holds output artifact naming.
type Report struct {
	FindingsFile string `yaml:"findings_file"`
	MarkdownFile string `yaml:"markdown_file"`
	SarifFile    string `yaml:"sarif_file"`
}

// ValidateConfigPath checks that the given path points at a regular file.
func ValidateConfigPath(path string) error {
	s, err := os.Stat(path)
	if err != nil {
		return err
	}
	if s.IsDir() {
		return fmt.Errorf("'%s' is a directory, not a file", path)
	}
	return nil
}

// LoadYAML decodes the YAML file at configPath into data.
func LoadYAML(configPath string, data interface{}) error {
	if err := ValidateConfigPath(configPath); err != nil {
		return err
	}

	file, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer file.Close()

	d := yaml.NewDecoder(file)
	if err := d.Decode(data); err != nil {
		return err
	}

	return nil
}

// LoadConfig reads the configuration file when a path is given and returns
// defaults otherwise. An explicitly named file that cannot be read is an error.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	if configPath == "" {
		ApplyDefaults(config)
		return config, nil
	}

	if err := LoadYAML(configPath, config); err != nil {
		return nil, err
	}
	ApplyDefaults(config)

	return config, nil
}
