// Package config loads and validates the gsquish YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/planbiir/gsquish/internal/clean"
	"github.com/planbiir/gsquish/internal/logger"
	"github.com/planbiir/gsquish/internal/simplify"
	"github.com/planbiir/gsquish/internal/trackio"
)

const (
	// DefaultAlgorithm is used when neither the file nor the flags pick one.
	DefaultAlgorithm = "squish_e"
	// DefaultSuffix is inserted before the extension of derived output paths.
	DefaultSuffix = "_simplified"
)

// Config represents the structure of the gsquish YAML file
type Config struct {
	Algorithm string                 `yaml:"algorithm"`
	Params    map[string]interface{} `yaml:"params,omitempty"`
	Clean     clean.Config           `yaml:"clean"`
	Output    OutputConfig           `yaml:"output"`
	LogLevel  string                 `yaml:"log_level"`
	Workers   int                    `yaml:"workers"` // 0 = one per CPU
}

// OutputConfig controls where and how results are written
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // empty keeps the input format
	Suffix string `yaml:"suffix"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Algorithm: DefaultAlgorithm,
		Params:    map[string]interface{}{},
		Clean:     clean.DefaultConfig(),
		Output:    OutputConfig{Suffix: DefaultSuffix},
		LogLevel:  "info",
		Workers:   0,
	}
}

// Load loads the configuration from the given file path. Keys missing from
// the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Params == nil {
		config.Params = map[string]interface{}{}
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Save saves the configuration to the specified file path
func Save(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Make sure the directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks every field and builds the algorithm once so parameter
// errors surface before any input is read.
func (c *Config) Validate() error {
	var errs []error

	if _, err := simplify.Create(c.Algorithm, c.Params); err != nil {
		errs = append(errs, err)
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be >= 0, got %d", c.Workers))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Format != "" {
		if _, err := trackio.ParseFormat(c.Output.Format); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Clean.MaxSpeed < 0 {
		errs = append(errs, fmt.Errorf("clean.max_speed must be >= 0, got %g", c.Clean.MaxSpeed))
	}

	return errors.Join(errs...)
}
