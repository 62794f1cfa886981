// Package config holds the tansy CLI run configuration: an optional
// tansy.yaml overlaid onto defaults, with environment interpolation.
// CLI flags are applied on top by the caller, so a flag always beats
// the file.
package config

import (
	"fmt"
	"strings"
)

// Config represents the complete tansy run configuration.
type Config struct {
	Strict   bool   `yaml:"strict"`   // report dropped lines and unknown closers as diagnostics
	Seed     int64  `yaml:"seed"`     // run-wide random seed, 0 seeds from the clock
	Interval int    `yaml:"interval"` // default forever-loop interval in milliseconds
	NoColor  bool   `yaml:"no_color"` // disable styled terminal output
	History  string `yaml:"history"`  // REPL history file, empty for the OS temp dir default
	Quiet    bool   `yaml:"quiet"`    // suppress the variable dump and status headers
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Interval: 100,
	}
}

// Validate checks the configuration for errors. Call it again after CLI
// flags have been applied.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Interval < 0 {
		errs = append(errs, fmt.Sprintf("invalid interval: %d (must not be negative)", cfg.Interval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
