// Package config holds the interpreter options that are not part of a
// scenario: debug checks on frame accessors, tracing and profiling.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the contents of a slotprobe configuration file
type Config struct {
	Debug   DebugConfig   `yaml:"debug"`
	Trace   TraceConfig   `yaml:"trace"`
	Profile ProfileConfig `yaml:"profile"`
}

// DebugConfig enables internal consistency checks
type DebugConfig struct {
	// CheckKinds makes typed frame reads fail when the accessor disagrees
	// with the slot kind
	CheckKinds bool `yaml:"check_kinds"`
}

// TraceConfig controls [TRACE] output
type TraceConfig struct {
	Enabled bool     `yaml:"enabled"`
	Filters []string `yaml:"filters"` // glob patterns on "function.slot"
	Output  string   `yaml:"output"`  // file path, stderr when empty
}

// ProfileConfig controls the write specialization report
type ProfileConfig struct {
	Enabled bool `yaml:"enabled"`
	Sort    bool `yaml:"sort"` // order sites by write count
	Kinds   bool `yaml:"kinds"`
}

// ValidationError lists everything wrong with a configuration
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Debug: DebugConfig{CheckKinds: true},
	}
}

// Load reads a YAML configuration file. Fields missing from the file keep
// their Default values; unknown fields are an error.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses a configuration from r on top of Default
func Decode(r io.Reader) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty file means defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the trace filters are well-formed glob patterns
func (c *Config) Validate() error {
	var issues []string
	for _, pattern := range c.Trace.Filters {
		if _, err := filepath.Match(pattern, ""); err != nil {
			issues = append(issues, fmt.Sprintf("trace.filters: bad pattern %q", pattern))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
