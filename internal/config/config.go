// Package config defines the ingestion tool's configuration and how it is loaded.
//
// Conventions:
//   - New returns a Config populated with defaults.
//   - Load layers defaults, an optional YAML file, CRICKET_* env vars and CLI overrides.
//   - Validation failures wrap ErrInvalidConfig; loading failures wrap ErrLoadConfig.
package config

import (
	"fmt"
	"strings"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// DataDir is the directory scanned for scorecard files.
	DataDir string `koanf:"data_dir"`

	// Pattern is the glob, relative to DataDir, that selects scorecard files.
	Pattern string `koanf:"pattern"`

	// Driver selects the storage backend: postgres, sqlite or memory.
	Driver string `koanf:"driver"`

	// DatabaseURL is the connection string (postgres URL or sqlite file path).
	DatabaseURL string `koanf:"database_url"`

	// InitSchema applies the embedded DDL before ingesting.
	InitSchema bool `koanf:"init_schema"`

	// DryRun extracts every scorecard against an in-memory store and writes nothing.
	DryRun bool `koanf:"dry_run"`

	// MetricsFile, when set, receives a Prometheus textfile at the end of the run.
	MetricsFile string `koanf:"metrics_file"`

	// Prefetch bounds how many decoded scorecards are read ahead of the loader.
	Prefetch int `koanf:"prefetch"`

	// DedupeSize bounds the in-run cache of natural keys already handled.
	DedupeSize int `koanf:"dedupe_size"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:   "info",
		LogFormat:  "text",
		DataDir:    "./",
		Pattern:    "*.yaml",
		Driver:     DriverPostgres,
		Prefetch:   8,
		DedupeSize: 100_000,
	}
}

// Validate checks field values and cross-field constraints.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
		if c.DatabaseURL == "" && !c.DryRun {
			return fmt.Errorf("%w: database_url is required for driver %q (or set DATABASE_URL)", ErrInvalidConfig, c.Driver)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("%w: unknown driver %q", ErrInvalidConfig, c.Driver)
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Pattern) == "" {
		return fmt.Errorf("%w: pattern must not be empty", ErrInvalidConfig)
	}
	if c.Prefetch < 0 {
		return fmt.Errorf("%w: prefetch must not be negative", ErrInvalidConfig)
	}
	return nil
}

// EffectiveDriver is the driver actually used, accounting for dry runs.
func (c *Config) EffectiveDriver() string {
	if c.DryRun {
		return DriverMemory
	}
	return c.Driver
}
