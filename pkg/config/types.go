// Package config provides configuration management for apm-monitor.
//
// Configuration is loaded with the following precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file
// 3. Default values (lowest priority)
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Reports dir: %s\n", cfg.Storage.ReportsDir)
package config

import (
	"time"
)

// Config represents the complete application configuration.
//
// Invariants:
// - Engine.Window must be > 0
// - Engine.HistorySize must be > 0
// - Engine.DefaultScaleFactor must be within [0, 1]
// - Monitoring.PollInterval must be > 0
// - Storage.ReportsDir must be non-empty.
type Config struct {
	// Engine settings
	Engine EngineConfig `yaml:"engine"`

	// Monitoring settings
	Monitoring MonitoringConfig `yaml:"monitoring"`

	// Storage settings
	Storage StorageConfig `yaml:"storage"`

	// Display settings
	Display DisplayConfig `yaml:"display"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging"`
}

// EngineConfig contains rate-engine settings.
type EngineConfig struct {
	// Width of the sliding rate window
	Window time.Duration `yaml:"window"`

	// Maximum number of rate samples kept for the trend graph
	HistorySize int `yaml:"history_size"`

	// Scale factor applied to the average rate when a session
	// does not supply its own (0.0 - 1.0)
	DefaultScaleFactor float64 `yaml:"default_scale_factor"`

	// Tag assigned to sessions started without one
	DefaultTag string `yaml:"default_tag"`
}

// MonitoringConfig contains polling-related settings.
type MonitoringConfig struct {
	// How often the UI polls the engine for a stats snapshot
	PollInterval time.Duration `yaml:"poll_interval"`

	// Debounce interval for report-directory change events
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// StorageConfig contains storage-related settings.
type StorageConfig struct {
	// Directory holding one JSON record per completed session
	ReportsDir string `yaml:"reports_dir"`

	// Path to the BoltDB report index
	IndexPath string `yaml:"index_path"`
}

// DisplayConfig contains display-related settings.
type DisplayConfig struct {
	// Disable colored output
	NoColor bool `yaml:"no_color"`

	// Height of the rate trend graph in rows
	GraphHeight int `yaml:"graph_height"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Log level (debug, info, warn, error)
	Level string `yaml:"level"`

	// Log output destination (stdout, stderr, file path)
	Output string `yaml:"output"`

	// Log format (text, json)
	Format string `yaml:"format"`
}

// Validate checks if the configuration satisfies all invariants.
func (c *Config) Validate() error {
	if c.Engine.Window <= 0 {
		return ErrInvalidWindow
	}
	if c.Engine.HistorySize <= 0 {
		return ErrInvalidHistorySize
	}
	if c.Engine.DefaultScaleFactor < 0 || c.Engine.DefaultScaleFactor > 1 {
		return ErrInvalidScaleFactor
	}

	if c.Monitoring.PollInterval <= 0 {
		return ErrInvalidPollInterval
	}
	if c.Monitoring.DebounceInterval <= 0 {
		return ErrInvalidDebounceInterval
	}

	if c.Storage.ReportsDir == "" {
		return ErrNoReportsDir
	}

	if c.Display.GraphHeight <= 0 {
		return ErrInvalidGraphHeight
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Logging.Format] {
		return ErrInvalidLogFormat
	}

	return nil
}
