package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader provides methods for loading configuration from various sources.
type Loader interface {
	// Load loads configuration with the following precedence:
	// 1. Environment variables
	// 2. Configuration file
	// 3. Default values
	//
	// Returns the merged configuration or an error if validation fails.
	Load() (*Config, error)

	// LoadFromFile loads configuration from a specific file.
	LoadFromFile(path string) (*Config, error)
}

// loader implements the Loader interface.
type loader struct {
	configPath string
}

// NewLoader creates a new configuration loader.
//
// If configPath is empty, the loader consults APM_MONITOR_CONFIG, then
// searches for a config file in:
// 1. ./config.yaml (current directory)
// 2. ~/.config/apm-monitor/config.yaml.
func NewLoader(configPath string) Loader {
	return &loader{configPath: configPath}
}

// Load implements Loader.Load.
func (l *loader) Load() (*Config, error) {
	cfg := Default()

	configPath := l.configPath
	explicit := configPath != ""
	if configPath == "" {
		if envPath := os.Getenv("APM_MONITOR_CONFIG"); envPath != "" {
			configPath = envPath
			explicit = true
		}
	}
	if configPath == "" {
		configPath = l.findConfigFile()
	}

	if configPath != "" {
		fileCfg, err := l.LoadFromFile(configPath)
		if err != nil {
			// An explicitly requested file must load; a discovered one may not.
			if explicit {
				return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
			}
		} else {
			cfg = l.mergeConfigs(cfg, fileCfg)
		}
	}

	cfg = l.applyEnvVars(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadFromFile implements Loader.LoadFromFile.
func (l *loader) LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from flag or well-known location
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return &cfg, nil
}

// findConfigFile searches for a config file in standard locations.
func (l *loader) findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		defaultConfigPath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// mergeConfigs merges file configuration into the default configuration.
// File values override defaults, but only if they are non-zero.
func (l *loader) mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Engine.Window > 0 {
		result.Engine.Window = override.Engine.Window
	}
	if override.Engine.HistorySize > 0 {
		result.Engine.HistorySize = override.Engine.HistorySize
	}
	if override.Engine.DefaultScaleFactor > 0 {
		result.Engine.DefaultScaleFactor = override.Engine.DefaultScaleFactor
	}
	if override.Engine.DefaultTag != "" {
		result.Engine.DefaultTag = override.Engine.DefaultTag
	}

	if override.Monitoring.PollInterval > 0 {
		result.Monitoring.PollInterval = override.Monitoring.PollInterval
	}
	if override.Monitoring.DebounceInterval > 0 {
		result.Monitoring.DebounceInterval = override.Monitoring.DebounceInterval
	}

	if override.Storage.ReportsDir != "" {
		result.Storage.ReportsDir = override.Storage.ReportsDir
	}
	if override.Storage.IndexPath != "" {
		result.Storage.IndexPath = override.Storage.IndexPath
	}

	if override.Display.NoColor {
		result.Display.NoColor = true
	}
	if override.Display.GraphHeight > 0 {
		result.Display.GraphHeight = override.Display.GraphHeight
	}

	if override.Logging.Level != "" {
		result.Logging.Level = override.Logging.Level
	}
	if override.Logging.Output != "" {
		result.Logging.Output = override.Logging.Output
	}
	if override.Logging.Format != "" {
		result.Logging.Format = override.Logging.Format
	}

	return &result
}

// applyEnvVars applies environment variable overrides to the configuration.
//
// Supported environment variables:
//   - APM_MONITOR_REPORTS_DIR: Directory for session report files
//   - APM_MONITOR_INDEX: Path to the report index database
//   - APM_MONITOR_LOG_LEVEL: Log level
//
// APM_MONITOR_CONFIG selects the config file itself and is handled in Load.
func (l *loader) applyEnvVars(cfg *Config) *Config {
	result := *cfg

	if dir := os.Getenv("APM_MONITOR_REPORTS_DIR"); dir != "" {
		result.Storage.ReportsDir = dir
	}

	if indexPath := os.Getenv("APM_MONITOR_INDEX"); indexPath != "" {
		result.Storage.IndexPath = indexPath
	}

	if logLevel := os.Getenv("APM_MONITOR_LOG_LEVEL"); logLevel != "" {
		result.Logging.Level = strings.ToLower(logLevel)
	}

	return &result
}

// Load is a convenience function that creates a loader and loads configuration.
func Load() (*Config, error) {
	return NewLoader("").Load()
}

// LoadFromFile is a convenience function that loads configuration from a file.
func LoadFromFile(path string) (*Config, error) {
	return NewLoader(path).Load()
}

// DefaultPath returns the path where Save writes the configuration by default.
func DefaultPath() string {
	return defaultConfigPath()
}

// Save writes the configuration to a YAML file.
//
// Creates parent directories if they don't exist.
// The file is created with 0600 permissions.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
