package config

import (
	"os"
	"path/filepath"
	"time"
)

// Default returns a configuration with sensible default values.
func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			Window:             time.Minute,
			HistorySize:        300,
			DefaultScaleFactor: 0.7,
			DefaultTag:         "untagged",
		},
		Monitoring: MonitoringConfig{
			PollInterval:     time.Second,
			DebounceInterval: 100 * time.Millisecond,
		},
		Storage: StorageConfig{
			ReportsDir: defaultReportsDir(),
			IndexPath:  defaultIndexPath(),
		},
		Display: DisplayConfig{
			GraphHeight: 8,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: "stderr",
			Format: "text",
		},
	}
}

// defaultReportsDir returns the default directory for session report files.
//
// Returns: ~/.local/share/apm-monitor/reports (or a relative fallback when
// the home directory cannot be resolved).
func defaultReportsDir() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "apm-monitor", "reports")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./reports"
	}

	return filepath.Join(homeDir, ".local", "share", "apm-monitor", "reports")
}

// defaultIndexPath returns the default report index database path.
func defaultIndexPath() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "apm-monitor", "index.db")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./index.db"
	}

	return filepath.Join(homeDir, ".local", "share", "apm-monitor", "index.db")
}

// defaultConfigPath returns the default configuration file path.
//
// Returns: ~/.config/apm-monitor/config.yaml.
func defaultConfigPath() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "apm-monitor", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.yaml"
	}

	return filepath.Join(homeDir, ".config", "apm-monitor", "config.yaml")
}
