package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkolge/apm-monitor/pkg/config"
	"github.com/mkolge/apm-monitor/pkg/logger"
)

var (
	cfgPath string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "apm-monitor",
	Short: "Monitor input actions per minute",
	Long: `apm-monitor tracks input actions per minute over a sliding window,
accounts active session time across pauses, and persists one JSON report
per completed session with a tag-grouped HTML dashboard.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init writes a fresh file, so a missing one is expected there.
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "init" {
			return nil
		}

		var err error
		if cfgPath != "" {
			cfg, err = config.LoadFromFile(cfgPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("apm-monitor %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the application logger from the loaded configuration.
func newLogger() logger.Logger {
	return logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Output: cfg.Logging.Output,
		Format: cfg.Logging.Format,
	})
}

// dashboardPath is the rendered view's location inside the reports
// directory.
func dashboardPath(reportsDir string) string {
	return filepath.Join(expandHome(reportsDir), "index.html")
}

// expandHome expands ~ in file paths to the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	if path == "~" {
		return homeDir
	}

	return filepath.Join(homeDir, path[2:])
}
