package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/mkolge/apm-monitor/pkg/capture"
	"github.com/mkolge/apm-monitor/pkg/dashboard"
	"github.com/mkolge/apm-monitor/pkg/engine"
	"github.com/mkolge/apm-monitor/pkg/logger"
	"github.com/mkolge/apm-monitor/pkg/report"
	"github.com/mkolge/apm-monitor/pkg/tui"
	"github.com/mkolge/apm-monitor/pkg/watcher"
)

var runSource string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the interactive monitor",
	Long: `Start the interactive terminal monitor.

The --source flag selects what feeds the session:
  keys  every key press in the monitor counts as one action
  demo  a synthetic generator emits actions at a steady pace`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMonitor()
	},
}

func init() {
	runCmd.Flags().StringVar(&runSource, "source", "keys", "action source (keys, demo)")
	rootCmd.AddCommand(runCmd)
}

func runMonitor() error {
	log := newLogger()

	if cfg.Display.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	var (
		src  capture.Source
		keys *capture.ChannelSource
	)
	switch runSource {
	case "keys":
		keys = capture.NewChannelSource(128)
		src = keys
	case "demo":
		src = capture.NewSyntheticSource(500 * time.Millisecond)
	default:
		return fmt.Errorf("unknown source %q (want keys or demo)", runSource)
	}
	if keys != nil {
		defer func() {
			if closeErr := keys.Close(); closeErr != nil {
				log.Error("failed to close key source", "error", closeErr)
			}
		}()
	}

	viewPath := dashboardPath(cfg.Storage.ReportsDir)
	renderer, err := dashboard.New(viewPath, log)
	if err != nil {
		return err
	}

	store, err := report.New(report.Config{
		Dir:       cfg.Storage.ReportsDir,
		IndexPath: cfg.Storage.IndexPath,
		Renderer:  renderer,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			log.Error("failed to close report store", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w, err := watcher.New(watcher.Config{
		DebounceInterval: cfg.Monitoring.DebounceInterval,
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			log.Error("failed to close reports watcher", "error", closeErr)
		}
	}()

	if err := w.Start(ctx, store.Dir()); err != nil {
		return err
	}
	go refreshOnChanges(ctx, w, store, log)

	eng := engine.New(engine.Config{
		Window:             cfg.Engine.Window,
		HistorySize:        cfg.Engine.HistorySize,
		DefaultScaleFactor: cfg.Engine.DefaultScaleFactor,
		DefaultTag:         cfg.Engine.DefaultTag,
	}, src, store, log)
	defer func() {
		if closeErr := eng.Close(); closeErr != nil {
			log.Error("failed to close engine", "error", closeErr)
		}
	}()

	model := tui.New(tui.Config{
		PollInterval:       cfg.Monitoring.PollInterval,
		GraphHeight:        cfg.Display.GraphHeight,
		DefaultScaleFactor: cfg.Engine.DefaultScaleFactor,
		DashboardPath:      viewPath,
	}, eng, store, keys, log)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("monitor exited with error: %w", err)
	}

	return nil
}

// refreshOnChanges regenerates the aggregate view when another process
// changes the reports directory.
func refreshOnChanges(ctx context.Context, w watcher.Watcher, store report.Store, log logger.Logger) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.Events():
			if !ok {
				return
			}
			log.Debug("reports directory changed",
				"path", event.Path,
				"op", event.Op.String())
			if err := store.RenderView(); err != nil {
				log.Error("failed to refresh aggregate view", "error", err)
			}

		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			log.Warn("reports watcher error", "error", err)
		}
	}
}
