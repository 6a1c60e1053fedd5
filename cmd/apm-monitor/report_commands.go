package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkolge/apm-monitor/pkg/dashboard"
	"github.com/mkolge/apm-monitor/pkg/display"
	"github.com/mkolge/apm-monitor/pkg/logger"
	"github.com/mkolge/apm-monitor/pkg/report"
)

var (
	listFormat  string
	listCompact bool
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Manage persisted session reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports grouped by tag",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, log, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		groups, skipped, err := store.ListAll()
		if err != nil {
			return err
		}

		formatter := display.New(display.Config{
			Format:  display.Format(listFormat),
			Compact: listCompact,
		})
		return formatter.FormatGroups(os.Stdout, groups, skipped)
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <report>",
	Short: "Delete one report by filename",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, log, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		if err := store.Delete(args[0]); err != nil {
			return err
		}

		fmt.Printf("deleted %s\n", args[0])
		return nil
	},
}

var reportsDeleteTagCmd = &cobra.Command{
	Use:   "delete-tag <tag>",
	Short: "Delete every report in a tag group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, log, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		if err := store.DeleteTag(args[0]); err != nil {
			return err
		}

		fmt.Printf("deleted tag %s\n", args[0])
		return nil
	},
}

var reportsRenderCmd = &cobra.Command{
	Use:   "render",
	Short: "Regenerate the HTML dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, log, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		if err := store.RenderView(); err != nil {
			return err
		}

		fmt.Printf("rendered %s\n", dashboardPath(cfg.Storage.ReportsDir))
		return nil
	},
}

var reportsOpenCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the HTML dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, log, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore(store, log)

		if err := store.RenderView(); err != nil {
			return err
		}

		return dashboard.Open(dashboardPath(cfg.Storage.ReportsDir))
	},
}

var reportsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the reports directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(expandHome(cfg.Storage.ReportsDir))
		return nil
	},
}

func init() {
	reportsListCmd.Flags().StringVar(&listFormat, "format", "table", "output format (table, json, simple)")
	reportsListCmd.Flags().BoolVar(&listCompact, "compact", false, "compact output")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsDeleteCmd)
	reportsCmd.AddCommand(reportsDeleteTagCmd)
	reportsCmd.AddCommand(reportsRenderCmd)
	reportsCmd.AddCommand(reportsOpenCmd)
	reportsCmd.AddCommand(reportsPathCmd)
	rootCmd.AddCommand(reportsCmd)
}

// openStore opens the report store with the dashboard renderer attached so
// mutations keep the HTML view current.
func openStore() (report.Store, logger.Logger, error) {
	log := newLogger()

	renderer, err := dashboard.New(dashboardPath(cfg.Storage.ReportsDir), log)
	if err != nil {
		return nil, nil, err
	}

	store, err := report.New(report.Config{
		Dir:       cfg.Storage.ReportsDir,
		IndexPath: cfg.Storage.IndexPath,
		Renderer:  renderer,
	}, log)
	if err != nil {
		return nil, nil, err
	}

	return store, log, nil
}

func closeStore(store report.Store, log logger.Logger) {
	if err := store.Close(); err != nil {
		log.Error("failed to close report store", "error", err)
	}
}
