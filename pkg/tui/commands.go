package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkolge/apm-monitor/pkg/dashboard"
	"github.com/mkolge/apm-monitor/pkg/report"
)

// tickCmd drives the periodic stats poll.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadReports fetches the grouped report listing for the manager screen.
func loadReports(store report.Store) tea.Cmd {
	return func() tea.Msg {
		groups, skipped, err := store.ListAll()
		return reportsMsg{groups: groups, skipped: skipped, err: err}
	}
}

// deleteRecord removes one record and reloads the listing.
func deleteRecord(store report.Store, id string) tea.Cmd {
	return func() tea.Msg {
		if err := store.Delete(id); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("deleted %s", id)}
	}
}

// deleteTag removes a whole tag group and reloads the listing.
func deleteTag(store report.Store, tag string) tea.Cmd {
	return func() tea.Msg {
		if err := store.DeleteTag(tag); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("deleted tag %s", tag)}
	}
}

// openPath hands a file or directory to the platform opener.
func openPath(path string) tea.Cmd {
	return func() tea.Msg {
		if err := dashboard.Open(path); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: fmt.Sprintf("opened %s", path)}
	}
}

// renderAndOpenDashboard regenerates the aggregate view, then opens it.
func renderAndOpenDashboard(store report.Store, path string) tea.Cmd {
	return func() tea.Msg {
		if err := store.RenderView(); err != nil {
			return actionMsg{err: err}
		}
		if err := dashboard.Open(path); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{message: "dashboard opened"}
	}
}

// parseScale interprets the start dialog's scale input. Values above 1 are
// read as percentages. Empty or unparseable input returns -1, which the
// engine replaces with its configured default.
func parseScale(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" {
		return -1
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -1
	}
	if v > 1 {
		v /= 100
	}
	if v < 0 || v > 1 {
		return -1
	}

	return v
}

// formatScale renders a scale factor for the dialog placeholder.
func formatScale(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
