package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkolge/apm-monitor/pkg/engine"
	"github.com/mkolge/apm-monitor/pkg/report"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		m.stats = m.engine.Stats()
		return m, tickCmd(m.config.PollInterval)

	case reportsMsg:
		m.groups = msg.groups
		m.skipped = msg.skipped
		m.loadErr = msg.err
		if m.cursor >= countRecords(m.groups) {
			m.cursor = 0
		}
		return m, nil

	case actionMsg:
		if msg.err != nil {
			m.message = msg.err.Error()
		} else {
			m.message = msg.message
		}
		if m.screen == screenManage {
			return m, loadReports(m.store)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenStart:
			return m.updateStartDialog(msg)
		case screenManage:
			return m.updateManager(msg)
		default:
			return m.updateMonitor(msg)
		}
	}

	return m, nil
}

// updateMonitor handles keys on the live monitor screen.
func (m Model) updateMonitor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		if _, err := m.engine.Stop(); err != nil {
			m.logger.Error("failed to stop session on quit", "error", err)
		}
		return m, tea.Quit

	case "s":
		switch m.stats.State {
		case engine.StatePaused:
			m.engine.Resume()
			m.stats = m.engine.Stats()
		case engine.StateStopped:
			m.screen = screenStart
			m.tagInput.SetValue("")
			m.scaleInput.SetValue("")
			m.focusScale = false
			m.tagInput.Focus()
			m.scaleInput.Blur()
		}
		return m, nil

	case "p":
		m.engine.Pause()
		m.stats = m.engine.Stats()
		return m, nil

	case "x":
		rec, err := m.engine.Stop()
		m.stats = m.engine.Stats()
		switch {
		case err != nil:
			m.message = err.Error()
		case rec == nil:
			m.message = "session stopped (no actions, no report)"
		default:
			m.message = "report saved: " + rec.ID
		}
		return m, nil

	case "r":
		if m.stats.State == engine.StateStopped {
			return m, nil
		}
		rec, err := m.engine.Reset(m.stats.Tag, m.stats.ScaleFactor)
		m.stats = m.engine.Stats()
		switch {
		case err != nil:
			m.message = err.Error()
		case rec != nil:
			m.message = "report saved: " + rec.ID
		}
		return m, nil

	case "m":
		m.screen = screenManage
		m.cursor = 0
		m.message = ""
		return m, loadReports(m.store)

	case "f":
		return m, openPath(m.store.Dir())

	case "v":
		return m, renderAndOpenDashboard(m.store, m.config.DashboardPath)

	default:
		// Any other key is an action when keystrokes feed the session.
		if m.keys != nil {
			m.keys.Emit(time.Now())
		}
		return m, nil
	}
}

// updateStartDialog handles keys in the tag and scale dialog.
func (m Model) updateStartDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.screen = screenMonitor
		return m, nil

	case "tab", "shift+tab", "up", "down":
		m.focusScale = !m.focusScale
		if m.focusScale {
			m.tagInput.Blur()
			m.scaleInput.Focus()
		} else {
			m.scaleInput.Blur()
			m.tagInput.Focus()
		}
		return m, nil

	case "enter":
		tag := m.tagInput.Value()
		scale := parseScale(m.scaleInput.Value())

		if err := m.engine.Start(tag, scale); err != nil {
			m.message = err.Error()
		} else {
			m.message = ""
		}

		m.screen = screenMonitor
		m.stats = m.engine.Stats()
		return m, nil
	}

	var cmd tea.Cmd
	if m.focusScale {
		m.scaleInput, cmd = m.scaleInput.Update(msg)
	} else {
		m.tagInput, cmd = m.tagInput.Update(msg)
	}
	return m, cmd
}

// updateManager handles keys on the report manager screen.
func (m Model) updateManager(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	total := countRecords(m.groups)

	switch msg.String() {
	case "esc", "m", "q":
		m.screen = screenMonitor
		m.message = ""
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < total-1 {
			m.cursor++
		}
		return m, nil

	case "r":
		return m, loadReports(m.store)

	case "d":
		if rec, _, ok := recordAt(m.groups, m.cursor); ok {
			return m, deleteRecord(m.store, rec.ID)
		}
		return m, nil

	case "D":
		if _, tag, ok := recordAt(m.groups, m.cursor); ok {
			return m, deleteTag(m.store, tag)
		}
		return m, nil
	}

	return m, nil
}

// countRecords counts all records across groups.
func countRecords(groups []report.TagGroup) int {
	n := 0
	for _, g := range groups {
		n += len(g.Records)
	}
	return n
}

// recordAt resolves a flattened cursor position to a record and its tag.
func recordAt(groups []report.TagGroup, cursor int) (report.Record, string, bool) {
	if cursor < 0 {
		return report.Record{}, "", false
	}

	for _, g := range groups {
		if cursor < len(g.Records) {
			return g.Records[cursor], g.Tag, true
		}
		cursor -= len(g.Records)
	}

	return report.Record{}, "", false
}
