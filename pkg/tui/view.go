package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mkolge/apm-monitor/pkg/display"
	"github.com/mkolge/apm-monitor/pkg/engine"
)

// View implements tea.Model.
func (m Model) View() string {
	switch m.screen {
	case screenStart:
		return m.viewStartDialog()
	case screenManage:
		return m.viewManager()
	default:
		return m.viewMonitor()
	}
}

// viewMonitor renders the live monitoring screen.
func (m Model) viewMonitor() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("APM Monitor"))
	b.WriteString("\n\n")

	b.WriteString(m.renderStatsPanel())
	b.WriteString("\n")
	b.WriteString(m.renderGraphPanel())

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}
	if m.stats.CaptureError != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("capture: " + m.stats.CaptureError))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.monitorHelp()))

	return b.String()
}

func (m Model) monitorHelp() string {
	switch m.stats.State {
	case engine.StateRunning:
		return "p pause  x stop  r reset  m reports  f folder  v dashboard  q quit"
	case engine.StatePaused:
		return "s resume  x stop  r reset  m reports  f folder  v dashboard  q quit"
	default:
		return "s start  m reports  f folder  v dashboard  q quit"
	}
}

func (m Model) renderStatsPanel() string {
	state := stateStyle(m.stats.State).Render(string(m.stats.State))

	rows := []string{
		fmt.Sprintf("%s %s", labelStyle.Render("State:"), state),
		fmt.Sprintf("%s %s", labelStyle.Render("Tag:"), valueStyle.Render(orDash(m.stats.Tag))),
		"",
		fmt.Sprintf("%s %s", labelStyle.Render("Current APM:"), valueStyle.Render(display.FormatNumber(m.stats.CurrentRate))),
		fmt.Sprintf("%s %s", labelStyle.Render("Peak APM:"), valueStyle.Render(display.FormatNumber(m.stats.PeakRate))),
		fmt.Sprintf("%s %s", labelStyle.Render("Average APM:"), valueStyle.Render(display.FormatNumber(m.stats.AverageRate))),
		fmt.Sprintf("%s %s (x%s)", labelStyle.Render("Adjusted APM:"),
			valueStyle.Render(display.FormatNumber(m.stats.AdjustedAverageRate)),
			formatScale(m.stats.ScaleFactor)),
		"",
		fmt.Sprintf("%s %s", labelStyle.Render("Total actions:"), valueStyle.Render(display.FormatNumber(m.stats.TotalActions))),
		fmt.Sprintf("%s %s", labelStyle.Render("Active time:"), valueStyle.Render(m.stats.SessionTime)),
	}

	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m Model) renderGraphPanel() string {
	width := m.width - 8
	if width < 10 {
		width = 10
	}

	rows := display.Graph(m.stats.History, width, m.config.GraphHeight)
	if len(rows) == 0 {
		rows = []string{"(no samples yet)"}
	}

	return panelStyle.Render(strings.Join(rows, "\n"))
}

// viewStartDialog renders the tag and scale-factor prompt.
func (m Model) viewStartDialog() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Start Session"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Tag"))
	b.WriteString("\n")
	b.WriteString(m.tagInput.View())
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Scale factor (0-1 or percent)"))
	b.WriteString("\n")
	b.WriteString(m.scaleInput.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter start  tab switch field  esc cancel"))

	return panelStyle.Render(b.String())
}

// viewManager renders the report manager screen.
func (m Model) viewManager() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Session Reports"))
	b.WriteString("\n\n")

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render(m.loadErr.Error()))
		b.WriteString("\n")
	}

	if countRecords(m.groups) == 0 {
		b.WriteString(labelStyle.Render("No reports"))
		b.WriteString("\n")
	}

	idx := 0
	for _, g := range m.groups {
		b.WriteString(tagHeaderStyle.Render(fmt.Sprintf(" %s (%d) ", g.Tag, len(g.Records))))
		b.WriteString("\n")

		for _, rec := range g.Records {
			line := fmt.Sprintf("%s  avg %d  adj %d  peak %d  %s",
				rec.CompletedAt.Format("2006-01-02 15:04:05"),
				rec.AverageRate,
				rec.AverageAdjustedRate,
				rec.PeakRate,
				display.FormatDuration(time.Duration(rec.ActiveDurationSeconds*float64(time.Second))))

			if idx == m.cursor {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
			idx++
		}
	}

	if m.skipped > 0 {
		b.WriteString(labelStyle.Render(fmt.Sprintf("(%d unreadable reports skipped)", m.skipped)))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		b.WriteString(messageStyle.Render(m.message))
	}

	b.WriteString(helpStyle.Render("d delete  D delete tag  r refresh  esc back"))

	return b.String()
}

func stateStyle(s engine.State) lipgloss.Style {
	switch s {
	case engine.StateRunning:
		return runningStyle
	case engine.StatePaused:
		return pausedStyle
	default:
		return stoppedStyle
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
