package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#B4BEFE"))

	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A6E3A1"))

	pausedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F9E2AF"))

	stoppedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F38BA8"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8"))

	valueStyle = lipgloss.NewStyle().Bold(true)

	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#89B4FA"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8")).Padding(1, 0)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#585B70")).
			Padding(1, 2)

	tagHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#CBA6F7"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1E1E2E")).
			Background(lipgloss.Color("#89B4FA"))
)
