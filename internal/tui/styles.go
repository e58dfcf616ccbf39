// internal/tui/styles.go
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7D56F4")
	colorText    = lipgloss.Color("#FAFAFA")
	colorSubtext = lipgloss.Color("#777777")
	colorSuccess = lipgloss.Color("#43BF6D")
	colorWarn    = lipgloss.Color("#F4A956")
	colorError   = lipgloss.Color("#FF5F5F")

	styleTitle = lipgloss.NewStyle().
			Background(colorPrimary).
			Foreground(colorText).
			Padding(0, 1).
			Bold(true)

	stylePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtext).
			Padding(0, 1)

	stylePanelTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleHelp = lipgloss.NewStyle().
			Foreground(colorSubtext)

	styleOK    = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleWarn  = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	styleError = lipgloss.NewStyle().Foreground(colorError).Bold(true)
)
