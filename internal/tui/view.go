// internal/tui/view.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tamzrod/trdp-sim/internal/metrics"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("trdpsim") + " " + styleHelp.Render(m.addr) + "\n\n")
	b.WriteString(m.lifecycleLine() + "\n")

	if m.err != nil {
		b.WriteString(styleError.Render("fetch failed: "+m.err.Error()) + "\n")
	} else if !m.updated.IsZero() {
		b.WriteString(styleHelp.Render("updated "+m.updated.Format("15:04:05")) + "\n")
	}
	b.WriteString("\n")

	panels := make([]string, panelCount)
	for i := range m.tables {
		style := stylePanel
		if panel(i) == m.focus {
			style = style.BorderForeground(colorPrimary)
		}
		panels[i] = style.Render(stylePanelTitle.Render(panelTitles[i]) + "\n" + m.tables[i].View())
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels[panelPdPublishers], panels[panelPdSubscribers]) + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panels[panelMdSenders], panels[panelMdListeners]) + "\n")

	b.WriteString(styleHelp.Render("tab: switch panel • ↑/↓: scroll • q: quit"))
	return b.String()
}

func (m Model) lifecycleLine() string {
	state := m.snap.AdapterState
	if state == "" {
		state = metrics.StateIdle
	}

	var styled string
	switch {
	case m.snap.IsError():
		styled = styleError.Render(state)
	case state == metrics.StateRunning:
		styled = styleOK.Render(state)
	default:
		styled = styleWarn.Render(state)
	}

	return fmt.Sprintf("state %s  running %s  adapter initialized %s",
		styled, yesNo(m.snap.SimulatorRunning), yesNo(m.snap.AdapterInitialized))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
