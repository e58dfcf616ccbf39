// internal/tui/tui.go
package tui

import (
	"net/http"

	tea "github.com/charmbracelet/bubbletea"
)

// New builds a dashboard polling the control plane at addr.
func New(addr string) Model {
	m := Model{
		addr:   addr,
		client: &http.Client{Timeout: RefreshInterval},
	}
	m.tables[panelPdPublishers] = newTable("name", "sent")
	m.tables[panelPdSubscribers] = newTable("name", "received")
	m.tables[panelMdSenders] = newTable("name", "requests", "replies")
	m.tables[panelMdListeners] = newTable("name", "requests", "replies")
	m.tables[m.focus].Focus()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(fetch(m.client, m.addr), tick())
}

// Run blocks until the user quits.
func Run(addr string) error {
	p := tea.NewProgram(New(addr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
