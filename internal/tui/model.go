// internal/tui/model.go
package tui

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamzrod/trdp-sim/internal/metrics"
)

// RefreshInterval is how often /api/metrics is polled.
const RefreshInterval = time.Second

type panel int

const (
	panelPdPublishers panel = iota
	panelPdSubscribers
	panelMdSenders
	panelMdListeners
	panelCount
)

var panelTitles = [panelCount]string{"PD publishers", "PD subscribers", "MD senders", "MD listeners"}

type (
	tickMsg     time.Time
	snapshotMsg struct {
		snap metrics.Snapshot
		at   time.Time
	}
	errMsg struct{ err error }
)

// Model is the dashboard state.
type Model struct {
	addr   string
	client *http.Client

	snap    metrics.Snapshot
	updated time.Time
	err     error

	tables [panelCount]table.Model
	focus  panel
	width  int
}

func newTable(cols ...string) table.Model {
	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		w := 14
		if i == 0 {
			w = 24
		}
		columns[i] = table.Column{Title: c, Width: w}
	}
	return table.New(table.WithColumns(columns), table.WithHeight(6))
}

// ---- commands ----

func fetch(client *http.Client, addr string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), RefreshInterval)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(addr, "/")+"/api/metrics", nil)
		if err != nil {
			return errMsg{err}
		}
		rsp, err := client.Do(req)
		if err != nil {
			return errMsg{err}
		}
		defer rsp.Body.Close()

		if rsp.StatusCode != http.StatusOK {
			return errMsg{fmt.Errorf("metrics: %s", rsp.Status)}
		}

		var snap metrics.Snapshot
		if err := json.NewDecoder(rsp.Body).Decode(&snap); err != nil {
			return errMsg{err}
		}
		return snapshotMsg{snap: snap, at: time.Now()}
	}
}

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ---- update ----

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % panelCount)
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + panelCount - 1) % panelCount)
			return m, nil
		}
		var cmd tea.Cmd
		m.tables[m.focus], cmd = m.tables[m.focus].Update(msg)
		return m, cmd

	case tickMsg:
		return m, tea.Batch(fetch(m.client, m.addr), tick())

	case snapshotMsg:
		m.snap = msg.snap
		m.updated = msg.at
		m.err = nil
		m.fillTables()
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m *Model) setFocus(p panel) {
	m.tables[m.focus].Blur()
	m.focus = p
	m.tables[m.focus].Focus()
}

func (m *Model) fillTables() {
	u := func(v uint64) string { return strconv.FormatUint(v, 10) }

	rows := make([]table.Row, 0, len(m.snap.PdPublishers))
	for _, p := range m.snap.PdPublishers {
		rows = append(rows, table.Row{p.Name, u(p.PacketsSent)})
	}
	m.tables[panelPdPublishers].SetRows(rows)

	rows = make([]table.Row, 0, len(m.snap.PdSubscribers))
	for _, p := range m.snap.PdSubscribers {
		rows = append(rows, table.Row{p.Name, u(p.PacketsReceived)})
	}
	m.tables[panelPdSubscribers].SetRows(rows)

	rows = make([]table.Row, 0, len(m.snap.MdSenders))
	for _, p := range m.snap.MdSenders {
		rows = append(rows, table.Row{p.Name, u(p.RequestsSent), u(p.RepliesReceived)})
	}
	m.tables[panelMdSenders].SetRows(rows)

	rows = make([]table.Row, 0, len(m.snap.MdListeners))
	for _, p := range m.snap.MdListeners {
		rows = append(rows, table.Row{p.Name, u(p.RequestsReceived), u(p.RepliesSent)})
	}
	m.tables[panelMdListeners].SetRows(rows)
}
