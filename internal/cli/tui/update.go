package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/monitor"
	"github.com/haskel/gpuscope/internal/table"
)

type stateMsg struct {
	state *monitor.SystemState
}

type tickMsg time.Time

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchState(),
		tick(m.config.RefreshInterval),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case stateMsg:
		m.state = msg.state
		if n := len(m.state.GPUs); m.device >= n {
			m.device = max(n-1, 0)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(
			m.fetchState(),
			tick(m.config.RefreshInterval),
		)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.NextDevice):
		if n := m.deviceCount(); n > 0 {
			m.device = (m.device + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevDevice):
		if n := m.deviceCount(); n > 0 {
			m.device = (m.device + n - 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Graphics):
		m.kind = gpu.GraphicsTable
		return m, nil

	case key.Matches(msg, m.keys.Compute):
		m.kind = gpu.ComputeTable
		return m, nil

	case key.Matches(msg, m.keys.SortPID):
		return m.clickSort(table.ColumnPID)

	case key.Matches(msg, m.keys.SortName):
		return m.clickSort(table.ColumnName)

	case key.Matches(msg, m.keys.SortMemory):
		return m.clickSort(table.ColumnMemory)
	}

	return m, nil
}

func (m Model) clickSort(column table.Column) (tea.Model, tea.Cmd) {
	if m.deviceCount() == 0 {
		return m, nil
	}
	if err := m.source.ClickSort(m.device, m.kind, column); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	// Show the new order without waiting for the next tick.
	return m, m.fetchState()
}

func (m Model) deviceCount() int {
	if m.state == nil {
		return 0
	}
	return len(m.state.GPUs)
}

// fetchState reads a copy of the engine state as tea.Cmd
func (m Model) fetchState() tea.Cmd {
	source, limit := m.source, m.chartWidth()
	return func() tea.Msg {
		return stateMsg{state: source.GetState(limit)}
	}
}

// tick creates a periodic tick command
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
