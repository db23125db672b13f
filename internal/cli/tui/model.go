package tui

import (
	"time"

	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/monitor"
	"github.com/haskel/gpuscope/internal/table"
)

// Source is the polling engine the dashboard reads from.
type Source interface {
	GetState(limit int) *monitor.SystemState
	ClickSort(device int, kind gpu.TableKind, column table.Column) error
}

// Config holds TUI configuration
type Config struct {
	RefreshInterval time.Duration
}

// Model represents the TUI state
type Model struct {
	config Config
	source Source
	keys   keyMap

	state *monitor.SystemState

	// UI state
	width  int
	height int
	err    error

	device int
	kind   gpu.TableKind
}

// NewModel creates a new TUI model
func NewModel(source Source, cfg Config) Model {
	return Model{
		config: cfg,
		source: source,
		keys:   defaultKeyMap,
		kind:   gpu.GraphicsTable,
	}
}

// chartWidth is the number of samples one chart row shows.
func (m Model) chartWidth() int {
	w := m.width - chartLabelWidth - 2
	if w < minChartWidth {
		return minChartWidth
	}
	return w
}

func (m Model) currentDevice() *gpu.DeviceState {
	if m.state == nil || m.device >= len(m.state.GPUs) {
		return nil
	}
	return &m.state.GPUs[m.device]
}
