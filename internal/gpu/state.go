package gpu

import (
	"github.com/haskel/gpuscope/internal/history"
	"github.com/haskel/gpuscope/internal/process"
	"github.com/haskel/gpuscope/internal/table"
)

// TableState is a sorted copy of a process table.
type TableState struct {
	Sort      table.Sort       `json:"sort"`
	Processes []process.Record `json:"processes"`
	Err       error            `json:"-"`
	Error     string           `json:"error,omitempty"`
}

// DeviceState is a copy of everything a renderer reads from a Device. It
// shares no memory with the Device.
type DeviceState struct {
	UUID        string           `json:"uuid"`
	Name        string           `json:"name"`
	MaxMemory   uint64           `json:"max_memory"`
	Usage       []history.Sample `json:"usage"`
	Memory      []history.Sample `json:"memory"`
	Temperature []history.Sample `json:"temperature"`
	Graphics    TableState       `json:"graphics"`
	Compute     TableState       `json:"compute"`
}

// Latest returns the most recent sample of a metric series.
func Latest(series []history.Sample) history.Sample {
	if len(series) == 0 {
		return history.None()
	}
	return series[0]
}

// Table returns the state of the table of the given kind.
func (s *DeviceState) Table(kind TableKind) *TableState {
	if kind == ComputeTable {
		return &s.Compute
	}
	return &s.Graphics
}

// State copies the device. limit caps the number of samples copied per
// metric, most recent first; limit <= 0 copies the whole history.
func (d *Device) State(limit int) DeviceState {
	return DeviceState{
		UUID:        d.uuid,
		Name:        d.name,
		MaxMemory:   d.maxMemory,
		Usage:       d.metrics[MetricUsage].history.Recent(limit),
		Memory:      d.metrics[MetricMemory].history.Recent(limit),
		Temperature: d.metrics[MetricTemperature].history.Recent(limit),
		Graphics:    tableState(d.tables[GraphicsTable].table),
		Compute:     tableState(d.tables[ComputeTable].table),
	}
}

func tableState(t *table.Table) TableState {
	records, err := t.Sorted()
	ts := TableState{
		Sort:      t.Sort(),
		Processes: records,
		Err:       err,
	}
	if err != nil {
		ts.Error = err.Error()
	}
	return ts
}
