package monitor

import (
	"time"

	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/history"
)

// Collector reads one host-level metric.
type Collector interface {
	Name() string
	Collect() (float64, error)
	// Max is the upper bound for charting, 0 if not known yet.
	Max() float64
}

type HostSeries struct {
	Name    string           `json:"name"`
	Max     float64          `json:"max"`
	Samples []history.Sample `json:"samples"`
}

type HostState struct {
	Series []HostSeries `json:"series"`
}

// Get returns the series with the given collector name.
func (h HostState) Get(name string) (HostSeries, bool) {
	for _, s := range h.Series {
		if s.Name == name {
			return s, true
		}
	}
	return HostSeries{}, false
}

type SystemState struct {
	Host      HostState         `json:"host"`
	GPUs      []gpu.DeviceState `json:"gpus"`
	Timestamp time.Time         `json:"timestamp"`
}
