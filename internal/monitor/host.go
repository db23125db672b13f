package monitor

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/haskel/gpuscope/internal/cadence"
	"github.com/haskel/gpuscope/internal/history"
)

type hostSeries struct {
	collector Collector
	history   *history.History
	failures  *rate.Sometimes
}

// HostMonitor samples host collectors into histories on the metrics cadence.
type HostMonitor struct {
	series []*hostSeries
	gate   cadence.Gate
	logger *slog.Logger
}

func NewHostMonitor(collectors []Collector, capacity int, interval time.Duration, logger *slog.Logger) *HostMonitor {
	m := &HostMonitor{
		gate:   cadence.NewGate(interval),
		logger: logger,
	}
	for _, c := range collectors {
		m.series = append(m.series, &hostSeries{
			collector: c,
			history:   history.New(capacity),
			failures:  &rate.Sometimes{First: 1, Interval: 30 * time.Second},
		})
	}
	return m
}

func (m *HostMonitor) SetInterval(d time.Duration) {
	m.gate.SetInterval(d)
}

func (m *HostMonitor) Tick(now time.Time) {
	if !m.gate.Due(now) {
		return
	}
	m.gate.Fire(now)

	for _, s := range m.series {
		v, err := s.collector.Collect()
		if err != nil {
			s.failures.Do(func() {
				m.logger.Warn("host collection failed",
					"collector", s.collector.Name(),
					"error", err,
				)
			})
		}
		s.history.Push(history.FromResult(float32(v), err))
	}
}

func (m *HostMonitor) State(limit int) HostState {
	state := HostState{Series: make([]HostSeries, 0, len(m.series))}
	for _, s := range m.series {
		state.Series = append(state.Series, HostSeries{
			Name:    s.collector.Name(),
			Max:     s.collector.Max(),
			Samples: s.history.Recent(limit),
		})
	}
	return state
}
