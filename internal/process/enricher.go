package process

import (
	"log/slog"
	"time"

	"github.com/haskel/gpuscope/internal/cadence"
)

// NameSource resolves pids to OS process names from a cached table.
type NameSource interface {
	// Refresh reloads the table. A failed refresh keeps the previous table.
	Refresh() error
	NameOf(pid uint32) (string, bool)
}

// DefaultNameCacheInterval bounds how often the OS process table is reloaded.
const DefaultNameCacheInterval = 2 * time.Second

// Enricher joins GPU process lists with OS process names and per-process
// utilization samples. It is not safe for concurrent use.
type Enricher struct {
	names  NameSource
	gate   cadence.Gate
	logger *slog.Logger
}

func NewEnricher(names NameSource, interval time.Duration, logger *slog.Logger) *Enricher {
	if interval <= 0 {
		interval = DefaultNameCacheInterval
	}
	return &Enricher{
		names:  names,
		gate:   cadence.NewGate(interval),
		logger: logger,
	}
}

// SetInterval changes how often the name table is reloaded.
func (e *Enricher) SetInterval(d time.Duration) {
	e.gate.SetInterval(d)
}

// Enrich builds records for raw in order, skipping IdlePID. A nil samples
// slice means utilization was not sampled and records carry none; a non-nil
// slice attaches each pid's latest sample, or 0 when the pid has none.
func (e *Enricher) Enrich(now time.Time, raw []Raw, samples []UtilizationSample) []Record {
	e.refreshNames(now)

	var utilization map[uint32]UtilizationSample
	if samples != nil {
		utilization = make(map[uint32]UtilizationSample, len(samples))
		for _, s := range samples {
			if prev, ok := utilization[s.PID]; ok && prev.Timestamp > s.Timestamp {
				continue
			}
			utilization[s.PID] = s
		}
	}

	records := make([]Record, 0, len(raw))
	for _, p := range raw {
		if p.PID == IdlePID {
			continue
		}

		name, ok := e.names.NameOf(p.PID)
		if !ok {
			name = UnknownName
		}

		rec := Record{
			PID:           p.PID,
			Name:          name,
			UsedGPUMemory: p.UsedGPUMemory,
		}
		if utilization != nil {
			pct := utilization[p.PID].SMPercent
			rec.GPUUtilization = &pct
		}
		records = append(records, rec)
	}
	return records
}

func (e *Enricher) refreshNames(now time.Time) {
	if !e.gate.Due(now) {
		return
	}
	e.gate.Fire(now)

	if err := e.names.Refresh(); err != nil {
		e.logger.Warn("process name refresh failed", "error", err)
	}
}
