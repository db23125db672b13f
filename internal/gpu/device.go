package gpu

import (
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/haskel/gpuscope/internal/cadence"
	"github.com/haskel/gpuscope/internal/history"
	"github.com/haskel/gpuscope/internal/process"
	"github.com/haskel/gpuscope/internal/table"
)

const (
	DefaultMetricsInterval = 500 * time.Millisecond
	DefaultProcessInterval = time.Second

	failureLogInterval = 30 * time.Second
	unknownDevice      = "unknown"
)

type Options struct {
	HistoryCapacity int
	MetricsInterval time.Duration
	ProcessInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		HistoryCapacity: history.DefaultCapacity,
		MetricsInterval: DefaultMetricsInterval,
		ProcessInterval: DefaultProcessInterval,
	}
}

// Metric is one sampled device metric and its history.
type Metric int

const (
	MetricUsage Metric = iota
	MetricMemory
	MetricTemperature
)

func (m Metric) String() string {
	switch m {
	case MetricUsage:
		return "usage"
	case MetricMemory:
		return "memory"
	case MetricTemperature:
		return "temperature"
	default:
		return "unknown"
	}
}

type metricSeries struct {
	kind     Metric
	history  *history.History
	gate     cadence.Gate
	read     func(DeviceHandle) (float32, error)
	failures *rate.Sometimes
}

// ProcessTable is one refreshable process table of a device.
type ProcessTable struct {
	fetcher  ProcessFetcher
	table    *table.Table
	gate     cadence.Gate
	failures *rate.Sometimes
}

func (t *ProcessTable) Kind() TableKind {
	return t.fetcher.Kind()
}

func (t *ProcessTable) Table() *table.Table {
	return t.table
}

// Device polls one GPU. Every metric and table refreshes on its own
// cadence; a failed fetch never blocks the others. A Device is owned by a
// single goroutine.
type Device struct {
	handle    DeviceHandle
	uuid      string
	name      string
	maxMemory uint64

	metrics  [3]*metricSeries
	tables   [2]*ProcessTable
	enricher *process.Enricher
	logger   *slog.Logger
}

// NewDevice reads the device identity and total memory once. Failures there
// degrade to placeholder values.
func NewDevice(h DeviceHandle, opts Options, enricher *process.Enricher, logger *slog.Logger) *Device {
	d := &Device{
		handle:   h,
		uuid:     unknownDevice,
		name:     unknownDevice,
		enricher: enricher,
	}

	if uuid, err := h.UUID(); err == nil {
		d.uuid = uuid
	} else {
		logger.Warn("failed to read device uuid", "error", err)
	}
	if name, err := h.Name(); err == nil {
		d.name = name
	} else {
		logger.Warn("failed to read device name", "device", d.uuid, "error", err)
	}
	if mem, err := h.MemoryInfo(); err == nil {
		d.maxMemory = mem.Total
	} else {
		logger.Warn("failed to read device memory size", "device", d.uuid, "error", err)
	}

	d.logger = logger.With("device", d.uuid)

	d.metrics = [3]*metricSeries{
		newMetricSeries(MetricUsage, opts, func(h DeviceHandle) (float32, error) {
			return h.UtilizationPercent()
		}),
		newMetricSeries(MetricMemory, opts, func(h DeviceHandle) (float32, error) {
			mem, err := h.MemoryInfo()
			return float32(mem.Used), err
		}),
		newMetricSeries(MetricTemperature, opts, func(h DeviceHandle) (float32, error) {
			return h.Temperature()
		}),
	}

	d.tables = [2]*ProcessTable{
		newProcessTable(Graphics{}, opts.ProcessInterval),
		newProcessTable(Compute{}, opts.ProcessInterval),
	}

	return d
}

func newMetricSeries(kind Metric, opts Options, read func(DeviceHandle) (float32, error)) *metricSeries {
	return &metricSeries{
		kind:     kind,
		history:  history.New(opts.HistoryCapacity),
		gate:     cadence.NewGate(opts.MetricsInterval),
		read:     read,
		failures: &rate.Sometimes{First: 1, Interval: failureLogInterval},
	}
}

func newProcessTable(fetcher ProcessFetcher, interval time.Duration) *ProcessTable {
	return &ProcessTable{
		fetcher:  fetcher,
		table:    table.New(),
		gate:     cadence.NewGate(interval),
		failures: &rate.Sometimes{First: 1, Interval: failureLogInterval},
	}
}

func (d *Device) UUID() string {
	return d.uuid
}

func (d *Device) Name() string {
	return d.name
}

// MaxMemory is the total device memory in bytes, 0 if unknown.
func (d *Device) MaxMemory() uint64 {
	return d.maxMemory
}

func (d *Device) History(m Metric) *history.History {
	return d.metrics[m].history
}

func (d *Device) Table(kind TableKind) *ProcessTable {
	return d.tables[kind]
}

// Click toggles the sort column of a table.
func (d *Device) Click(kind TableKind, c table.Column) {
	d.tables[kind].table.Click(c)
}

// SetIntervals changes the refresh cadence of metrics and process tables.
// Zero leaves an interval unchanged.
func (d *Device) SetIntervals(metrics, processes time.Duration) {
	if metrics > 0 {
		for _, m := range d.metrics {
			m.gate.SetInterval(metrics)
		}
	}
	if processes > 0 {
		for _, t := range d.tables {
			t.gate.SetInterval(processes)
		}
	}
}

// Tick refreshes every metric and table that is due at now.
func (d *Device) Tick(now time.Time) {
	for _, m := range d.metrics {
		if !m.gate.Due(now) {
			continue
		}
		v, err := m.read(d.handle)
		if err != nil {
			err = fetchFailed(m.kind.String(), err)
			m.failures.Do(func() {
				d.logger.Warn("metric fetch failed", "metric", m.kind.String(), "error", err)
			})
		}
		m.history.Push(history.FromResult(v, err))
		m.gate.Fire(now)
	}

	var (
		samples []process.UtilizationSample
		sampled bool
	)
	for _, t := range d.tables {
		if !t.gate.Due(now) {
			continue
		}
		t.gate.Fire(now)

		raw, err := t.fetcher.Fetch(d.handle)
		if err != nil {
			t.table.Fail(err)
			t.failures.Do(func() {
				d.logger.Warn("process list fetch failed", "table", t.Kind().String(), "error", err)
			})
			continue
		}

		if !sampled {
			samples = d.utilizationSamples()
			sampled = true
		}
		t.table.Replace(d.enricher.Enrich(now, raw, samples))
	}
}

func (d *Device) utilizationSamples() []process.UtilizationSample {
	sampler, ok := d.handle.(UtilizationSampler)
	if !ok {
		return nil
	}
	samples, err := sampler.ProcessUtilization()
	if err != nil {
		d.logger.Debug("process utilization unavailable", "error", err)
		return nil
	}
	if samples == nil {
		samples = []process.UtilizationSample{}
	}
	return samples
}
