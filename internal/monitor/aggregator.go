package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/haskel/gpuscope/internal/config"
	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/process"
	"github.com/haskel/gpuscope/internal/table"
)

const DefaultTickInterval = 250 * time.Millisecond

var ErrUnknownDevice = errors.New("unknown device")

type Options struct {
	TickInterval      time.Duration
	NameCacheInterval time.Duration
	Device            gpu.Options
}

func DefaultOptions() Options {
	return Options{
		TickInterval:      DefaultTickInterval,
		NameCacheInterval: process.DefaultNameCacheInterval,
		Device:            gpu.DefaultOptions(),
	}
}

func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TickInterval:      cfg.TickInterval(),
		NameCacheInterval: cfg.NameCacheInterval(),
		Device: gpu.Options{
			HistoryCapacity: cfg.History.Capacity,
			MetricsInterval: cfg.MetricsInterval(),
			ProcessInterval: cfg.ProcessInterval(),
		},
	}
}

// Aggregator owns every GPU device and the host collectors and polls them
// from a single goroutine. Readers get copies through GetState.
type Aggregator struct {
	devices  []*gpu.Device
	host     *HostMonitor
	enricher *process.Enricher
	interval time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	reset    chan time.Duration
	done     chan struct{}
	stopOnce sync.Once
	logger   *slog.Logger
}

// NewAggregator builds a device for every handle. host may be nil.
func NewAggregator(handles []gpu.DeviceHandle, host *HostMonitor, names process.NameSource, opts Options, logger *slog.Logger) *Aggregator {
	enricher := process.NewEnricher(names, opts.NameCacheInterval, logger)

	devices := make([]*gpu.Device, 0, len(handles))
	for _, h := range handles {
		devices = append(devices, gpu.NewDevice(h, opts.Device, enricher, logger))
	}

	interval := opts.TickInterval
	if interval <= 0 {
		interval = DefaultTickInterval
	}

	return &Aggregator{
		devices:  devices,
		host:     host,
		enricher: enricher,
		interval: interval,
		now:      time.Now,
		reset:    make(chan time.Duration, 1),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

func (a *Aggregator) Start(ctx context.Context) error {
	// Initial collection
	a.Poll()

	go a.runLoop(ctx)

	a.logger.Info("aggregator started", "interval", a.interval, "devices", len(a.devices))
	return nil
}

func (a *Aggregator) Stop() error {
	a.stopOnce.Do(func() {
		close(a.done)
		a.logger.Info("aggregator stopped")
	})
	return nil
}

// Poll refreshes every device and host series that is due now.
func (a *Aggregator) Poll() {
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	for _, d := range a.devices {
		d.Tick(now)
	}
	if a.host != nil {
		a.host.Tick(now)
	}
}

func (a *Aggregator) DeviceCount() int {
	return len(a.devices)
}

// GetState copies the current state. limit caps the samples copied per
// series; limit <= 0 copies whole histories.
func (a *Aggregator) GetState(limit int) *SystemState {
	a.mu.RLock()
	defer a.mu.RUnlock()

	state := &SystemState{
		GPUs:      make([]gpu.DeviceState, 0, len(a.devices)),
		Timestamp: a.now(),
	}
	for _, d := range a.devices {
		state.GPUs = append(state.GPUs, d.State(limit))
	}
	if a.host != nil {
		state.Host = a.host.State(limit)
	}
	return state
}

func (a *Aggregator) GetStateJSON(limit int) ([]byte, error) {
	state := a.GetState(limit)
	return json.Marshal(state)
}

// ClickSort toggles the sort of one process table.
func (a *Aggregator) ClickSort(device int, kind gpu.TableKind, column table.Column) error {
	if device < 0 || device >= len(a.devices) {
		return fmt.Errorf("%w: index %d", ErrUnknownDevice, device)
	}

	a.mu.Lock()
	a.devices[device].Click(kind, column)
	a.mu.Unlock()
	return nil
}

// ApplyConfig updates polling cadences. History capacity is fixed at
// construction and is not changed.
func (a *Aggregator) ApplyConfig(cfg *config.Config) {
	opts := OptionsFromConfig(cfg)

	a.mu.Lock()
	for _, d := range a.devices {
		d.SetIntervals(opts.Device.MetricsInterval, opts.Device.ProcessInterval)
	}
	if a.host != nil {
		a.host.SetInterval(opts.Device.MetricsInterval)
	}
	a.enricher.SetInterval(opts.NameCacheInterval)
	a.mu.Unlock()

	if opts.TickInterval > 0 {
		// Drop a pending reset that was never picked up.
		select {
		case <-a.reset:
		default:
		}
		a.reset <- opts.TickInterval
	}

	a.logger.Info("polling configuration applied",
		"tick", opts.TickInterval,
		"metrics", opts.Device.MetricsInterval,
		"processes", opts.Device.ProcessInterval,
	)
}

func (a *Aggregator) runLoop(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.Poll()
		case d := <-a.reset:
			ticker.Reset(d)
		case <-ctx.Done():
			return
		case <-a.done:
			return
		}
	}
}
