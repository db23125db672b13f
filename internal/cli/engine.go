package cli

import (
	"fmt"
	"log/slog"

	"github.com/haskel/gpuscope/internal/config"
	"github.com/haskel/gpuscope/internal/monitor"
	"github.com/haskel/gpuscope/internal/process"
)

// engine bundles the aggregator with the NVML session it polls.
type engine struct {
	agg *monitor.Aggregator
	gpu *monitor.GPUMonitor
	log *slog.Logger
}

func newEngine(cfg *config.Config, log *slog.Logger) (*engine, error) {
	gpuMon := monitor.NewGPUMonitor(log)

	handles, err := gpuMon.Devices()
	if err != nil {
		_ = gpuMon.Close()
		return nil, fmt.Errorf("failed to enumerate devices: %w", err)
	}

	host := monitor.NewHostMonitor(
		[]monitor.Collector{
			monitor.NewCPUCollector(),
			monitor.NewMemoryCollector(),
		},
		cfg.History.Capacity,
		cfg.MetricsInterval(),
		log,
	)

	agg := monitor.NewAggregator(handles, host, process.NewSystemNames(), monitor.OptionsFromConfig(cfg), log)

	return &engine{agg: agg, gpu: gpuMon, log: log}, nil
}

func (e *engine) Close() {
	_ = e.agg.Stop()
	if err := e.gpu.Close(); err != nil {
		e.log.Warn("failed to close NVML", "error", err)
	}
}
