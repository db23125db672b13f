package monitor

import (
	"fmt"
	"log/slog"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"github.com/haskel/gpuscope/internal/gpu"
)

// GPUMonitor enumerates NVIDIA GPUs through NVML.
// Graceful degradation: if NVML is not available, no devices are reported.
type GPUMonitor struct {
	available bool
	logger    *slog.Logger
}

func NewGPUMonitor(logger *slog.Logger) *GPUMonitor {
	m := &GPUMonitor{logger: logger}

	if ret := nvml.Init(); ret != nvml.SUCCESS {
		logger.Info("NVML not available, no GPUs will be monitored", "error", nvml.ErrorString(ret))
		return m
	}
	m.available = true

	if version, ret := nvml.SystemGetDriverVersion(); ret == nvml.SUCCESS {
		logger.Debug("NVML initialized", "driver", version)
	}

	return m
}

func (m *GPUMonitor) Name() string {
	return "gpu"
}

func (m *GPUMonitor) Available() bool {
	return m.available
}

// Devices returns a handle for every GPU NVML can open. Devices that fail
// to open are logged and skipped.
func (m *GPUMonitor) Devices() ([]gpu.DeviceHandle, error) {
	if !m.available {
		return []gpu.DeviceHandle{}, nil
	}

	count, ret := nvml.DeviceGetCount()
	if ret != nvml.SUCCESS {
		return nil, fmt.Errorf("failed to count devices: %w", nvmlError(ret))
	}

	handles := make([]gpu.DeviceHandle, 0, count)
	for i := 0; i < count; i++ {
		device, ret := nvml.DeviceGetHandleByIndex(i)
		if ret != nvml.SUCCESS {
			m.logger.Warn("failed to open device", "index", i, "error", nvml.ErrorString(ret))
			continue
		}
		handles = append(handles, newNVMLDevice(device))
	}

	return handles, nil
}

func (m *GPUMonitor) Close() error {
	if !m.available {
		return nil
	}
	m.available = false

	if ret := nvml.Shutdown(); ret != nvml.SUCCESS {
		return fmt.Errorf("failed to shut down NVML: %w", nvmlError(ret))
	}
	return nil
}
