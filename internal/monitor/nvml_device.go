package monitor

import (
	"errors"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/process"
)

// NVML reports memory it cannot attribute as all bits set.
const nvmlValueNotAvailable = ^uint64(0)

func nvmlError(ret nvml.Return) error {
	return errors.New(nvml.ErrorString(ret))
}

// nvmlDevice adapts an NVML device to gpu.DeviceHandle.
type nvmlDevice struct {
	device nvml.Device

	// lastSeen is the newest per-process sample timestamp already returned.
	lastSeen uint64
}

func newNVMLDevice(device nvml.Device) *nvmlDevice {
	return &nvmlDevice{device: device}
}

func (d *nvmlDevice) UUID() (string, error) {
	uuid, ret := d.device.GetUUID()
	if ret != nvml.SUCCESS {
		return "", nvmlError(ret)
	}
	return uuid, nil
}

func (d *nvmlDevice) Name() (string, error) {
	name, ret := d.device.GetName()
	if ret != nvml.SUCCESS {
		return "", nvmlError(ret)
	}
	return name, nil
}

func (d *nvmlDevice) UtilizationPercent() (float32, error) {
	rates, ret := d.device.GetUtilizationRates()
	if ret != nvml.SUCCESS {
		return 0, nvmlError(ret)
	}
	return float32(rates.Gpu), nil
}

func (d *nvmlDevice) MemoryInfo() (gpu.MemoryInfo, error) {
	mem, ret := d.device.GetMemoryInfo()
	if ret != nvml.SUCCESS {
		return gpu.MemoryInfo{}, nvmlError(ret)
	}
	return gpu.MemoryInfo{Used: mem.Used, Total: mem.Total}, nil
}

func (d *nvmlDevice) Temperature() (float32, error) {
	temp, ret := d.device.GetTemperature(nvml.TEMPERATURE_GPU)
	if ret != nvml.SUCCESS {
		return 0, nvmlError(ret)
	}
	return float32(temp), nil
}

func (d *nvmlDevice) RunningGraphicsProcesses() ([]process.Raw, error) {
	infos, ret := d.device.GetGraphicsRunningProcesses()
	if ret != nvml.SUCCESS {
		return nil, nvmlError(ret)
	}
	return convertProcessInfos(infos), nil
}

func (d *nvmlDevice) RunningComputeProcesses() ([]process.Raw, error) {
	infos, ret := d.device.GetComputeRunningProcesses()
	if ret != nvml.SUCCESS {
		return nil, nvmlError(ret)
	}
	return convertProcessInfos(infos), nil
}

// ProcessUtilization returns the samples recorded since the previous call.
// NVML answers ERROR_NOT_FOUND when no process ran a kernel in that window,
// which is an empty sample list rather than a failure.
func (d *nvmlDevice) ProcessUtilization() ([]process.UtilizationSample, error) {
	samples, ret := d.device.GetProcessUtilization(d.lastSeen)
	if ret == nvml.ERROR_NOT_FOUND {
		return []process.UtilizationSample{}, nil
	}
	if ret != nvml.SUCCESS {
		return nil, nvmlError(ret)
	}

	out := make([]process.UtilizationSample, 0, len(samples))
	for _, s := range samples {
		out = append(out, process.UtilizationSample{
			PID:       s.Pid,
			Timestamp: s.TimeStamp,
			SMPercent: s.SmUtil,
		})
		if s.TimeStamp > d.lastSeen {
			d.lastSeen = s.TimeStamp
		}
	}
	return out, nil
}

func convertProcessInfos(infos []nvml.ProcessInfo) []process.Raw {
	procs := make([]process.Raw, 0, len(infos))
	for _, info := range infos {
		procs = append(procs, process.Raw{
			PID:           info.Pid,
			UsedGPUMemory: convertUsedMemory(info.UsedGpuMemory),
		})
	}
	return procs
}

func convertUsedMemory(bytes uint64) process.UsedMemory {
	if bytes == nvmlValueNotAvailable {
		return process.Unavailable()
	}
	return process.Used(bytes)
}
