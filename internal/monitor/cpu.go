package monitor

import (
	"github.com/shirou/gopsutil/v4/cpu"
)

// CPUCollector reports overall host CPU usage in percent.
type CPUCollector struct{}

func NewCPUCollector() *CPUCollector {
	return &CPUCollector{}
}

func (c *CPUCollector) Name() string {
	return "cpu"
}

func (c *CPUCollector) Max() float64 {
	return 100
}

func (c *CPUCollector) Collect() (float64, error) {
	// Interval 0 compares against the previous call.
	percentages, err := cpu.Percent(0, false)
	if err != nil {
		return 0, err
	}

	if len(percentages) == 0 {
		return 0, nil
	}
	return percentages[0], nil
}
