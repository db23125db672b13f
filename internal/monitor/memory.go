package monitor

import (
	"github.com/shirou/gopsutil/v4/mem"
)

// MemoryCollector reports host RAM in use, in bytes.
type MemoryCollector struct {
	total uint64
}

func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

func (m *MemoryCollector) Name() string {
	return "memory"
}

// Max is the total RAM seen on the last successful collection.
func (m *MemoryCollector) Max() float64 {
	return float64(m.total)
}

func (m *MemoryCollector) Collect() (float64, error) {
	v, err := mem.VirtualMemory()
	if err != nil {
		return 0, err
	}

	m.total = v.Total
	return float64(v.Used), nil
}
