package process

import (
	"strconv"

	"github.com/c2h5oh/datasize"
)

// IdlePID is the pid NVML reports for system-wide aggregates. It carries no
// per-process attribution and is dropped from every table.
const IdlePID uint32 = 0

// UnknownName is shown when the OS has no entry for a GPU process.
const UnknownName = "Unknown"

// UsedMemory is the GPU memory a process holds, or unavailable when the
// driver does not report it (for example under WDDM or without privileges).
type UsedMemory struct {
	bytes     uint64
	available bool
}

func Used(bytes uint64) UsedMemory {
	return UsedMemory{bytes: bytes, available: true}
}

func Unavailable() UsedMemory {
	return UsedMemory{}
}

func (m UsedMemory) Bytes() (uint64, bool) {
	return m.bytes, m.available
}

func (m UsedMemory) Available() bool {
	return m.available
}

// Compare orders used amounts numerically and places Unavailable above any
// used amount. Two unavailable values are equal.
func (m UsedMemory) Compare(o UsedMemory) int {
	switch {
	case m.available && o.available:
		switch {
		case m.bytes < o.bytes:
			return -1
		case m.bytes > o.bytes:
			return 1
		}
		return 0
	case m.available:
		return -1
	case o.available:
		return 1
	}
	return 0
}

// String is a human readable size, or "N/A" when unavailable.
func (m UsedMemory) String() string {
	if !m.available {
		return "N/A"
	}
	return datasize.ByteSize(m.bytes).HumanReadable()
}

func (m UsedMemory) MarshalJSON() ([]byte, error) {
	if !m.available {
		return []byte("null"), nil
	}
	return strconv.AppendUint(nil, m.bytes, 10), nil
}

// Raw is a GPU process entry as reported by the device.
type Raw struct {
	PID           uint32
	UsedGPUMemory UsedMemory
}

// UtilizationSample is one per-process utilization reading from the device.
type UtilizationSample struct {
	PID       uint32
	Timestamp uint64
	SMPercent uint32
}

// Record is a GPU process joined with its OS name and, when sampled, its
// GPU utilization.
type Record struct {
	PID            uint32     `json:"pid"`
	Name           string     `json:"name"`
	UsedGPUMemory  UsedMemory `json:"used_gpu_memory"`
	GPUUtilization *uint32    `json:"gpu_utilization_percent,omitempty"`
}
