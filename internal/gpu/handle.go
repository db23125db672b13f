package gpu

import (
	"errors"
	"fmt"

	"github.com/haskel/gpuscope/internal/process"
)

// ErrFetchFailed marks any failed device query. Driver, permission and
// device-removed causes are not told apart; the cause stays wrapped.
var ErrFetchFailed = errors.New("device fetch failed")

func fetchFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrFetchFailed, op, err)
}

// MemoryInfo is the device memory in bytes.
type MemoryInfo struct {
	Used  uint64 `json:"used"`
	Total uint64 `json:"total"`
}

// DeviceHandle is the hardware query capability for one GPU.
type DeviceHandle interface {
	UUID() (string, error)
	Name() (string, error)
	UtilizationPercent() (float32, error)
	MemoryInfo() (MemoryInfo, error)
	Temperature() (float32, error)
	RunningGraphicsProcesses() ([]process.Raw, error)
	RunningComputeProcesses() ([]process.Raw, error)
}

// UtilizationSampler is implemented by handles that can report per-process
// GPU utilization.
type UtilizationSampler interface {
	ProcessUtilization() ([]process.UtilizationSample, error)
}

// ProcessFetcher selects which process list a table shows.
type ProcessFetcher interface {
	Kind() TableKind
	Fetch(h DeviceHandle) ([]process.Raw, error)
}

type TableKind int

const (
	GraphicsTable TableKind = iota
	ComputeTable
)

func (k TableKind) String() string {
	if k == ComputeTable {
		return "compute"
	}
	return "graphics"
}

// Graphics fetches processes holding a graphics context.
type Graphics struct{}

func (Graphics) Kind() TableKind { return GraphicsTable }

func (Graphics) Fetch(h DeviceHandle) ([]process.Raw, error) {
	procs, err := h.RunningGraphicsProcesses()
	if err != nil {
		return nil, fetchFailed("running graphics processes", err)
	}
	return procs, nil
}

// Compute fetches processes holding a compute context.
type Compute struct{}

func (Compute) Kind() TableKind { return ComputeTable }

func (Compute) Fetch(h DeviceHandle) ([]process.Raw, error) {
	procs, err := h.RunningComputeProcesses()
	if err != nil {
		return nil, fetchFailed("running compute processes", err)
	}
	return procs, nil
}
