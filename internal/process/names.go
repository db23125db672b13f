package process

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/process"
)

// SystemNames is a NameSource backed by the OS process table.
type SystemNames struct {
	names map[uint32]string
	list  func() ([]*process.Process, error)
}

func NewSystemNames() *SystemNames {
	return &SystemNames{
		names: make(map[uint32]string),
		list:  process.Processes,
	}
}

func (s *SystemNames) Refresh() error {
	procs, err := s.list()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	names := make(map[uint32]string, len(procs))
	for _, p := range procs {
		if p.Pid < 0 {
			continue
		}
		name, err := p.Name()
		if err != nil || name == "" {
			// Exited between listing and lookup, or not readable.
			continue
		}
		names[uint32(p.Pid)] = name
	}

	s.names = names
	return nil
}

func (s *SystemNames) NameOf(pid uint32) (string, bool) {
	name, ok := s.names[pid]
	return name, ok
}

func (s *SystemNames) Len() int {
	return len(s.names)
}
