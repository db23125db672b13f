package monitor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCollector struct {
	name  string
	value float64
	err   error
	calls int
}

func (m *mockCollector) Name() string { return m.name }
func (m *mockCollector) Max() float64 { return 100 }

func (m *mockCollector) Collect() (float64, error) {
	m.calls++
	return m.value, m.err
}

func TestHostMonitor_Tick(t *testing.T) {
	cpu := &mockCollector{name: "cpu", value: 25}
	m := NewHostMonitor([]Collector{cpu}, 10, 500*time.Millisecond, testLogger())

	start := time.Unix(1_700_000_000, 0)
	m.Tick(start)
	m.Tick(start.Add(100 * time.Millisecond))
	assert.Equal(t, 1, cpu.calls)

	cpu.value = 75
	m.Tick(start.Add(500 * time.Millisecond))

	series, ok := m.State(0).Get("cpu")
	require.True(t, ok)
	require.Len(t, series.Samples, 2)

	v, _ := series.Samples[0].Get()
	assert.Equal(t, float32(75), v)
	assert.Equal(t, 100.0, series.Max)
}

func TestHostMonitor_FailureIsGap(t *testing.T) {
	mem := &mockCollector{name: "memory", err: errors.New("no /proc")}
	m := NewHostMonitor([]Collector{mem}, 10, time.Second, testLogger())

	m.Tick(time.Unix(1_700_000_000, 0))

	series, _ := m.State(0).Get("memory")
	require.Len(t, series.Samples, 1)
	assert.False(t, series.Samples[0].Valid())
}

func TestHostMonitor_Capacity(t *testing.T) {
	cpu := &mockCollector{name: "cpu"}
	m := NewHostMonitor([]Collector{cpu}, 3, time.Second, testLogger())

	now := time.Unix(1_700_000_000, 0)
	for i := 0; i < 5; i++ {
		m.Tick(now)
		now = now.Add(time.Second)
	}

	series, _ := m.State(0).Get("cpu")
	assert.Len(t, series.Samples, 3)
}

func TestHostState_GetMissing(t *testing.T) {
	var state HostState
	_, ok := state.Get("disk")
	assert.False(t, ok)
}
