package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/history"
	"github.com/haskel/gpuscope/internal/monitor"
	"github.com/haskel/gpuscope/internal/process"
	"github.com/haskel/gpuscope/internal/table"
)

type sortClick struct {
	device int
	kind   gpu.TableKind
	column table.Column
}

type fakeSource struct {
	state  *monitor.SystemState
	clicks []sortClick
}

func (f *fakeSource) GetState(limit int) *monitor.SystemState {
	return f.state
}

func (f *fakeSource) ClickSort(device int, kind gpu.TableKind, column table.Column) error {
	if device >= len(f.state.GPUs) {
		return fmt.Errorf("no device %d", device)
	}
	f.clicks = append(f.clicks, sortClick{device, kind, column})
	return nil
}

func testState(devices int) *monitor.SystemState {
	state := &monitor.SystemState{GPUs: []gpu.DeviceState{}}
	for i := 0; i < devices; i++ {
		state.GPUs = append(state.GPUs, gpu.DeviceState{
			UUID:      fmt.Sprintf("GPU-%d", i),
			Name:      fmt.Sprintf("Test GPU %d", i),
			MaxMemory: 8 << 30,
			Usage:     []history.Sample{history.Some(40), history.None(), history.Some(80)},
			Graphics: gpu.TableState{
				Sort: table.DefaultSort(),
				Processes: []process.Record{
					{PID: 100, Name: "python", UsedGPUMemory: process.Used(1 << 30)},
					{PID: 200, Name: "Xorg", UsedGPUMemory: process.Unavailable()},
				},
			},
			Compute: gpu.TableState{
				Sort: table.DefaultSort(),
				Err:  errors.New("fetch failed"),
			},
		})
	}
	return state
}

func readyModel(source *fakeSource) Model {
	m := NewModel(source, Config{RefreshInterval: 250 * time.Millisecond})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	updated, _ = updated.Update(stateMsg{state: source.state})
	return updated.(Model)
}

func press(m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestUpdate_DeviceNavigation(t *testing.T) {
	m := readyModel(&fakeSource{state: testState(3)})

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.device)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 0, m.device, "tab wraps to the first device")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, 2, m.device, "shift+tab wraps to the last device")
}

func TestUpdate_DeviceClampedOnState(t *testing.T) {
	source := &fakeSource{state: testState(3)}
	m := readyModel(source)
	m.device = 2

	updated, _ := m.Update(stateMsg{state: testState(1)})
	assert.Equal(t, 0, updated.(Model).device)
}

func TestUpdate_TableSwitch(t *testing.T) {
	m := readyModel(&fakeSource{state: testState(1)})

	m, _ = press(m, runes("c"))
	assert.Equal(t, gpu.ComputeTable, m.kind)

	m, _ = press(m, runes("g"))
	assert.Equal(t, gpu.GraphicsTable, m.kind)
}

func TestUpdate_ClickSort(t *testing.T) {
	source := &fakeSource{state: testState(2)}
	m := readyModel(source)

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = press(m, runes("c"))
	m, cmd := press(m, runes("2"))

	require.Len(t, source.clicks, 1)
	assert.Equal(t, sortClick{device: 1, kind: gpu.ComputeTable, column: table.ColumnName}, source.clicks[0])
	assert.NotNil(t, cmd, "sorting triggers a refresh")
	assert.NoError(t, m.err)
}

func TestUpdate_ClickSortWithoutDevices(t *testing.T) {
	source := &fakeSource{state: testState(0)}
	m := readyModel(source)

	press(m, runes("1"))
	assert.Empty(t, source.clicks)
}

func TestUpdate_Quit(t *testing.T) {
	m := readyModel(&fakeSource{state: testState(1)})

	_, cmd := press(m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_TickFetchesState(t *testing.T) {
	source := &fakeSource{state: testState(1)}
	m := NewModel(source, Config{RefreshInterval: time.Second})

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.NotNil(t, cmd)

	msg := m.fetchState()()
	sm, ok := msg.(stateMsg)
	require.True(t, ok, "got %T", msg)
	assert.Same(t, source.state, sm.state)
}

func TestView_Loading(t *testing.T) {
	m := NewModel(&fakeSource{state: testState(1)}, Config{})
	assert.Equal(t, "Loading...", m.View())
}

func TestView_NoDevices(t *testing.T) {
	m := readyModel(&fakeSource{state: testState(0)})
	assert.Contains(t, m.View(), "No NVIDIA GPUs found")
}

func TestView_ProcessTable(t *testing.T) {
	m := readyModel(&fakeSource{state: testState(1)})
	view := m.View()

	for _, want := range []string{"python", "Xorg", "N/A", "1024.0 MB", "Memory ▼", "Test GPU 0"} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, errorFetchingRow)
}

func TestView_ProcessTableError(t *testing.T) {
	m := readyModel(&fakeSource{state: testState(1)})
	m, _ = press(m, runes("c"))

	view := m.View()
	assert.Contains(t, view, errorFetchingRow)
	assert.NotContains(t, view, "python")
}

func TestView_LongProcessName(t *testing.T) {
	source := &fakeSource{state: testState(1)}
	source.state.GPUs[0].Graphics.Processes[0].Name = strings.Repeat("模型训练", 10)
	m := readyModel(source)

	view := m.View()
	assert.True(t, utf8.ValidString(view))
	assert.Contains(t, view, strings.Repeat("模型训练", 2)+"模型...")
}

func TestNameCell(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "short is padded", in: "python", want: "python" + strings.Repeat(" ", 18)},
		{name: "exact fit", in: strings.Repeat("a", 24), want: strings.Repeat("a", 24)},
		{name: "long ascii", in: strings.Repeat("a", 30), want: strings.Repeat("a", 21) + "..."},
		{name: "multibyte", in: strings.Repeat("ñ", 30), want: strings.Repeat("ñ", 21) + "..."},
		// Ten wide characters fill 20 cells, the tail 3, one cell of padding.
		{name: "wide", in: strings.Repeat("漢", 30), want: strings.Repeat("漢", 10) + "... "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := nameCell(tt.in, nameColumnWidth)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
			assert.Equal(t, nameColumnWidth, ansi.StringWidth(got))
		})
	}
}

func TestColumnTitle(t *testing.T) {
	sort := table.Sort{Column: table.ColumnPID, Direction: table.Ascending}

	assert.Equal(t, "PID ▲", columnTitle("PID", table.ColumnPID, sort))
	assert.Equal(t, "Name", columnTitle("Name", table.ColumnName, sort))
}
