package tui

import (
	"fmt"
	"strings"

	"github.com/c2h5oh/datasize"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/history"
	"github.com/haskel/gpuscope/internal/monitor"
	"github.com/haskel/gpuscope/internal/table"
)

const (
	// Temperature charts are drawn against a fixed 0-100°C scale.
	temperatureCeiling = 100
	minTableRows       = 5
	nameColumnWidth    = 24
	errorFetchingRow   = "Error fetching processes"
)

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 || m.state == nil {
		return "Loading..."
	}

	var sections []string

	// Title bar
	sections = append(sections, m.renderTitleBar())

	// Error display
	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	sections = append(sections, m.renderHost(m.state.Host))

	dev := m.currentDevice()
	if dev == nil {
		sections = append(sections, helpStyle.Render("  No NVIDIA GPUs found"))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections,
		m.renderDeviceTabs(),
		m.renderCharts(dev),
		m.renderTableTabs(),
		m.renderProcesses(dev.Table(m.kind)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitleBar() string {
	title := titleStyle.Render("GPUSCOPE")

	help := make([]string, 0, len(m.keys.bindings()))
	for _, b := range m.keys.bindings() {
		h := b.Help()
		help = append(help, h.Key+":"+h.Desc)
	}

	rightPart := fmt.Sprintf("↻ %s | %s", m.config.RefreshInterval, strings.Join(help, " "))
	spacing := m.width - lipgloss.Width(title) - lipgloss.Width(rightPart) - 2
	if spacing < 1 {
		spacing = 1
	}

	return fmt.Sprintf("%s%s%s", title, strings.Repeat(" ", spacing), helpStyle.Render(rightPart))
}

func (m Model) renderHost(host monitor.HostState) string {
	var parts []string

	if cpu, ok := host.Get("cpu"); ok {
		if v, ok := gpu.Latest(cpu.Samples).Get(); ok {
			parts = append(parts, renderProgressBar("CPU", float64(v), 20))
		}
	}

	if mem, ok := host.Get("memory"); ok && mem.Max > 0 {
		if v, ok := gpu.Latest(mem.Samples).Get(); ok {
			bar := renderProgressBar("RAM", float64(v)/mem.Max*100, 20)
			info := fmt.Sprintf("%s / %s", formatBytes(uint64(v)), formatBytes(uint64(mem.Max)))
			parts = append(parts, bar+" "+valueStyle.Render(info))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return "  " + strings.Join(parts, "    ")
}

func renderProgressBar(label string, percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	color := getProgressColor(percent)
	filledBar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled))
	emptyBar := progressBarEmptyStyle.Render(strings.Repeat("░", width-filled))

	return fmt.Sprintf("%s [%s%s] %5.1f%%", labelStyle.Render(label), filledBar, emptyBar, percent)
}

func (m Model) renderDeviceTabs() string {
	tabs := make([]string, 0, len(m.state.GPUs))
	for i, d := range m.state.GPUs {
		label := fmt.Sprintf("%d: %s", i, d.Name)
		if i == m.device {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderCharts(dev *gpu.DeviceState) string {
	width := m.chartWidth()

	usage := "-"
	if v, ok := gpu.Latest(dev.Usage).Get(); ok {
		usage = fmt.Sprintf("%.0f%%", v)
	}

	memory := "- / " + formatBytes(dev.MaxMemory)
	if v, ok := gpu.Latest(dev.Memory).Get(); ok {
		memory = fmt.Sprintf("%s / %s", formatBytes(uint64(v)), formatBytes(dev.MaxMemory))
	}

	temperature := "-"
	if v, ok := gpu.Latest(dev.Temperature).Get(); ok {
		temperature = fmt.Sprintf("%.0f°C", v)
	}

	lines := []string{
		sectionHeaderStyle.Render("  " + dev.UUID),
		chartRow("Usage", usage, dev.Usage, width, 100),
		chartRow("Memory", memory, dev.Memory, width, float64(dev.MaxMemory)),
		chartRow("Temperature", temperature, dev.Temperature, width, temperatureCeiling),
	}
	return strings.Join(lines, "\n")
}

func chartRow(label, value string, samples []history.Sample, width int, ceiling float64) string {
	head := fmt.Sprintf("  %-11s %10s ", label, value)
	return labelStyle.Render(head) + valueStyle.Render(sparkline(samples, width, ceiling))
}

func (m Model) renderTableTabs() string {
	kinds := []gpu.TableKind{gpu.GraphicsTable, gpu.ComputeTable}
	tabs := make([]string, 0, len(kinds))
	for _, k := range kinds {
		label := strings.ToUpper(k.String()[:1]) + k.String()[1:]
		if k == m.kind {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderProcesses(ts *gpu.TableState) string {
	var lines []string

	header := fmt.Sprintf("  %-8s │ %-24s │ %12s │ %5s",
		columnTitle("PID", table.ColumnPID, ts.Sort),
		columnTitle("Name", table.ColumnName, ts.Sort),
		columnTitle("Memory", table.ColumnMemory, ts.Sort),
		"GPU%",
	)
	lines = append(lines, tableHeaderStyle.Render(header))

	if ts.Err != nil {
		lines = append(lines, errorStyle.Render("  "+errorFetchingRow))
		return strings.Join(lines, "\n")
	}

	maxRows := m.height - 14
	if maxRows < minTableRows {
		maxRows = minTableRows
	}

	procs := ts.Processes
	if len(procs) > maxRows {
		procs = procs[:maxRows]
	}

	for _, p := range procs {
		row := fmt.Sprintf("  %-8d │ %s │ %12s │ %5s",
			p.PID, nameCell(p.Name, nameColumnWidth), p.UsedGPUMemory.String(), formatUtilization(p.GPUUtilization))
		lines = append(lines, tableCellStyle.Render(row))
	}

	if len(ts.Processes) > maxRows {
		lines = append(lines, helpStyle.Render(fmt.Sprintf("  [%d of %d processes]", maxRows, len(ts.Processes))))
	}

	return strings.Join(lines, "\n")
}

// nameCell fits s into exactly width terminal cells. Long names are cut on
// character boundaries and end in "...".
func nameCell(s string, width int) string {
	s = ansi.Truncate(s, width, "...")
	if pad := width - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func columnTitle(title string, column table.Column, sort table.Sort) string {
	if sort.Column != column {
		return title
	}
	if sort.Direction == table.Descending {
		return title + " ▼"
	}
	return title + " ▲"
}

func formatUtilization(u *uint32) string {
	if u == nil {
		return "-"
	}
	return fmt.Sprintf("%d%%", *u)
}

func formatBytes(b uint64) string {
	return datasize.ByteSize(b).HumanReadable()
}
