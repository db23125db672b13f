package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/history"
	"github.com/haskel/gpuscope/internal/monitor"
)

var (
	snapshotTicks   int
	snapshotHistory int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Poll all GPUs and print their state",
	Long: `Poll every GPU for a number of ticks, then print the latest metrics
and both process tables of each device.

Examples:
  gpuscope snapshot                       # One poll, text output
  gpuscope snapshot --samples 8 --json    # Eight ticks, JSON with history`,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVar(&snapshotTicks, "samples", 1, "number of poll ticks before printing")
	snapshotCmd.Flags().IntVar(&snapshotHistory, "history", 0, "samples per metric in JSON output (0 = all)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if snapshotTicks < 1 {
		return fmt.Errorf("--samples must be at least 1, got %d", snapshotTicks)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	eng, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	for i := 0; i < snapshotTicks; i++ {
		if i > 0 {
			time.Sleep(cfg.TickInterval())
		}
		eng.agg.Poll()
	}

	state := eng.agg.GetState(snapshotHistory)

	out := cmd.OutOrStdout()
	if jsonOut {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	writeSnapshot(out, state)
	return nil
}

func writeSnapshot(w io.Writer, state *monitor.SystemState) {
	if cpu, ok := state.Host.Get("cpu"); ok {
		fmt.Fprintf(w, "Host CPU:    %s\n", formatSample(gpu.Latest(cpu.Samples), "%.1f%%"))
	}
	if mem, ok := state.Host.Get("memory"); ok {
		used := "-"
		if v, ok := gpu.Latest(mem.Samples).Get(); ok {
			used = formatBytes(uint64(v))
		}
		fmt.Fprintf(w, "Host memory: %s / %s\n", used, formatBytes(uint64(mem.Max)))
	}

	if len(state.GPUs) == 0 {
		fmt.Fprintln(w, "No NVIDIA GPUs found")
		return
	}

	for i := range state.GPUs {
		d := &state.GPUs[i]
		fmt.Fprintf(w, "\nGPU %d: %s (%s)\n", i, d.Name, d.UUID)
		fmt.Fprintf(w, "  Usage:       %s\n", formatSample(gpu.Latest(d.Usage), "%.0f%%"))
		mem := "-"
		if v, ok := gpu.Latest(d.Memory).Get(); ok {
			mem = formatBytes(uint64(v))
		}
		fmt.Fprintf(w, "  Memory:      %s / %s\n", mem, formatBytes(d.MaxMemory))
		fmt.Fprintf(w, "  Temperature: %s\n", formatSample(gpu.Latest(d.Temperature), "%.0f°C"))

		for _, kind := range []gpu.TableKind{gpu.GraphicsTable, gpu.ComputeTable} {
			writeTable(w, kind, d.Table(kind))
		}
	}
}

func writeTable(w io.Writer, kind gpu.TableKind, ts *gpu.TableState) {
	fmt.Fprintf(w, "  %s processes (sorted by %s, %s):\n", kind, ts.Sort.Column, ts.Sort.Direction)
	if ts.Err != nil {
		fmt.Fprintf(w, "    Error fetching processes: %v\n", ts.Err)
		return
	}
	if len(ts.Processes) == 0 {
		fmt.Fprintln(w, "    none")
		return
	}
	fmt.Fprintf(w, "    %-8s %-24s %12s %5s\n", "PID", "NAME", "MEMORY", "GPU%")
	for _, p := range ts.Processes {
		fmt.Fprintf(w, "    %-8d %-24s %12s %5s\n", p.PID, p.Name, p.UsedGPUMemory.String(), formatUtilization(p.GPUUtilization))
	}
}

func formatSample(s history.Sample, format string) string {
	v, ok := s.Get()
	if !ok {
		return "-"
	}
	return fmt.Sprintf(format, v)
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
