package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/haskel/gpuscope/internal/monitor"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List NVIDIA GPUs",
	Long:  `List every GPU NVML can open with its UUID, name and total memory.`,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

type deviceInfo struct {
	Index       int    `json:"index"`
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	MemoryTotal uint64 `json:"memory_total_bytes"`
}

func runDevices(cmd *cobra.Command, args []string) error {
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

	devices := listDevices(eng.agg.GetState(1))

	out := cmd.OutOrStdout()
	if jsonOut {
		data, err := json.MarshalIndent(devices, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	writeDevices(out, devices)
	return nil
}

func listDevices(state *monitor.SystemState) []deviceInfo {
	devices := make([]deviceInfo, 0, len(state.GPUs))
	for i, d := range state.GPUs {
		devices = append(devices, deviceInfo{
			Index:       i,
			UUID:        d.UUID,
			Name:        d.Name,
			MemoryTotal: d.MaxMemory,
		})
	}
	return devices
}

func writeDevices(w io.Writer, devices []deviceInfo) {
	if len(devices) == 0 {
		fmt.Fprintln(w, "No NVIDIA GPUs found")
		return
	}
	for _, d := range devices {
		fmt.Fprintf(w, "%d  %-40s  %-30s  %s\n", d.Index, d.UUID, d.Name, formatBytes(d.MemoryTotal))
	}
}
