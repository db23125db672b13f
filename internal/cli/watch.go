package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/haskel/gpuscope/internal/config"
	"github.com/haskel/gpuscope/internal/gpu"
	"github.com/haskel/gpuscope/internal/monitor"
)

var summaryInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll GPUs headless and log periodic summaries",
	Long: `Run the poller in the foreground without a dashboard. A summary of
every device is logged on each --summary interval. When a config file is
given, changes to its polling section are applied without a restart.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&summaryInterval, "summary", 10*time.Second, "interval between device summaries")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if summaryInterval <= 0 {
		return fmt.Errorf("--summary must be positive, got %s", summaryInterval)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, closer, err := newLogger(cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info("gpuscope starting",
		"version", Version,
		"config", cfgFile,
	)

	eng, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := eng.agg.Start(ctx); err != nil {
		return fmt.Errorf("failed to start aggregator: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfgFile != "" {
		g.Go(func() error {
			return config.Watch(ctx, cfgFile, eng.agg.ApplyConfig, log)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(summaryInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logSummary(log, eng.agg.GetState(1))
			case <-ctx.Done():
				return nil
			}
		}
	})

	err = g.Wait()
	log.Info("gpuscope stopped")
	return err
}

func logSummary(log *slog.Logger, state *monitor.SystemState) {
	for _, d := range state.GPUs {
		log.Info("device summary",
			"device", d.UUID,
			"name", d.Name,
			"usage", formatSample(gpu.Latest(d.Usage), "%.0f%%"),
			"memory", formatSample(gpu.Latest(d.Memory), "%.0f"),
			"temperature", formatSample(gpu.Latest(d.Temperature), "%.0f"),
			"graphics_processes", processCount(&d.Graphics),
			"compute_processes", processCount(&d.Compute),
		)
	}
}

// processCount is -1 when the table holds an error.
func processCount(ts *gpu.TableState) int {
	if ts.Err != nil {
		return -1
	}
	return len(ts.Processes)
}
