package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/haskel/gpuscope/internal/cli/tui"
	"github.com/haskel/gpuscope/internal/config"
)

var (
	refreshInterval time.Duration
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	Long: `Launch an interactive terminal dashboard with usage, memory and
temperature charts and the process tables of every GPU.

Logs are discarded unless logging.file is set in the config.

Examples:
  gpuscope tui                    # Basic launch with default settings
  gpuscope tui --refresh 100ms    # Faster redraw
  gpuscope tui -c gpuscope.yaml   # Use a config file`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().DurationVar(&refreshInterval, "refresh", 0, "dashboard refresh interval (default from config)")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	refresh, err := resolveRefresh(cfg, refreshInterval, cmd.Flags().Changed("refresh"))
	if err != nil {
		return err
	}

	log, closer, err := newLogger(cfg, nil)
	if err != nil {
		return err
	}
	defer closer.Close()

	eng, err := newEngine(cfg, log)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := eng.agg.Start(ctx); err != nil {
		return fmt.Errorf("failed to start aggregator: %w", err)
	}

	return tui.Run(eng.agg, tui.Config{RefreshInterval: refresh})
}

// resolveRefresh returns the --refresh value when set, else the configured
// interval. Both obey the same lower bound.
func resolveRefresh(cfg *config.Config, flag time.Duration, set bool) (time.Duration, error) {
	if !set {
		return cfg.RefreshInterval(), nil
	}
	if flag < config.MinRefreshInterval {
		return 0, fmt.Errorf("--refresh must be at least %s, got %s", config.MinRefreshInterval, flag)
	}
	return flag, nil
}
