package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haskel/gpuscope/internal/config"
	"github.com/haskel/gpuscope/internal/logger"
)

var (
	// Global flags
	cfgFile string
	jsonOut bool
	verbose bool

	// Version info (set from main)
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gpuscope",
	Short: "NVIDIA GPU telemetry and process monitor",
	Long: `Gpuscope polls NVIDIA GPUs for utilization, memory and temperature,
keeps a recent history of each metric and lists the graphics and compute
processes running on every device, joined with their OS process names.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

// GetConfigFile returns the config file path
func GetConfigFile() string {
	return cfgFile
}

// IsJSON returns whether JSON output is enabled
func IsJSON() bool {
	return jsonOut
}

// IsVerbose returns whether verbose output is enabled
func IsVerbose() bool {
	return verbose
}

// loadConfig returns defaults when no config file is given. A given file
// must exist and be valid.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the logger for a command. Output goes to the configured
// log file, else to fallback. A nil fallback discards logs.
func newLogger(cfg *config.Config, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}

	if cfg.Logging.File != "" {
		return logger.NewFile(cfg.Logging.File, level, cfg.Logging.Format)
	}
	if fallback == nil {
		return logger.Discard(), nopCloser{}, nil
	}
	return logger.NewWithWriter(fallback, level, cfg.Logging.Format), nopCloser{}, nil
}
