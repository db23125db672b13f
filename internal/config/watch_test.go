package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReloadsValidConfig(t *testing.T) {
	path := writeConfig(t, "history:\n  capacity: 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *Config, 4)
	errCh := make(chan error, 1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	go func() {
		errCh <- Watch(ctx, path, func(cfg *Config) { reloaded <- cfg }, logger)
	}()

	// Give the watcher time to register the directory.
	time.Sleep(200 * time.Millisecond)

	// Invalid content must not reach the callback.
	require.NoError(t, os.WriteFile(path, []byte("history:\n  capacity: 0\n"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("history:\n  capacity: 20\n"), 0644))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case cfg := <-reloaded:
			require.NotEqual(t, 0, cfg.History.Capacity, "invalid config was delivered")
			if cfg.History.Capacity == 20 {
				cancel()
				assert.NoError(t, <-errCh)
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for reload")
		}
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := Watch(context.Background(), "/nonexistent/dir/config.yaml", func(*Config) {}, logger)
	assert.Error(t, err)
}
