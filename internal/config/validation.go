package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	minIntervalMS = 10
	minRefreshMS  = 50
)

// MinRefreshInterval is the fastest allowed dashboard redraw.
const MinRefreshInterval = minRefreshMS * time.Millisecond

func (c *Config) Validate() error {
	var errs []error

	if err := c.Polling.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("polling: %w", err))
	}

	if err := c.History.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("history: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.TUI.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tui: %w", err))
	}

	return errors.Join(errs...)
}

func (p *PollingConfig) Validate() error {
	var errs []error

	intervals := []struct {
		name  string
		value int
	}{
		{"tick_ms", p.TickMS},
		{"metrics_interval_ms", p.MetricsIntervalMS},
		{"process_interval_ms", p.ProcessIntervalMS},
		{"name_cache_interval_ms", p.NameCacheIntervalMS},
	}
	for _, iv := range intervals {
		if iv.value < minIntervalMS {
			errs = append(errs, fmt.Errorf("%s must be at least %d, got %d", iv.name, minIntervalMS, iv.value))
		}
	}

	if p.TickMS > p.MetricsIntervalMS {
		errs = append(errs, fmt.Errorf("tick_ms (%d) must not exceed metrics_interval_ms (%d)", p.TickMS, p.MetricsIntervalMS))
	}

	return errors.Join(errs...)
}

func (h *HistoryConfig) Validate() error {
	if h.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", h.Capacity)
	}
	return nil
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}

func (t *TUIConfig) Validate() error {
	if t.RefreshMS < minRefreshMS {
		return fmt.Errorf("refresh_ms must be at least %d, got %d", minRefreshMS, t.RefreshMS)
	}
	return nil
}
