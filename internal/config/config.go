package config

import "time"

type Config struct {
	Polling PollingConfig `yaml:"polling" json:"polling"`
	History HistoryConfig `yaml:"history" json:"history"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	TUI     TUIConfig     `yaml:"tui" json:"tui"`
}

// PollingConfig holds the refresh cadences. The tick is how often the
// poll loop wakes up; each metric and table then refreshes only when its
// own interval has elapsed.
type PollingConfig struct {
	TickMS              int `yaml:"tick_ms" json:"tick_ms"`
	MetricsIntervalMS   int `yaml:"metrics_interval_ms" json:"metrics_interval_ms"`
	ProcessIntervalMS   int `yaml:"process_interval_ms" json:"process_interval_ms"`
	NameCacheIntervalMS int `yaml:"name_cache_interval_ms" json:"name_cache_interval_ms"`
}

type HistoryConfig struct {
	// Capacity is the number of samples kept per metric.
	Capacity int `yaml:"capacity" json:"capacity"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	// File receives log output. Empty means stdout for headless commands
	// and no logging for the dashboard.
	File string `yaml:"file" json:"file"`
}

type TUIConfig struct {
	RefreshMS int `yaml:"refresh_ms" json:"refresh_ms"`
}

func ms(v int) time.Duration {
	return time.Duration(v) * time.Millisecond
}

func (c *Config) TickInterval() time.Duration {
	return ms(c.Polling.TickMS)
}

func (c *Config) MetricsInterval() time.Duration {
	return ms(c.Polling.MetricsIntervalMS)
}

func (c *Config) ProcessInterval() time.Duration {
	return ms(c.Polling.ProcessIntervalMS)
}

func (c *Config) NameCacheInterval() time.Duration {
	return ms(c.Polling.NameCacheIntervalMS)
}

func (c *Config) RefreshInterval() time.Duration {
	return ms(c.TUI.RefreshMS)
}
