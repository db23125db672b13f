package config

func Default() *Config {
	return &Config{
		Polling: PollingConfig{
			TickMS:              250,
			MetricsIntervalMS:   500,
			ProcessIntervalMS:   1000,
			NameCacheIntervalMS: 2000,
		},
		History: HistoryConfig{
			Capacity: 5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		TUI: TUIConfig{
			RefreshMS: 250,
		},
	}
}
