package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDefault(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidatePolling(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*PollingConfig)
		wantErr bool
	}{
		{"valid defaults", func(p *PollingConfig) {}, false},
		{"tick too small", func(p *PollingConfig) { p.TickMS = 5 }, true},
		{"zero process interval", func(p *PollingConfig) { p.ProcessIntervalMS = 0 }, true},
		{"negative name cache interval", func(p *PollingConfig) { p.NameCacheIntervalMS = -1 }, true},
		{"tick slower than metrics", func(p *PollingConfig) {
			p.TickMS = 1000
			p.MetricsIntervalMS = 500
		}, true},
		{"tick equal to metrics", func(p *PollingConfig) { p.TickMS = 500 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg.Polling)
			err := cfg.Polling.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHistory(t *testing.T) {
	assert.Error(t, (&HistoryConfig{Capacity: -1}).Validate())
	assert.Error(t, (&HistoryConfig{Capacity: 0}).Validate())
	assert.NoError(t, (&HistoryConfig{Capacity: 1}).Validate())
	assert.NoError(t, (&HistoryConfig{Capacity: 5000}).Validate())
}

func TestValidateLogging(t *testing.T) {
	tests := []struct {
		level   string
		format  string
		wantErr bool
	}{
		{"debug", "json", false},
		{"info", "text", false},
		{"warn", "json", false},
		{"error", "text", false},
		{"invalid", "json", true},
		{"info", "invalid", true},
		{"", "json", true},
	}

	for _, tt := range tests {
		err := (&LoggingConfig{Level: tt.level, Format: tt.format}).Validate()
		if tt.wantErr {
			assert.Error(t, err, "level=%s format=%s", tt.level, tt.format)
		} else {
			assert.NoError(t, err, "level=%s format=%s", tt.level, tt.format)
		}
	}
}

func TestValidateTUI(t *testing.T) {
	assert.Error(t, (&TUIConfig{RefreshMS: 10}).Validate())
	assert.NoError(t, (&TUIConfig{RefreshMS: 100}).Validate())
}

func TestMinRefreshIntervalMatchesValidation(t *testing.T) {
	assert.Equal(t, 50*time.Millisecond, MinRefreshInterval)

	assert.NoError(t, (&TUIConfig{RefreshMS: int(MinRefreshInterval / time.Millisecond)}).Validate())
	assert.Error(t, (&TUIConfig{RefreshMS: int(MinRefreshInterval/time.Millisecond) - 1}).Validate())
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.History.Capacity = 0
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history:")
	assert.Contains(t, err.Error(), "logging:")
}
