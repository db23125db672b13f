package tui

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/haskel/gpuscope/internal/history"
)

func TestSparkline(t *testing.T) {
	samples := []history.Sample{
		history.Some(100), // newest
		history.None(),
		history.Some(0),
	}

	assert.Equal(t, "  ▁ █", sparkline(samples, 5, 100))
}

func TestSparklineTruncates(t *testing.T) {
	samples := []history.Sample{history.Some(50), history.Some(50), history.Some(50)}

	assert.Equal(t, 2, utf8.RuneCountInString(sparkline(samples, 2, 100)))
}

func TestSparklineAutoScale(t *testing.T) {
	samples := []history.Sample{history.Some(10), history.Some(5)}

	assert.Equal(t, "▄█", sparkline(samples, 2, 0))
}

func TestSparklineEmpty(t *testing.T) {
	assert.Equal(t, "   ", sparkline(nil, 3, 100))
	assert.Empty(t, sparkline(nil, 0, 100))
}
