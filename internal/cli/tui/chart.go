package tui

import (
	"strings"

	"github.com/haskel/gpuscope/internal/history"
)

const (
	chartLabelWidth = 24
	minChartWidth   = 10
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// sparkline draws samples (most recent first) right to left so the newest
// value is in the last column. Gaps and columns without data stay blank.
// A non-positive ceiling scales to the largest visible value.
func sparkline(samples []history.Sample, width int, ceiling float64) string {
	if width <= 0 {
		return ""
	}

	if ceiling <= 0 {
		for i := 0; i < width && i < len(samples); i++ {
			if v, ok := samples[i].Get(); ok && float64(v) > ceiling {
				ceiling = float64(v)
			}
		}
	}

	var b strings.Builder
	for col := 0; col < width; col++ {
		age := width - 1 - col
		if age >= len(samples) {
			b.WriteRune(' ')
			continue
		}
		v, ok := samples[age].Get()
		if !ok {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(sparkBlocks[level(float64(v), ceiling)])
	}
	return b.String()
}

func level(v, ceiling float64) int {
	if ceiling <= 0 || v <= 0 {
		return 0
	}
	idx := int(v / ceiling * float64(len(sparkBlocks)-1))
	if idx >= len(sparkBlocks) {
		return len(sparkBlocks) - 1
	}
	return idx
}
