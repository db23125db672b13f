// Package history keeps a bounded, most-recent-first series of optional
// samples for one metric.
package history

import (
	"strconv"
)

// DefaultCapacity is the number of samples retained when no capacity is given.
const DefaultCapacity = 5000

// Sample is one optional reading. The zero value is a gap: no reading was
// obtained for that tick, which is different from a successful zero.
type Sample struct {
	value float32
	ok    bool
}

func Some(v float32) Sample {
	return Sample{value: v, ok: true}
}

func None() Sample {
	return Sample{}
}

// FromResult turns a fallible reading into a sample, mapping any error to a gap.
func FromResult(v float32, err error) Sample {
	if err != nil {
		return None()
	}
	return Some(v)
}

func (s Sample) Get() (float32, bool) {
	return s.value, s.ok
}

func (s Sample) Valid() bool {
	return s.ok
}

// Or returns the reading, or fallback for a gap.
func (s Sample) Or(fallback float32) float32 {
	if !s.ok {
		return fallback
	}
	return s.value
}

func (s Sample) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(s.value), 'g', -1, 32), nil
}

// History is a fixed-capacity ring of samples where index 0 is the most
// recent. Pushing past capacity drops the oldest entry.
type History struct {
	buf  []Sample
	head int
	size int
}

func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{buf: make([]Sample, capacity)}
}

// Push prepends s, evicting the oldest sample when the history is full.
func (h *History) Push(s Sample) {
	h.head--
	if h.head < 0 {
		h.head = len(h.buf) - 1
	}
	h.buf[h.head] = s
	if h.size < len(h.buf) {
		h.size++
	}
}

// At returns the sample i pushes ago, or a gap when i is out of range.
func (h *History) At(i int) Sample {
	if i < 0 || i >= h.size {
		return None()
	}
	return h.buf[(h.head+i)%len(h.buf)]
}

func (h *History) Latest() Sample {
	return h.At(0)
}

func (h *History) Len() int {
	return h.size
}

func (h *History) Cap() int {
	return len(h.buf)
}

// TrimTo drops the oldest samples so that Len does not exceed n. It lets a
// renderer bound retention to the highest index it actually drew; the
// poller itself relies on the fixed capacity and never calls it.
func (h *History) TrimTo(n int) {
	if n < 0 {
		n = 0
	}
	if h.size > n {
		h.size = n
	}
}

// Samples copies the history, most recent first.
func (h *History) Samples() []Sample {
	return h.Recent(h.size)
}

// Recent copies up to n of the most recent samples, most recent first.
// n <= 0 copies everything.
func (h *History) Recent(n int) []Sample {
	if n <= 0 || n > h.size {
		n = h.size
	}
	out := make([]Sample, n)
	for i := range out {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	return out
}
