package cadence

import "time"

// Gate tracks when a periodic refresh last ran and whether the next one is due.
// The zero value is never-fired and due immediately.
type Gate struct {
	interval time.Duration
	last     time.Time
	fired    bool
}

func NewGate(interval time.Duration) Gate {
	return Gate{interval: interval}
}

// Due reports whether a refresh should run at now.
func (g *Gate) Due(now time.Time) bool {
	if !g.fired {
		return true
	}
	return now.Sub(g.last) >= g.interval
}

func (g *Gate) Fire(now time.Time) {
	g.last = now
	g.fired = true
}

func (g *Gate) Interval() time.Duration {
	return g.interval
}

// SetInterval changes the interval without resetting the last refresh time.
func (g *Gate) SetInterval(d time.Duration) {
	g.interval = d
}

// LastFired returns the last refresh time and false if the gate never fired.
func (g *Gate) LastFired() (time.Time, bool) {
	return g.last, g.fired
}
