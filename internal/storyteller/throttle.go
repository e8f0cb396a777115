package storyteller

import "time"

// gate accepts an event only if at least interval has passed since the
// previously accepted one. Rejected events do not move the window.
type gate struct {
	interval time.Duration
	last     time.Time
}

func (g *gate) allow(now time.Time) bool {
	if !g.last.IsZero() && now.Sub(g.last) < g.interval {
		return false
	}
	g.last = now
	return true
}
