// Package fyneview hosts a storyteller inside a fyne window. The window and
// scroll container adapters need the gui build tag; Poller does not.
package fyneview

import (
	"context"
	"time"
)

// DefaultPollInterval matches how often the window size is sampled.
const DefaultPollInterval = 100 * time.Millisecond

// Poller samples a size and reports changes. fyne has no window resize
// callback, so resize notifications are derived from the canvas size.
type Poller struct {
	Interval time.Duration
	// Size returns the current width and height.
	Size func() (w, h float32)
	// OnChange runs on the poller goroutine after a size change.
	OnChange func(w, h float32)
}

// Run polls until ctx is done. The size seen on entry is the baseline.
func (p *Poller) Run(ctx context.Context) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastW, lastH := p.Size()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w, h := p.Size()
			if w <= 0 || h <= 0 {
				continue
			}
			if w != lastW || h != lastH {
				lastW, lastH = w, h
				p.OnChange(w, h)
			}
		}
	}
}
