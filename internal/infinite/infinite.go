// Package infinite fires a loader when a scroll container nears its end.
package infinite

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LoadFunc fetches more content. It runs on its own goroutine.
type LoadFunc func(ctx context.Context) error

// Trigger starts at most one LoadFunc at a time once scrolling reaches the
// last tenth of the scrollable extent.
type Trigger struct {
	load LoadFunc
	log  *zap.Logger

	g       errgroup.Group
	loading atomic.Bool

	mu   sync.Mutex
	errs []error
}

// New creates a Trigger around load. A nil logger discards output.
func New(load LoadFunc, log *zap.Logger) *Trigger {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Trigger{load: load, log: log}
	t.g.SetLimit(1)
	return t
}

// Reached reports whether offset is within the last 10% of the scrollable
// extent. Content that does not scroll has always reached its end.
func Reached(offset, extent, client float64) bool {
	h := int(extent - client)
	threshold := h - int(float32(h)*0.1)
	return offset >= float64(threshold)
}

// Check starts the loader if the end is near and no load is running. It
// reports whether a load was started.
func (t *Trigger) Check(ctx context.Context, offset, extent, client float64) bool {
	if !Reached(offset, extent, client) || !t.loading.CompareAndSwap(false, true) {
		return false
	}
	started := t.g.TryGo(func() error {
		defer t.loading.Store(false)
		if err := t.load(ctx); err != nil {
			t.log.Warn("infinite scroll load failed", zap.Error(err))
			t.mu.Lock()
			t.errs = append(t.errs, err)
			t.mu.Unlock()
		}
		return nil
	})
	if !started {
		// the previous load's goroutine has not been released yet
		t.loading.Store(false)
		return false
	}
	t.log.Debug("infinite scroll load started", zap.Float64("offset", offset), zap.Float64("extent", extent))
	return true
}

// Loading reports whether a load is in flight.
func (t *Trigger) Loading() bool { return t.loading.Load() }

// Wait blocks until the current load finishes and returns every load
// error seen so far.
func (t *Trigger) Wait() error {
	_ = t.g.Wait()
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Join(t.errs...)
}
