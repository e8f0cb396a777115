package fyneview

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type sizeSource struct {
	mu   sync.Mutex
	w, h float32
}

func (s *sizeSource) set(w, h float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.w, s.h = w, h
}

func (s *sizeSource) get() (float32, float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w, s.h
}

func TestPollerReportsChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := &sizeSource{w: 800, h: 600}
	changes := make(chan [2]float32, 4)
	p := &Poller{
		Interval: time.Millisecond,
		Size:     src.get,
		OnChange: func(w, h float32) { changes <- [2]float32{w, h} },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	src.set(1024, 600)
	select {
	case got := <-changes:
		assert.Equal(t, [2]float32{1024, 600}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("resize not reported")
	}

	// a minimized window reports zero and is ignored
	src.set(0, 0)
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, changes)

	cancel()
	<-done
}

func TestPollerStopsWithoutChanges(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	var calls int
	p := &Poller{
		Size:     func() (float32, float32) { return 10, 10 },
		OnChange: func(float32, float32) { calls++ },
	}
	p.Run(ctx)
	assert.Zero(t, calls)
}
