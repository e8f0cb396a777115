//go:build gui

package fyneview

import (
	"math"
	"slices"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"github.com/metcalfc/scrl/internal/storyteller"
)

// SmoothDuration is the length of an animated ScrollTo.
const SmoothDuration = 300 * time.Millisecond

type listener struct {
	fn      func()
	removed bool
}

// Scroll adapts a vertical *container.Scroll. Its methods must run on the
// fyne main goroutine.
type Scroll struct {
	s *container.Scroll

	listeners []*listener
	scrolled  uint64
	anim      *fyne.Animation
}

var _ storyteller.Container = (*Scroll)(nil)

// NewScroll takes over s.OnScrolled, chaining any handler already set.
func NewScroll(s *container.Scroll) *Scroll {
	sc := &Scroll{s: s}
	prev := s.OnScrolled
	s.OnScrolled = func(pos fyne.Position) {
		if prev != nil {
			prev(pos)
		}
		sc.scrolled++
		sc.fire()
	}
	return sc
}

// Widget returns the wrapped scroll container.
func (sc *Scroll) Widget() *container.Scroll { return sc.s }

func (sc *Scroll) ScrollOffset() float64 { return float64(sc.s.Offset.Y) }

func (sc *Scroll) ScrollExtent() float64 {
	if sc.s.Content == nil {
		return 0
	}
	return float64(sc.s.Content.MinSize().Height)
}

func (sc *Scroll) ClientExtent() float64 { return float64(sc.s.Size().Height) }

func (sc *Scroll) ListenScroll(fn func()) (func(), error) {
	l := &listener{fn: fn}
	sc.listeners = append(sc.listeners, l)
	return func() {
		l.removed = true
		sc.listeners = slices.DeleteFunc(sc.listeners, func(x *listener) bool { return x == l })
	}, nil
}

// ScrollTo moves to offset, animating with fyne's ease-in-out curve when
// behavior is smooth.
func (sc *Scroll) ScrollTo(offset float64, behavior storyteller.Behavior) error {
	maxOffset := math.Max(0, sc.ScrollExtent()-sc.ClientExtent())
	to := float32(math.Max(0, math.Min(offset, maxOffset)))

	if sc.anim != nil {
		sc.anim.Stop()
		sc.anim = nil
	}
	if behavior == storyteller.BehaviorInstant {
		sc.set(to)
		return nil
	}

	from := sc.s.Offset.Y
	sc.anim = fyne.NewAnimation(SmoothDuration, func(f float32) {
		sc.set(from + (to-from)*f)
	})
	sc.anim.Curve = fyne.AnimationEaseInOut
	sc.anim.Start()
	return nil
}

// set moves the content. Listeners are notified here only when the
// container did not report the move through OnScrolled.
func (sc *Scroll) set(y float32) {
	if sc.s.Offset.Y == y {
		return
	}
	before := sc.scrolled
	sc.s.Offset.Y = y
	sc.s.Refresh()
	if sc.scrolled == before {
		sc.fire()
	}
}

func (sc *Scroll) fire() {
	for _, l := range slices.Clone(sc.listeners) {
		if !l.removed {
			l.fn()
		}
	}
}
