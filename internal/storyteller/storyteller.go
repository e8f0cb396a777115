// Package storyteller turns the raw scroll position of a container into a
// normalized, rate-limited progress value and layers range triggers on top
// of a single scroll listener.
//
// A Storyteller is driven from the UI goroutine of its host (the bubbletea
// update loop, fyne's main goroutine). It is not safe for concurrent use.
package storyteller

import (
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Channel names the source of a progress update.
type Channel string

const (
	ChannelScroll Channel = "scroll"
	ChannelResize Channel = "resize"
	ChannelFrame  Channel = "frame"
)

// Observer receives rate-limiting and dispatch outcomes, e.g. for metrics.
type Observer interface {
	EventAccepted(ch Channel)
	EventDropped(ch Channel)
	SubscriberFailed()
}

type nopObserver struct{}

func (nopObserver) EventAccepted(Channel) {}
func (nopObserver) EventDropped(Channel)  {}
func (nopObserver) SubscriberFailed()     {}

// Option customizes a Storyteller.
type Option func(*options)

type options struct {
	cfg      Config
	clock    Clock
	log      *zap.Logger
	observer Observer
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithClock sets the clock used for throttling.
func WithClock(c Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithLogger sets the logger. Subscriber panics are logged at error level.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithObserver attaches an Observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

type subscriber struct {
	id      uint64
	fn      func(Progress)
	removed bool
}

// Storyteller tracks the scroll progress of one container.
type Storyteller struct {
	container Container
	host      Host
	cfg       Config
	clock     Clock
	log       *zap.Logger
	observer  Observer

	current Progress
	subs    []*subscriber
	nextID  uint64

	scrollGate gate
	resizeGate gate

	removeScroll func()
	removeResize func()
	closed       bool
}

// New binds a Storyteller to a container inside a host window. It registers
// one scroll listener and one resize listener; Close releases both.
//
// Subscriber failure policy: a panicking subscriber is recovered and logged,
// and the remaining subscribers of the same dispatch still run.
func New(c Container, h Host, opts ...Option) (*Storyteller, error) {
	if c == nil {
		return nil, ErrNoContainer
	}
	if h == nil {
		return nil, ErrNoHost
	}

	o := options{
		cfg:      DefaultConfig(),
		clock:    systemClock{},
		log:      zap.NewNop(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	t := &Storyteller{
		container:  c,
		host:       h,
		cfg:        o.cfg,
		clock:      o.clock,
		log:        o.log,
		observer:   o.observer,
		subs:       make([]*subscriber, 0, 8),
		scrollGate: gate{interval: o.cfg.Throttle},
		resizeGate: gate{interval: o.cfg.ResizeDebounce},
	}

	removeScroll, err := c.ListenScroll(t.handleScroll)
	if err != nil {
		return nil, fmt.Errorf("storyteller: listen scroll: %w", err)
	}
	removeResize, err := h.ListenResize(t.handleResize)
	if err != nil {
		removeScroll()
		return nil, fmt.Errorf("storyteller: listen resize: %w", err)
	}
	t.removeScroll = removeScroll
	t.removeResize = removeResize

	initial := t.measure()
	t.current = initial

	if t.cfg.RunStraightAway || !initial.Scrollable() {
		h.RequestFrame(func() {
			if t.closed {
				return
			}
			t.observer.EventAccepted(ChannelFrame)
			t.dispatch(initial)
		})
	}

	t.log.Debug("storyteller attached",
		zap.Object("progress", initial),
		zap.Duration("throttle", t.cfg.Throttle),
		zap.Duration("resize_debounce", t.cfg.ResizeDebounce),
	)
	return t, nil
}

// ForWindow tracks the host's whole document.
func ForWindow(h DocumentHost, opts ...Option) (*Storyteller, error) {
	if h == nil {
		return nil, ErrNoHost
	}
	el, err := h.DocumentElement()
	if err != nil {
		return nil, fmt.Errorf("storyteller: document element: %w", err)
	}
	if el == nil {
		return nil, ErrNoContainer
	}
	return New(el, h, opts...)
}

// Current returns the most recently stored progress.
func (t *Storyteller) Current() Progress { return t.current }

// Close removes the scroll and resize listeners. No subscriber runs after
// Close returns. It is safe to call more than once.
func (t *Storyteller) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	t.removeScroll()
	t.removeResize()
	t.log.Debug("storyteller detached")
	return nil
}

func (t *Storyteller) handleScroll() {
	if t.closed {
		return
	}
	if !t.scrollGate.allow(t.clock.Now()) {
		t.observer.EventDropped(ChannelScroll)
		return
	}
	t.observer.EventAccepted(ChannelScroll)

	p := t.current.WithOffset(t.container.ScrollOffset() + t.cfg.OffsetTop)
	t.current = p
	if ce := t.log.Check(zapcore.DebugLevel, "scroll"); ce != nil {
		ce.Write(zap.Object("progress", p))
	}
	t.dispatch(p)
}

func (t *Storyteller) handleResize() {
	if t.closed {
		return
	}
	if !t.resizeGate.allow(t.clock.Now()) {
		t.observer.EventDropped(ChannelResize)
		return
	}
	t.observer.EventAccepted(ChannelResize)

	p := t.measure()
	t.current = p
	if ce := t.log.Check(zapcore.DebugLevel, "resize"); ce != nil {
		ce.Write(zap.Object("progress", p))
	}
	t.dispatch(p)
}

// Remeasure re-reads the container's extents after its content changed
// and dispatches the result. It is not subject to the resize debounce.
func (t *Storyteller) Remeasure() {
	if t.closed {
		return
	}
	t.observer.EventAccepted(ChannelResize)
	p := t.measure()
	t.current = p
	t.dispatch(p)
}

// measure reads all three quantities from the container. A container as
// tall as the document body is the document itself, so it takes the
// window's viewport instead of its own box.
func (t *Storyteller) measure() Progress {
	offset := t.container.ScrollOffset() + t.cfg.OffsetTop
	extent := t.container.ScrollExtent()
	viewport := t.container.ClientExtent() - t.cfg.OffsetTop - t.cfg.OffsetBottom
	if int(viewport) == int(t.host.DocumentExtent()) {
		viewport = t.host.ViewportExtent()
	}
	return NewProgress(offset, extent, viewport)
}

func (t *Storyteller) dispatch(p Progress) {
	for _, s := range slices.Clone(t.subs) {
		if t.closed {
			return
		}
		if s.removed {
			continue
		}
		t.guard(s.id, p, func() { s.fn(p) })
	}
}

func (t *Storyteller) guard(id uint64, p Progress, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.observer.SubscriberFailed()
			t.log.Error("scroll subscriber panicked",
				zap.Uint64("subscription", id),
				zap.Any("panic", r),
				zap.Object("progress", p),
			)
		}
	}()
	fn()
}

// OnScroll calls fn with every accepted progress update.
func (t *Storyteller) OnScroll(fn func(Progress)) *Subscription {
	t.nextID++
	s := &subscriber{id: t.nextID, fn: fn}
	t.subs = append(t.subs, s)
	return &Subscription{t: t, s: s}
}

// OnProgressRange calls fn on every update whose progress lies in
// [from, to], along with the progress re-mapped onto that range.
func (t *Storyteller) OnProgressRange(from, to float64, fn func(Progress, float64)) (*Subscription, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}
	return t.OnScroll(func(p Progress) {
		if p.IsInRange(from, to) {
			fn(p, p.InRange(from, to))
		}
	}), nil
}

// OnEnterRange calls fn once each time progress moves into [from, to].
func (t *Storyteller) OnEnterRange(from, to float64, fn func(Progress)) (*Subscription, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	state := rangeUnknown
	sub := t.OnScroll(func(p Progress) {
		prev := state
		state = stateFor(p.IsInRange(from, to))
		if state == rangeInside && prev != rangeInside {
			fn(p)
		}
	})

	if t.cfg.RunStraightAway {
		cur := t.current
		state = stateFor(cur.IsInRange(from, to))
		if state == rangeInside {
			t.guard(sub.s.id, cur, func() { fn(cur) })
		}
	}
	return sub, nil
}

// OnExitRange calls fn once each time progress leaves [from, to]. The
// first observation only records whether progress starts inside.
func (t *Storyteller) OnExitRange(from, to float64, fn func(Progress)) (*Subscription, error) {
	if err := checkRange(from, to); err != nil {
		return nil, err
	}

	state := rangeUnknown
	if t.cfg.RunStraightAway {
		state = stateFor(t.current.IsInRange(from, to))
	}

	return t.OnScroll(func(p Progress) {
		prev := state
		state = stateFor(p.IsInRange(from, to))
		if state == rangeOutside && prev == rangeInside {
			fn(p)
		}
	}), nil
}

// ScrollToProgress scrolls so that the container reads p, clamped to
// [0, 1], using the last recorded extents. Subscribers hear about it when
// the container reports the resulting scroll.
func (t *Storyteller) ScrollToProgress(p float64) error {
	if math.IsNaN(p) {
		p = 0
	}
	p = clamp(p, 0, 1)
	maxScroll := math.Max(t.current.Extent()-t.current.Viewport(), 0)
	return t.scrollTo(p*maxScroll - t.cfg.OffsetTop)
}

// ScrollToPixels scrolls to a raw offset.
func (t *Storyteller) ScrollToPixels(offset float64) error {
	return t.scrollTo(offset)
}

func (t *Storyteller) scrollTo(offset float64) error {
	b := t.cfg.behavior()
	if err := t.container.ScrollTo(offset, b); err != nil {
		return fmt.Errorf("storyteller: scroll to %.2f: %w", offset, err)
	}
	t.log.Debug("scroll requested", zap.Float64("offset", offset), zap.Stringer("behavior", b))
	return nil
}

func checkRange(from, to float64) error {
	if math.IsNaN(from) || math.IsNaN(to) || from >= to {
		return fmt.Errorf("%w: [%v, %v]", ErrInvalidRange, from, to)
	}
	return nil
}
