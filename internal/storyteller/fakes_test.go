package storyteller

import (
	"time"
)

type scrollCall struct {
	offset   float64
	behavior Behavior
}

type fakeContainer struct {
	offset, extent, client float64

	listeners map[int]func()
	nextID    int
	listenErr error
	scrollErr error
	calls     []scrollCall
}

func newFakeContainer(offset, extent, client float64) *fakeContainer {
	return &fakeContainer{offset: offset, extent: extent, client: client, listeners: map[int]func(){}}
}

func (c *fakeContainer) ScrollOffset() float64 { return c.offset }
func (c *fakeContainer) ScrollExtent() float64 { return c.extent }
func (c *fakeContainer) ClientExtent() float64 { return c.client }

func (c *fakeContainer) ScrollTo(offset float64, b Behavior) error {
	if c.scrollErr != nil {
		return c.scrollErr
	}
	c.calls = append(c.calls, scrollCall{offset: offset, behavior: b})
	return nil
}

func (c *fakeContainer) ListenScroll(fn func()) (func(), error) {
	if c.listenErr != nil {
		return nil, c.listenErr
	}
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() { delete(c.listeners, id) }, nil
}

// scroll moves the container and fires the native notification.
func (c *fakeContainer) scroll(offset float64) {
	c.offset = offset
	for _, fn := range c.listeners {
		fn()
	}
}

type fakeHost struct {
	viewport, document float64

	listeners map[int]func()
	nextID    int
	listenErr error
	frames    []func()
	element   Container
	elemErr   error
}

func newFakeHost() *fakeHost {
	return &fakeHost{viewport: 900, document: 5000, listeners: map[int]func(){}}
}

func (h *fakeHost) ViewportExtent() float64 { return h.viewport }
func (h *fakeHost) DocumentExtent() float64 { return h.document }

func (h *fakeHost) ListenResize(fn func()) (func(), error) {
	if h.listenErr != nil {
		return nil, h.listenErr
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() { delete(h.listeners, id) }, nil
}

func (h *fakeHost) RequestFrame(fn func()) { h.frames = append(h.frames, fn) }

func (h *fakeHost) DocumentElement() (Container, error) { return h.element, h.elemErr }

func (h *fakeHost) resize() {
	for _, fn := range h.listeners {
		fn()
	}
}

func (h *fakeHost) runFrames() {
	frames := h.frames
	h.frames = nil
	for _, fn := range frames {
		fn()
	}
}

type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock { return &fakeClock{now: time.Unix(1_700_000_000, 0)} }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

type countingObserver struct {
	accepted map[Channel]int
	dropped  map[Channel]int
	failed   int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{accepted: map[Channel]int{}, dropped: map[Channel]int{}}
}

func (o *countingObserver) EventAccepted(ch Channel) { o.accepted[ch]++ }
func (o *countingObserver) EventDropped(ch Channel)  { o.dropped[ch]++ }
func (o *countingObserver) SubscriberFailed()        { o.failed++ }
