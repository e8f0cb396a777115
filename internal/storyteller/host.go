package storyteller

import "time"

// Behavior selects how a programmatic scroll moves the container.
type Behavior int

const (
	BehaviorInstant Behavior = iota
	BehaviorSmooth
)

func (b Behavior) String() string {
	if b == BehaviorSmooth {
		return "smooth"
	}
	return "instant"
}

// Container is the scrollable element a Storyteller observes. It is
// borrowed: several storytellers may observe the same container.
type Container interface {
	// ScrollOffset is the current position along the tracked axis.
	ScrollOffset() float64
	// ScrollExtent is the total extent of the content.
	ScrollExtent() float64
	// ClientExtent is the visible extent of the container's own box.
	ClientExtent() float64
	// ScrollTo moves to an absolute offset.
	ScrollTo(offset float64, behavior Behavior) error
	// ListenScroll registers fn for native scroll notifications and
	// returns a function that removes it.
	ListenScroll(fn func()) (remove func(), err error)
}

// Host is the window/document around a container.
type Host interface {
	// ViewportExtent is the window's own visible extent.
	ViewportExtent() float64
	// DocumentExtent is the client extent of the whole document body.
	DocumentExtent() float64
	// ListenResize registers fn for window resize notifications.
	ListenResize(fn func()) (remove func(), err error)
	// RequestFrame runs fn once on the next paint opportunity.
	RequestFrame(fn func())
}

// DocumentHost is a Host that can hand out its document as a container.
type DocumentHost interface {
	Host
	DocumentElement() (Container, error)
}

// Clock is the monotonic time source used for rate limiting.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// Now returns time.Now, which carries a monotonic reading.
func (systemClock) Now() time.Time { return time.Now() }
