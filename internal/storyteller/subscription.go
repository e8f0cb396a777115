package storyteller

import "slices"

// Subscription is the handle returned by the On* methods.
type Subscription struct {
	t *Storyteller
	s *subscriber
}

// Unsubscribe removes the callback. A dispatch already in progress skips
// it from then on.
func (sub *Subscription) Unsubscribe() {
	if sub == nil || sub.s.removed {
		return
	}
	sub.s.removed = true
	sub.t.subs = slices.DeleteFunc(sub.t.subs, func(s *subscriber) bool { return s == sub.s })
}

// rangeState remembers, per range subscription, where progress was on the
// previous update.
type rangeState int

const (
	rangeUnknown rangeState = iota
	rangeOutside
	rangeInside
)

func stateFor(inside bool) rangeState {
	if inside {
		return rangeInside
	}
	return rangeOutside
}
