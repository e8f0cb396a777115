package termview

import "slices"

type listener struct {
	fn      func()
	removed bool
}

// listeners is a notification list whose entries can be removed while it
// is being fired.
type listeners struct {
	entries []*listener
}

func (l *listeners) add(fn func()) func() {
	e := &listener{fn: fn}
	l.entries = append(l.entries, e)
	return func() {
		if e.removed {
			return
		}
		e.removed = true
		l.entries = slices.DeleteFunc(l.entries, func(x *listener) bool { return x == e })
	}
}

func (l *listeners) fire() {
	for _, e := range slices.Clone(l.entries) {
		if !e.removed {
			e.fn()
		}
	}
}

func (l *listeners) len() int { return len(l.entries) }
