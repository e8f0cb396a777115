//go:build gui

package fyneview

import (
	"context"
	"errors"
	"slices"

	"fyne.io/fyne/v2"

	"github.com/metcalfc/scrl/internal/storyteller"
)

// ErrNoDocument is returned by DocumentElement when the window has no
// scrolling document.
var ErrNoDocument = errors.New("fyneview: window has no document scroll")

// Window adapts a fyne.Window.
type Window struct {
	win fyne.Window
	doc *Scroll

	resize []*listener
}

var _ storyteller.DocumentHost = (*Window)(nil)

// NewWindow wraps win. doc may be nil when the window's document is not
// tracked.
func NewWindow(win fyne.Window, doc *Scroll) *Window {
	return &Window{win: win, doc: doc}
}

func (w *Window) ViewportExtent() float64 { return float64(w.win.Canvas().Size().Height) }

// DocumentExtent is the canvas height: the window shows one document.
func (w *Window) DocumentExtent() float64 { return float64(w.win.Canvas().Size().Height) }

func (w *Window) ListenResize(fn func()) (func(), error) {
	l := &listener{fn: fn}
	w.resize = append(w.resize, l)
	return func() {
		l.removed = true
		w.resize = slices.DeleteFunc(w.resize, func(x *listener) bool { return x == l })
	}, nil
}

// RequestFrame runs fn on the fyne main goroutine after pending events.
func (w *Window) RequestFrame(fn func()) {
	fyne.Do(fn)
}

func (w *Window) DocumentElement() (storyteller.Container, error) {
	if w.doc == nil {
		return nil, ErrNoDocument
	}
	return w.doc, nil
}

// WatchResize polls the canvas size until ctx is done and fires resize
// listeners on the main goroutine.
func (w *Window) WatchResize(ctx context.Context) {
	p := &Poller{
		Size: func() (float32, float32) {
			s := w.win.Canvas().Size()
			return s.Width, s.Height
		},
		OnChange: func(float32, float32) {
			fyne.Do(w.fireResize)
		},
	}
	go p.Run(ctx)
}

func (w *Window) fireResize() {
	for _, l := range slices.Clone(w.resize) {
		if !l.removed {
			l.fn()
		}
	}
}
