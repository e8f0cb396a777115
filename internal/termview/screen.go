// Package termview hosts a storyteller inside a bubbletea program: Screen
// is the window and Pane is the scrolling container.
//
// Both are plain values owned by the program's model and must only be
// touched from its Update method.
package termview

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/metcalfc/scrl/internal/storyteller"
)

// frameMsg runs the queued frame tasks. Bubbletea renders the view between
// the Update that scheduled it and the one that receives it.
type frameMsg struct{}

// Screen is the terminal window.
type Screen struct {
	width, height int

	resize    listeners
	pending   []func()
	scheduled bool
}

var _ storyteller.Host = (*Screen)(nil)

// NewScreen returns a screen of the given size; the real size arrives with
// the first tea.WindowSizeMsg.
func NewScreen(width, height int) *Screen {
	return &Screen{width: width, height: height}
}

// Size returns the terminal size in cells.
func (s *Screen) Size() (width, height int) { return s.width, s.height }

func (s *Screen) ViewportExtent() float64 { return float64(s.height) }

// DocumentExtent is the whole terminal: the screen is its own document.
func (s *Screen) DocumentExtent() float64 { return float64(s.height) }

func (s *Screen) ListenResize(fn func()) (func(), error) {
	return s.resize.add(fn), nil
}

// RequestFrame queues fn until after the next render. Flush must be called
// at the end of Update for the frame to be scheduled.
func (s *Screen) RequestFrame(fn func()) {
	s.pending = append(s.pending, fn)
}

// Flush schedules a frame if tasks are waiting and none is in flight.
func (s *Screen) Flush() tea.Cmd {
	if len(s.pending) == 0 || s.scheduled {
		return nil
	}
	s.scheduled = true
	return func() tea.Msg { return frameMsg{} }
}

// Update records window sizes and runs frame tasks. It reports whether msg
// was a frame message, which callers need not handle further.
func (s *Screen) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width == s.width && msg.Height == s.height {
			return false
		}
		s.width, s.height = msg.Width, msg.Height
		s.resize.fire()
	case frameMsg:
		s.scheduled = false
		tasks := s.pending
		s.pending = nil
		for _, fn := range tasks {
			fn()
		}
		return true
	}
	return false
}
