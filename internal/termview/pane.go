package termview

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"

	"github.com/metcalfc/scrl/internal/storyteller"
)

const fps = 60

// animMsg advances a smooth scroll. Messages from a superseded animation
// carry a stale id and are ignored.
type animMsg struct{ id int }

// Pane is a scrolling text column backed by a bubbles viewport. Offsets and
// extents are in lines.
type Pane struct {
	vp       viewport.Model
	renderer Renderer
	text     string

	scroll listeners

	spring    harmonica.Spring
	animID    int
	animating bool
	ticking   bool
	pos, vel  float64
	target    float64
}

var _ storyteller.Container = (*Pane)(nil)

// NewPane returns an empty pane that word-wraps its text.
func NewPane(width, height int) *Pane {
	vp := viewport.New(width, height)
	vp.MouseWheelEnabled = true
	return &Pane{
		vp:       vp,
		renderer: WrapRenderer{},
		spring:   harmonica.NewSpring(harmonica.FPS(fps), 7.0, 1.0),
	}
}

// SetRenderer replaces the renderer and re-lays out the text.
func (p *Pane) SetRenderer(r Renderer) {
	p.renderer = r
	p.layout()
}

// SetText replaces the pane's text.
func (p *Pane) SetText(text string) {
	p.text = text
	p.layout()
}

// SetSize resizes the pane, re-wrapping when the width changes.
func (p *Pane) SetSize(width, height int) {
	rewrap := width != p.vp.Width
	p.vp.Width, p.vp.Height = width, height
	if rewrap {
		p.layout()
	} else {
		p.setOffset(p.vp.YOffset)
	}
}

func (p *Pane) layout() {
	p.vp.SetContent(p.renderer.Render(p.text, p.vp.Width))
	p.setOffset(p.vp.YOffset)
}

func (p *Pane) ScrollOffset() float64 { return float64(p.vp.YOffset) }
func (p *Pane) ScrollExtent() float64 { return float64(p.vp.TotalLineCount()) }
func (p *Pane) ClientExtent() float64 { return float64(p.vp.Height) }

func (p *Pane) ListenScroll(fn func()) (func(), error) {
	return p.scroll.add(fn), nil
}

// ScrollTo jumps to offset, or starts a spring animation towards it. An
// animation only advances once Cmd's tick is running.
func (p *Pane) ScrollTo(offset float64, behavior storyteller.Behavior) error {
	target := math.Round(math.Max(0, math.Min(offset, p.maxOffset())))
	if behavior == storyteller.BehaviorInstant || int(target) == p.vp.YOffset {
		p.stop()
		p.setOffset(int(target))
		return nil
	}
	if !p.animating {
		p.pos, p.vel = float64(p.vp.YOffset), 0
	}
	p.target = target
	p.animating = true
	return nil
}

// Animating reports whether a smooth scroll is in progress.
func (p *Pane) Animating() bool { return p.animating }

// Cmd returns the tick that drives a pending animation, or nil.
func (p *Pane) Cmd() tea.Cmd {
	if !p.animating || p.ticking {
		return nil
	}
	p.ticking = true
	return p.tick()
}

func (p *Pane) tick() tea.Cmd {
	id := p.animID
	return tea.Tick(time.Second/fps, func(time.Time) tea.Msg { return animMsg{id: id} })
}

// Update feeds keyboard and mouse input to the viewport and advances
// animations. User scrolling cancels an animation.
func (p *Pane) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(animMsg); ok {
		if m.id != p.animID || !p.animating {
			return nil
		}
		return p.step()
	}

	before := p.vp.YOffset
	var cmd tea.Cmd
	p.vp, cmd = p.vp.Update(msg)
	if p.vp.YOffset != before {
		p.stop()
		p.scroll.fire()
	}
	return cmd
}

func (p *Pane) step() tea.Cmd {
	p.pos, p.vel = p.spring.Update(p.pos, p.vel, p.target)
	if math.Abs(p.pos-p.target) < 0.5 && math.Abs(p.vel) < 0.5 {
		p.stop()
		p.setOffset(int(p.target))
		return nil
	}
	p.setOffset(int(math.Round(p.pos)))
	return p.tick()
}

func (p *Pane) stop() {
	if p.animating || p.ticking {
		p.animID++
	}
	p.animating = false
	p.ticking = false
}

// setOffset moves the viewport and notifies listeners on change.
func (p *Pane) setOffset(n int) {
	before := p.vp.YOffset
	p.vp.SetYOffset(n)
	if p.vp.YOffset != before {
		p.scroll.fire()
	}
}

func (p *Pane) maxOffset() float64 {
	return math.Max(0, float64(p.vp.TotalLineCount()-p.vp.Height))
}

// View renders the visible lines.
func (p *Pane) View() string { return p.vp.View() }

// Width is the pane's column width.
func (p *Pane) Width() int { return p.vp.Width }
