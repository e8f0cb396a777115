package termview

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/scrl/internal/storyteller"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line"
	}
	return strings.Join(lines, "\n")
}

func newTestPane(t *testing.T, lines int) (*Pane, *int) {
	t.Helper()
	p := NewPane(20, 10)
	p.SetText(numberedLines(lines))
	var fired int
	_, err := p.ListenScroll(func() { fired++ })
	require.NoError(t, err)
	return p, &fired
}

func TestPaneExtents(t *testing.T) {
	p, _ := newTestPane(t, 100)
	assert.Equal(t, 0.0, p.ScrollOffset())
	assert.Equal(t, 100.0, p.ScrollExtent())
	assert.Equal(t, 10.0, p.ClientExtent())
	assert.Equal(t, 20, p.Width())
}

func TestPaneWrapsToWidth(t *testing.T) {
	p := NewPane(10, 5)
	p.SetText("alpha beta gamma delta epsilon")
	assert.Greater(t, p.ScrollExtent(), 1.0)

	before := p.ScrollExtent()
	p.SetSize(40, 5)
	assert.Less(t, p.ScrollExtent(), before, "wider column wraps into fewer lines")
}

func TestPaneInstantScroll(t *testing.T) {
	p, fired := newTestPane(t, 100)

	require.NoError(t, p.ScrollTo(42, storyteller.BehaviorInstant))
	assert.Equal(t, 42.0, p.ScrollOffset())
	assert.Equal(t, 1, *fired)

	require.NoError(t, p.ScrollTo(500, storyteller.BehaviorInstant))
	assert.Equal(t, 90.0, p.ScrollOffset(), "clamped to the last page")

	require.NoError(t, p.ScrollTo(-5, storyteller.BehaviorInstant))
	assert.Equal(t, 0.0, p.ScrollOffset())
	assert.Equal(t, 3, *fired)

	require.NoError(t, p.ScrollTo(0, storyteller.BehaviorInstant))
	assert.Equal(t, 3, *fired, "no movement, no notification")
	assert.Nil(t, p.Cmd())
}

func TestPaneSmoothScroll(t *testing.T) {
	p, fired := newTestPane(t, 100)

	require.NoError(t, p.ScrollTo(50, storyteller.BehaviorSmooth))
	assert.True(t, p.Animating())
	assert.Equal(t, 0.0, p.ScrollOffset(), "moves only on ticks")

	require.NotNil(t, p.Cmd())
	assert.Nil(t, p.Cmd(), "one tick in flight")

	for i := 0; i < 10*fps && p.Animating(); i++ {
		p.Update(animMsg{id: p.animID})
	}
	assert.False(t, p.Animating())
	assert.Equal(t, 50.0, p.ScrollOffset())
	assert.Greater(t, *fired, 1, "intermediate positions are reported")
}

func TestPaneUserScrollCancelsAnimation(t *testing.T) {
	p, fired := newTestPane(t, 100)

	require.NoError(t, p.ScrollTo(80, storyteller.BehaviorSmooth))
	p.Cmd()
	stale := animMsg{id: p.animID}

	p.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1.0, p.ScrollOffset())
	assert.Equal(t, 1, *fired)
	assert.False(t, p.Animating())

	assert.Nil(t, p.Update(stale), "stale tick is ignored")
	assert.Equal(t, 1.0, p.ScrollOffset())
}

func TestPaneKeyScrolling(t *testing.T) {
	p, fired := newTestPane(t, 100)

	p.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	assert.Equal(t, 10.0, p.ScrollOffset())
	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 9.0, p.ScrollOffset())
	assert.Equal(t, 2, *fired)

	p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	assert.Equal(t, 2, *fired, "unbound keys do not scroll")
}

func TestWrapRenderer(t *testing.T) {
	out := WrapRenderer{}.Render("one two three four", 9)
	for _, line := range strings.Split(out, "\n") {
		assert.LessOrEqual(t, len(strings.TrimRight(line, " ")), 9)
	}
	assert.Equal(t, "as is", WrapRenderer{}.Render("as is", 0))
}

func TestMarkdownRenderer(t *testing.T) {
	r := NewMarkdownRenderer("notty", nil)
	out := r.Render("# Title\n\nSome *body* text.", 40)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body")
}
