package termview

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metcalfc/scrl/internal/storyteller"
)

func TestStorytellerOverPane(t *testing.T) {
	screen := NewScreen(20, 12)
	pane, _ := newTestPane(t, 100)

	cfg := storyteller.DefaultConfig()
	cfg.Throttle = 0
	cfg.SmoothScroll = false
	cfg.RunStraightAway = true
	st, err := storyteller.New(pane, screen, storyteller.WithConfig(cfg))
	require.NoError(t, err)
	defer st.Close()

	var seen []float64
	st.OnScroll(func(p storyteller.Progress) { seen = append(seen, p.Value()) })

	screen.Update(screen.Flush()())
	require.Len(t, seen, 1)
	assert.InDelta(t, 0.1, seen[0], 1e-9, "first page reads as viewport/extent")

	require.NoError(t, st.ScrollToProgress(0.5))
	assert.Equal(t, 45.0, pane.ScrollOffset())
	require.Len(t, seen, 2)
	assert.InDelta(t, 0.5, seen[1], 1e-9)

	for i := 0; i < 10; i++ {
		pane.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	}
	assert.Equal(t, 90.0, pane.ScrollOffset())
	assert.InDelta(t, 1.0, st.Current().Value(), 1e-9)
}
