package storyteller

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name                     string
		offset, extent, viewport float64
		expected                 float64
	}{
		{"bottom of long page", 800, 1000, 200, 1.0},
		{"middle of long page", 400, 1000, 200, 0.5},
		{"top clamps to visible fraction", 0, 1000, 200, 0.2},
		{"overscroll clamps to one", 1200, 1000, 200, 1.0},
		{"content fits exactly", 0, 200, 200, 1.0},
		{"content smaller than viewport", 50, 100, 200, 1.0},
		{"empty container", 0, 0, 0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(tt.offset, tt.extent, tt.viewport)
			assert.InDelta(t, tt.expected, got, 1e-12)
		})
	}
}

func TestComputeProgressNotScrollable(t *testing.T) {
	for _, extent := range []float64{0, 10, 199, 200} {
		for _, offset := range []float64{-50, 0, 37, 500} {
			assert.Equal(t, 1.0, ComputeProgress(offset, extent, 200), "extent=%v offset=%v", extent, offset)
		}
	}
}

func TestComputeProgressBoundsAndMonotonic(t *testing.T) {
	const extent, viewport = 1000.0, 250.0
	lower := viewport / extent

	prev := -1.0
	for offset := -100.0; offset <= 900; offset += 7 {
		got := ComputeProgress(offset, extent, viewport)
		assert.GreaterOrEqual(t, got, lower)
		assert.LessOrEqual(t, got, 1.0)
		assert.GreaterOrEqual(t, got, prev, "progress must not decrease at offset %v", offset)
		prev = got
	}
}

func TestProgressWithOffsetRecomputes(t *testing.T) {
	p := NewProgress(0, 1000, 200)
	assert.InDelta(t, 0.2, p.Value(), 1e-12)

	q := p.WithOffset(400)
	assert.Equal(t, 400.0, q.Offset())
	assert.Equal(t, 1000.0, q.Extent())
	assert.Equal(t, 200.0, q.Viewport())
	assert.InDelta(t, 0.5, q.Value(), 1e-12)
	assert.True(t, q.Scrollable())
	assert.False(t, NewProgress(0, 200, 200).Scrollable())
}

func TestProgressPosition(t *testing.T) {
	tests := []struct {
		name                     string
		offset, extent, viewport float64
		expected                 float64
	}{
		{"top is zero", 0, 1000, 200, 0},
		{"below the value clamp", 100, 1000, 200, 0.125},
		{"middle", 400, 1000, 200, 0.5},
		{"bottom", 800, 1000, 200, 1},
		{"overscroll", 900, 1000, 200, 1},
		{"negative offset", -20, 1000, 200, 0},
		{"content fits", 0, 200, 200, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NewProgress(tt.offset, tt.extent, tt.viewport).Position(), 1e-12)
		})
	}
}

func TestInRange(t *testing.T) {
	at := func(v float64) Progress { return NewProgress(v*960, 1000, 40) }

	assert.Equal(t, 0.0, at(0.05).InRange(0.1, 0.5))
	assert.Equal(t, 0.0, at(0.1).InRange(0.1, 0.5))
	assert.InDelta(t, 0.5, at(0.3).InRange(0.1, 0.5), 1e-9)
	assert.Equal(t, 1.0, at(0.5).InRange(0.1, 0.5))
	assert.Equal(t, 1.0, at(0.9).InRange(0.1, 0.5))

	// linear inside the range
	a := at(0.2).InRange(0.1, 0.5)
	b := at(0.3).InRange(0.1, 0.5)
	c := at(0.4).InRange(0.1, 0.5)
	assert.InDelta(t, b-a, c-b, 1e-9)
}

func TestIsInRangeInclusive(t *testing.T) {
	p := NewProgress(480, 1000, 40)
	assert.True(t, p.IsInRange(0.5, 0.8))
	assert.True(t, p.IsInRange(0.2, 0.5))
	assert.False(t, p.IsInRange(0.6, 0.8))
}

func TestEaseBoundaries(t *testing.T) {
	for _, e := range Easings() {
		t.Run(e.String(), func(t *testing.T) {
			assert.InDelta(t, 0.0, Ease(e, 0), 1e-12)
			assert.InDelta(t, 1.0, Ease(e, 1), 1e-12)
			for p := 0.0; p <= 1.0; p += 0.05 {
				v := Ease(e, p)
				assert.GreaterOrEqual(t, v, -1e-12)
				assert.LessOrEqual(t, v, 1+1e-12)
			}
		})
	}
}

func TestEaseValues(t *testing.T) {
	tests := []struct {
		easing   Easing
		p        float64
		expected float64
	}{
		{Linear, 0.3, 0.3},
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{EaseInOut, 0.75, 0.875},
		{EaseInCubic, 0.5, 0.125},
		{EaseOutCubic, 0.5, 0.875},
		{EaseInOutCubic, 0.25, 0.0625},
		{EaseInOutCubic, 0.75, 0.9375},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.expected, Ease(tt.easing, tt.p), 1e-12, "%s(%v)", tt.easing, tt.p)
	}

	p := NewProgress(400, 1000, 200)
	assert.InDelta(t, 0.25, p.Eased(EaseIn), 1e-12)
}

func TestParseEasing(t *testing.T) {
	for _, e := range Easings() {
		got, err := ParseEasing(e.String())
		require.NoError(t, err)
		assert.Equal(t, e, got)
	}

	got, err := ParseEasing(" Ease_In_Out_Cubic ")
	require.NoError(t, err)
	assert.Equal(t, EaseInOutCubic, got)

	_, err = ParseEasing("bounce")
	assert.True(t, errors.Is(err, ErrUnknownEasing))
	assert.Equal(t, "Easing(42)", Easing(42).String())
}
