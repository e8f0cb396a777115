package storyteller

import (
	"math"

	"go.uber.org/zap/zapcore"
)

// Progress is a snapshot of a container's scroll position.
// The normalized value is derived from the three measurements and can only
// be produced by ComputeProgress.
type Progress struct {
	offset   float64
	extent   float64
	viewport float64
	value    float64
}

// NewProgress builds a Progress from raw measurements.
func NewProgress(offset, extent, viewport float64) Progress {
	return Progress{
		offset:   offset,
		extent:   extent,
		viewport: viewport,
		value:    ComputeProgress(offset, extent, viewport),
	}
}

// ComputeProgress maps a scroll offset onto [viewport/extent, 1].
// Content that fits inside the viewport always reads as fully scrolled.
func ComputeProgress(offset, extent, viewport float64) float64 {
	maxScroll := math.Max(extent-viewport, 0)
	if maxScroll > 0 {
		return clamp(offset/maxScroll, viewport/extent, 1)
	}
	return 1
}

// WithOffset returns a copy at a new offset with the same extents.
func (p Progress) WithOffset(offset float64) Progress {
	return NewProgress(offset, p.extent, p.viewport)
}

// Value returns the normalized progress.
func (p Progress) Value() float64 { return p.value }

// Offset returns the scroll offset, top offset included.
func (p Progress) Offset() float64 { return p.offset }

// Extent returns the total scrollable extent.
func (p Progress) Extent() float64 { return p.extent }

// Viewport returns the visible extent after top/bottom adjustments.
func (p Progress) Viewport() float64 { return p.viewport }

// Scrollable reports whether the content overflows the viewport.
func (p Progress) Scrollable() bool { return p.extent > p.viewport }

// Position is the offset as a fraction of the scrollable range, without
// the lower bound Value applies. ScrollToProgress(p.Position()) returns to
// the same offset while the extents are unchanged. Content that fits the
// viewport is at position 0.
func (p Progress) Position() float64 {
	maxScroll := p.extent - p.viewport
	if maxScroll <= 0 {
		return 0
	}
	return clamp(p.offset/maxScroll, 0, 1)
}

// Eased applies an easing curve to the progress value.
func (p Progress) Eased(e Easing) float64 {
	return Ease(e, p.value)
}

// InRange re-maps the progress restricted to [from, to] onto [0, 1].
func (p Progress) InRange(from, to float64) float64 {
	switch {
	case p.value <= from:
		return 0
	case p.value >= to:
		return 1
	default:
		return (p.value - from) / (to - from)
	}
}

// IsInRange reports whether from <= progress <= to.
func (p Progress) IsInRange(from, to float64) bool {
	return p.value >= from && p.value <= to
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (p Progress) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddFloat64("progress", p.value)
	enc.AddFloat64("offset", p.offset)
	enc.AddFloat64("extent", p.extent)
	enc.AddFloat64("viewport", p.viewport)
	return nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
