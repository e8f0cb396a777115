package termview

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// Renderer lays text out for a column width.
type Renderer interface {
	Render(text string, width int) string
}

// WrapRenderer word-wraps plain text.
type WrapRenderer struct {
	Style lipgloss.Style
}

func (r WrapRenderer) Render(text string, width int) string {
	if width <= 0 {
		return text
	}
	return r.Style.Width(width).Render(text)
}

// MarkdownRenderer renders Markdown with glamour, rebuilding its term
// renderer when the width changes. Failures fall back to word wrapping.
type MarkdownRenderer struct {
	style string
	log   *zap.Logger

	width int
	tr    *glamour.TermRenderer
}

// NewMarkdownRenderer uses the named glamour standard style ("dark",
// "light", "notty", ...).
func NewMarkdownRenderer(style string, log *zap.Logger) *MarkdownRenderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &MarkdownRenderer{style: style, log: log}
}

func (r *MarkdownRenderer) Render(text string, width int) string {
	if r.tr == nil || r.width != width {
		tr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			r.log.Warn("markdown renderer unavailable", zap.Error(err))
			return WrapRenderer{}.Render(text, width)
		}
		r.tr, r.width = tr, width
	}
	out, err := r.tr.Render(text)
	if err != nil {
		r.log.Warn("markdown render failed", zap.Error(err))
		return WrapRenderer{}.Render(text, width)
	}
	return out
}
