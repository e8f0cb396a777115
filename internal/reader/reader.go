// Package reader loads documents (plain text, Markdown, EPUB) into a form a
// scrolling pane can render, with section boundaries expressed as fractions
// of the document that map onto any layout of its text.
package reader

import (
	"math"
	"path/filepath"
	"strings"
)

// Document is a loaded, render-ready text.
type Document struct {
	Title  string
	Source string
	// Text holds paragraphs separated by blank lines.
	Text string
	// Markdown is set when Text is Markdown source.
	Markdown bool
	Sections []Section
	Words    int
}

// Section is a titled part of a document.
type Section struct {
	Title     string
	Level     int
	WordStart int
	// Start is the fraction of the document's words before the section.
	Start float64
}

// FromText builds a single-section document from raw text.
func FromText(title, text string) *Document {
	d := &Document{
		Title:    title,
		Text:     text,
		Sections: []Section{{Title: title}},
	}
	d.finalize(len(strings.Fields(text)))
	return d
}

// finalize records the word count and derives section start fractions.
func (d *Document) finalize(words int) {
	d.Words = words
	for i := range d.Sections {
		if words > 0 {
			d.Sections[i].Start = float64(d.Sections[i].WordStart) / float64(words)
		} else {
			d.Sections[i].Start = 0
		}
	}
}

// SectionOffset places section i on a laid-out copy of the text that is
// extent long, rounding up to the first whole line or pixel.
func (d *Document) SectionOffset(i int, extent float64) float64 {
	return math.Ceil(d.Sections[i].Start*extent - 1e-9)
}

// SectionAtOffset returns the index of the section shown at offset in a
// layout that is extent long, or -1 for a document without sections.
func (d *Document) SectionAtOffset(offset, extent float64) int {
	if len(d.Sections) == 0 {
		return -1
	}
	idx := 0
	for i := range d.Sections {
		if d.SectionOffset(i, extent) <= offset {
			idx = i
		}
	}
	return idx
}

// Append concatenates next onto d, shifting its sections.
func (d *Document) Append(next *Document) {
	offset := d.Words
	if d.Text != "" && !strings.HasSuffix(d.Text, "\n\n") {
		d.Text += "\n\n"
	}
	d.Text += next.Text
	d.Markdown = d.Markdown && next.Markdown
	for _, s := range next.Sections {
		s.WordStart += offset
		d.Sections = append(d.Sections, s)
	}
	d.finalize(offset + next.Words)
}

func titleFromPath(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
