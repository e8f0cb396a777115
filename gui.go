//go:build gui

package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"github.com/metcalfc/scrl/internal/fyneview"
	"github.com/metcalfc/scrl/internal/infinite"
	"github.com/metcalfc/scrl/internal/reader"
	"github.com/metcalfc/scrl/internal/storyteller"
)

// documentView shows a document's text and can be refilled after an
// append.
type documentView struct {
	scroll *container.Scroll
	label  *widget.Label
	rich   *widget.RichText
}

func newDocumentView(doc *reader.Document) *documentView {
	v := &documentView{}
	v.scroll = container.NewVScroll(v.build(doc))
	return v
}

func (v *documentView) build(doc *reader.Document) fyne.CanvasObject {
	v.label, v.rich = nil, nil
	if doc.Markdown {
		v.rich = widget.NewRichTextFromMarkdown(doc.Text)
		v.rich.Wrapping = fyne.TextWrapWord
		return v.rich
	}
	v.label = widget.NewLabel(doc.Text)
	v.label.Wrapping = fyne.TextWrapWord
	return v.label
}

func (v *documentView) update(doc *reader.Document) {
	switch {
	case doc.Markdown && v.rich != nil:
		v.rich.ParseMarkdown(doc.Text)
	case !doc.Markdown && v.label != nil:
		v.label.SetText(doc.Text)
	default:
		v.scroll.Content = v.build(doc)
	}
	v.scroll.Refresh()
}

func runUI(ctx context.Context, sess *session) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a := app.New()
	w := a.NewWindow("scrl - " + sess.doc.Title)
	w.Resize(fyne.NewSize(800, 600))

	view := newDocumentView(sess.doc)
	sc := fyneview.NewScroll(view.scroll)
	host := fyneview.NewWindow(w, sc)

	st, err := storyteller.ForWindow(host, sess.storytellerOptions()...)
	if err != nil {
		return err
	}
	easing := sess.cfg.Easing()

	bar := widget.NewProgressBar()
	bar.TextFormatter = func() string { return fmt.Sprintf("%.0f%%", st.Current().Value()*100) }
	if !sess.cfg.UI.ProgressBar {
		bar.Hide()
	}

	sectionLabel := widget.NewLabel("")
	sectionLabel.TextStyle.Bold = true
	setSection := func(i int) {
		if i >= 0 && i < len(sess.doc.Sections) {
			sectionLabel.SetText(sess.doc.Title + " · " + sess.doc.Sections[i].Title)
		}
	}
	// sections are placed by pixel because progress near the top is clamped
	trackSection := func() {
		setSection(sess.doc.SectionAtOffset(sc.ScrollOffset(), sc.ScrollExtent()))
	}
	trackSection()

	appended := 0
	var trigger *infinite.Trigger
	if sess.hasPending() {
		trigger = infinite.New(func(context.Context) error {
			doc, err := sess.loadNext()
			if err != nil || doc == nil {
				return err
			}
			fyne.Do(func() {
				sess.doc.Append(doc)
				appended++
				view.update(sess.doc)
				st.Remeasure()
			})
			return nil
		}, sess.log.Named("infinite"))
	}

	st.OnScroll(func(p storyteller.Progress) {
		bar.SetValue(p.Eased(easing))
		trackSection()
		sess.metrics.ObserveProgress(p)
		if trigger != nil && sess.hasPending() {
			trigger.Check(ctx, sc.ScrollOffset(), sc.ScrollExtent(), sc.ClientExtent())
		}
	})

	scrollTo := func(p float64) {
		if err := st.ScrollToProgress(p); err != nil {
			sess.log.Warn("scroll failed", zap.Float64("progress", p), zap.Error(err))
		}
	}

	tocHint := ""
	if len(sess.doc.Sections) > 1 {
		tocHint = "  T: TOC"
	}
	controlsLabel := widget.NewLabel("Home/End: start/end  R: restart" + tocHint + "  F: fullscreen  Q: quit")
	controlsLabel.Alignment = fyne.TextAlignCenter

	readingContent := container.NewBorder(
		sectionLabel,
		container.NewVBox(bar, controlsLabel),
		nil, nil,
		view.scroll,
	)

	var tocPanel *container.Split
	mainContainer := container.NewMax(readingContent)
	if len(sess.doc.Sections) > 1 {
		tocList := widget.NewList(
			func() int { return len(sess.doc.Sections) },
			func() fyne.CanvasObject { return widget.NewLabel("Title") },
			func(id widget.ListItemID, obj fyne.CanvasObject) {
				s := sess.doc.Sections[id]
				obj.(*widget.Label).SetText(fmt.Sprintf("%s%s  %.0f%%", strings.Repeat("  ", s.Level), s.Title, s.Start*100))
			},
		)
		tocContainer := container.NewBorder(
			widget.NewLabel("Table of Contents"),
			widget.NewLabel("Click to jump • T to close"),
			nil, nil,
			tocList,
		)
		tocPanel = container.NewHSplit(tocContainer, readingContent)
		tocPanel.Offset = 0.33
		tocList.OnSelected = func(id widget.ListItemID) {
			if id < len(sess.doc.Sections) {
				if err := st.ScrollToPixels(sess.doc.SectionOffset(id, sc.ScrollExtent())); err != nil {
					sess.log.Warn("scroll failed", zap.Int("section", id), zap.Error(err))
				}
				tocPanel.Leading.Hide()
				tocPanel.Refresh()
			}
			tocList.UnselectAll()
		}
		if !sess.showTOC {
			tocContainer.Hide()
		}
		mainContainer = container.NewMax(tocPanel)
	}

	quit := func() {
		if appended == 0 {
			sess.save(st.Current().Position())
		}
		_ = st.Close()
		cancel()
	}

	w.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyHome:
			scrollTo(0)
		case fyne.KeyEnd:
			scrollTo(1)
		case fyne.KeyF:
			w.SetFullScreen(!w.FullScreen())
		case fyne.KeyQ:
			quit()
			a.Quit()
		}
	})

	w.Canvas().SetOnTypedRune(func(r rune) {
		switch r {
		case 't', 'T':
			if tocPanel != nil {
				if tocPanel.Leading.Visible() {
					tocPanel.Leading.Hide()
				} else {
					tocPanel.Leading.Show()
				}
				tocPanel.Refresh()
			}
		case 'r', 'R':
			sess.forget()
			scrollTo(0)
		}
	})

	w.SetContent(mainContainer)
	w.SetOnClosed(quit)
	host.WatchResize(ctx)

	// Measure and restore the saved position once the window has a size
	go func() {
		time.Sleep(100 * time.Millisecond)
		fyne.Do(func() {
			st.Remeasure()
			if p, ok := sess.resume(); ok {
				scrollTo(p)
			}
		})
	}()

	go func() {
		<-ctx.Done()
		fyne.Do(a.Quit)
	}()

	w.ShowAndRun()
	if trigger != nil {
		if err := trigger.Wait(); err != nil {
			sess.log.Warn("background loads failed", zap.Error(err))
		}
	}
	return nil
}
