//go:build !gui

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/metcalfc/scrl/internal/infinite"
	"github.com/metcalfc/scrl/internal/reader"
	"github.com/metcalfc/scrl/internal/storyteller"
	"github.com/metcalfc/scrl/internal/termview"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	tocCursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFAA00")).
			Bold(true)

	completeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)
)

// chromeLines is the header, progress bar and controls.
const chromeLines = 3

// finishedAt is where a document counts as read.
const finishedAt = 0.995

type appendMsg struct{ doc *reader.Document }

type loadFailedMsg struct{ err error }

type model struct {
	sess   *session
	ctx    context.Context
	send   func(tea.Msg)
	screen *termview.Screen
	pane   *termview.Pane
	st     *storyteller.Storyteller
	bar    progress.Model
	easing storyteller.Easing

	trigger  *infinite.Trigger
	appended int
	loadErr  error

	current    storyteller.Progress
	dispatches int
	section    int
	finished   bool

	tocVisible bool
	tocCursor  int

	ready    bool
	quitting bool
}

func newModel(ctx context.Context, sess *session, send func(tea.Msg)) (*model, error) {
	m := &model{
		sess:       sess,
		ctx:        ctx,
		send:       send,
		screen:     termview.NewScreen(80, 24),
		pane:       termview.NewPane(80, 24-chromeLines),
		bar:        progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		easing:     sess.cfg.Easing(),
		tocVisible: sess.showTOC && len(sess.doc.Sections) > 1,
	}
	m.pane.SetRenderer(m.renderer())
	m.pane.SetText(sess.doc.Text)

	st, err := storyteller.New(m.pane, m.screen, sess.storytellerOptions()...)
	if err != nil {
		return nil, err
	}
	m.st = st
	m.current = st.Current()
	m.trackSection()

	st.OnScroll(m.onProgress)
	if _, err := st.OnEnterRange(finishedAt, 1, func(storyteller.Progress) { m.finished = true }); err != nil {
		return nil, err
	}
	if _, err := st.OnExitRange(finishedAt, 1, func(storyteller.Progress) { m.finished = false }); err != nil {
		return nil, err
	}

	if sess.hasPending() {
		m.trigger = infinite.New(m.loadNext, sess.log.Named("infinite"))
	}
	return m, nil
}

func (m *model) renderer() termview.Renderer {
	if m.sess.doc.Markdown {
		return termview.NewMarkdownRenderer("dark", m.sess.log)
	}
	return termview.WrapRenderer{}
}

// trackSection shows the section at the top of the pane. Sections are
// placed by line because progress values near the top are clamped.
func (m *model) trackSection() {
	m.section = max(m.sess.doc.SectionAtOffset(m.pane.ScrollOffset(), m.pane.ScrollExtent()), 0)
}

func (m *model) onProgress(p storyteller.Progress) {
	m.current = p
	m.dispatches++
	m.trackSection()
	m.sess.metrics.ObserveProgress(p)
	m.loadMore()
}

// loadMore starts loading the next queued file once the end is near. It
// reports whether a load was started.
func (m *model) loadMore() bool {
	if m.trigger == nil || !m.sess.hasPending() {
		return false
	}
	return m.trigger.Check(m.ctx, m.pane.ScrollOffset(), m.pane.ScrollExtent(), m.pane.ClientExtent())
}

// loadNext runs on the trigger's goroutine and hands the document to the
// program.
func (m *model) loadNext(context.Context) error {
	doc, err := m.sess.loadNext()
	if err != nil {
		m.send(loadFailedMsg{err: err})
		return err
	}
	if doc != nil {
		m.send(appendMsg{doc: doc})
	}
	return nil
}

func (m *model) Init() tea.Cmd {
	return m.screen.Flush()
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	return m, tea.Batch(cmd, m.pane.Cmd(), m.screen.Flush())
}

func (m *model) update(msg tea.Msg) tea.Cmd {
	// the pane takes its new size before resize listeners measure it
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.layout(size.Width, size.Height)
	}
	dispatches := m.dispatches
	if m.screen.Update(msg) {
		return nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.pane.Update(msg)

	case tea.WindowSizeMsg:
		// a resize inside the debounce window is dropped, but the new
		// layout still has to be measured
		if m.dispatches == dispatches {
			m.st.Remeasure()
		}
		if !m.ready {
			m.ready = true
			if p, ok := m.sess.resume(); ok {
				m.scrollTo(p)
			}
		}
		return nil

	case appendMsg:
		m.appendDocument(msg.doc)
		return nil

	case loadFailedMsg:
		m.loadErr = msg.err
		return nil
	}

	return m.pane.Update(msg)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.tocVisible {
		switch msg.String() {
		case "up", "k":
			if m.tocCursor > 0 {
				m.tocCursor--
			}
		case "down", "j":
			if m.tocCursor < len(m.sess.doc.Sections)-1 {
				m.tocCursor++
			}
		case "enter":
			m.tocVisible = false
			m.jumpToSection(m.tocCursor)
		case "t", "T", "esc":
			m.tocVisible = false
		case "q", "Q", "ctrl+c":
			return m.quit()
		}
		return nil
	}

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m.quit()
	case "t", "T":
		if len(m.sess.doc.Sections) > 1 {
			m.tocVisible = true
			m.tocCursor = max(m.section, 0)
		}
		return nil
	case "g", "home":
		m.scrollTo(0)
		return nil
	case "G", "end":
		m.scrollTo(1)
		return nil
	case "r", "R":
		m.sess.forget()
		m.scrollTo(0)
		return nil
	}
	return m.pane.Update(msg)
}

func (m *model) scrollTo(p float64) {
	if err := m.st.ScrollToProgress(p); err != nil {
		m.sess.log.Warn("scroll failed", zap.Float64("progress", p), zap.Error(err))
	}
}

// jumpToSection scrolls the first line of section i to the top.
func (m *model) jumpToSection(i int) {
	offset := m.sess.doc.SectionOffset(i, m.pane.ScrollExtent())
	if err := m.st.ScrollToPixels(offset); err != nil {
		m.sess.log.Warn("scroll failed", zap.Int("section", i), zap.Error(err))
	}
}

func (m *model) quit() tea.Cmd {
	m.quitting = true
	// positions only make sense for the first file on its own
	if m.appended == 0 {
		m.sess.save(m.current.Position())
	}
	_ = m.st.Close()
	return tea.Quit
}

func (m *model) layout(width, height int) {
	w := width
	if limit := m.sess.cfg.UI.Width; limit > 0 && limit < w {
		w = limit
	}
	m.pane.SetSize(w, max(height-chromeLines, 1))
	m.bar.Width = max(width-10, 10)
}

func (m *model) appendDocument(doc *reader.Document) {
	wasMarkdown := m.sess.doc.Markdown
	m.sess.doc.Append(doc)
	m.appended++
	if wasMarkdown != m.sess.doc.Markdown {
		m.pane.SetRenderer(m.renderer())
	}
	m.pane.SetText(m.sess.doc.Text)
	m.st.Remeasure()
}

func (m *model) View() string {
	if m.quitting {
		if m.finished {
			return completeStyle.Render("\n  Reading complete!\n")
		}
		return ""
	}

	width, height := m.screen.Size()
	var sb strings.Builder

	sb.WriteString(m.header())
	sb.WriteString("\n")

	if m.tocVisible {
		sb.WriteString(m.tocView(max(height-chromeLines, 1)))
	} else {
		sb.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, m.pane.View()))
	}
	sb.WriteString("\n")

	if m.sess.cfg.UI.ProgressBar {
		sb.WriteString(m.bar.ViewAs(m.current.Eased(m.easing)))
		sb.WriteString(fmt.Sprintf(" %3.0f%%", m.current.Value()*100))
	}
	sb.WriteString("\n")
	sb.WriteString(m.controls())

	return sb.String()
}

func (m *model) header() string {
	doc := m.sess.doc
	title := titleStyle.Render(doc.Title)
	if m.section >= 0 && m.section < len(doc.Sections) && doc.Sections[m.section].Title != doc.Title {
		title += statusStyle.Render("· " + doc.Sections[m.section].Title)
	}
	if m.finished {
		title += completeStyle.Render(" ✓")
	}
	return title
}

func (m *model) controls() string {
	hint := "↑/↓: scroll  PgUp/PgDn: page  g/G: start/end  R: restart"
	if len(m.sess.doc.Sections) > 1 {
		hint += "  T: TOC"
	}
	hint += "  Q: quit"
	if m.trigger != nil && m.trigger.Loading() {
		hint = "loading next file…  " + hint
	}
	if m.loadErr != nil {
		hint = "load failed: " + m.loadErr.Error()
	}
	return controlsStyle.Render(hint)
}

func (m *model) tocView(height int) string {
	sections := m.sess.doc.Sections
	start := 0
	if m.tocCursor >= height {
		start = m.tocCursor - height + 1
	}
	end := min(start+height, len(sections))

	var lines []string
	for i := start; i < end; i++ {
		s := sections[i]
		line := fmt.Sprintf("%s%s  %3.0f%%", strings.Repeat("  ", s.Level), s.Title, s.Start*100)
		if i == m.tocCursor {
			line = tocCursorStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func runUI(ctx context.Context, sess *session) error {
	var p *tea.Program
	m, err := newModel(ctx, sess, func(msg tea.Msg) { p.Send(msg) })
	if err != nil {
		return err
	}
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	_, err = p.Run()
	if m.trigger != nil {
		if werr := m.trigger.Wait(); werr != nil {
			sess.log.Warn("background loads failed", zap.Error(werr))
		}
	}
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
