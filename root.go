package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/metcalfc/scrl/internal/config"
	"github.com/metcalfc/scrl/internal/logging"
	"github.com/metcalfc/scrl/internal/metrics"
	"github.com/metcalfc/scrl/internal/reader"
	"github.com/metcalfc/scrl/internal/state"
	"github.com/metcalfc/scrl/internal/storyteller"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	errNoInput = errors.New("no input provided; give a file or pipe text to stdin")
	errNoText  = errors.New("no text to read")
)

type options struct {
	configPath  string
	fresh       bool
	showTOC     bool
	metricsAddr string
}

func newRootCmd() *cobra.Command {
	var o options
	cmd := &cobra.Command{
		Use:   "scrl [files...]",
		Short: "Scroll through documents with a live reading progress bar",
		Long: `scrl renders text, Markdown and EPUB files in a scrolling pane and tracks
how far through them you are. Extra files are appended as you near the end.

Controls:
  ↑/↓ j/k      Scroll a line
  PgUp/PgDn    Scroll a page
  g/G          Jump to start/end
  T            Table of contents
  R            Restart and forget the saved position
  Q            Quit`,
		Example: `  scrl book.epub
  scrl --toc notes.md
  scrl part1.md part2.md part3.md
  cat file.txt | scrl`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := newSession(o, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			defer sess.close()
			return sess.run(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	f.BoolVar(&o.fresh, "fresh", false, "ignore the saved reading position")
	f.BoolVar(&o.showTOC, "toc", false, "show the table of contents at startup")
	f.StringVar(&o.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// session is everything a UI needs to present one reading run.
type session struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *metrics.Metrics
	store   *state.Store
	hash    string
	doc     *reader.Document
	fresh   bool
	showTOC bool

	mu      sync.Mutex
	pending []string
}

func newSession(o options, args []string, stdin io.Reader) (*session, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.metricsAddr != "" {
		cfg.Metrics.Addr = o.metricsAddr
	}

	log, err := logging.New(cfg.Logging.Development, cfg.Logging.File)
	if err != nil {
		return nil, err
	}

	doc, err := loadInput(args, stdin)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		log:     log,
		metrics: metrics.New(),
		doc:     doc,
		fresh:   o.fresh,
		showTOC: o.showTOC,
	}
	if len(args) > 1 {
		s.pending = append(s.pending, args[1:]...)
	}

	if cfg.State.Enabled && len(args) > 0 {
		s.openState(args[0])
	}

	log.Info("document loaded",
		zap.String("title", doc.Title),
		zap.String("source", doc.Source),
		zap.Int("words", doc.Words),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("queued", len(s.pending)),
	)
	return s, nil
}

func loadInput(args []string, stdin io.Reader) (*reader.Document, error) {
	var doc *reader.Document
	if len(args) > 0 {
		d, err := reader.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read file '%s': %w", args[0], err)
		}
		doc = d
	} else {
		if f, ok := stdin.(*os.File); ok {
			if stat, err := f.Stat(); err == nil && stat.Mode()&os.ModeCharDevice != 0 {
				return nil, errNoInput
			}
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		doc = reader.FromText("stdin", string(data))
	}

	if strings.TrimSpace(doc.Text) == "" {
		return nil, errNoText
	}
	return doc, nil
}

// openState is best effort: without a store the position is not saved.
func (s *session) openState(filename string) {
	store, err := state.NewStore()
	if err != nil {
		s.log.Warn("state store unavailable", zap.Error(err))
		return
	}
	hash, err := state.ComputeHash(filename)
	if err != nil {
		s.log.Warn("hash failed", zap.String("file", filename), zap.Error(err))
		return
	}
	s.store, s.hash = store, hash
	s.log.Debug("state store opened", zap.String("path", store.Path()))
}

// run serves metrics, if configured, alongside the UI.
func (s *session) run(ctx context.Context) error {
	if s.cfg.Metrics.Addr == "" {
		return runUI(ctx, s)
	}

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.metrics.Serve(ctx, s.cfg.Metrics.Addr, s.log.Named("metrics"))
	})
	g.Go(func() error {
		defer cancel()
		return runUI(ctx, s)
	})
	return g.Wait()
}

func (s *session) storytellerOptions() []storyteller.Option {
	return []storyteller.Option{
		storyteller.WithConfig(s.cfg.Storyteller),
		storyteller.WithLogger(s.log.Named("storyteller")),
		storyteller.WithObserver(s.metrics),
	}
}

// resume returns the saved progress, if any. A finished document starts
// over.
func (s *session) resume() (float64, bool) {
	if s.store == nil || s.fresh {
		return 0, false
	}
	pos, ok := s.store.Get(s.hash)
	if !ok || pos.Progress <= 0 || pos.Progress >= 1 {
		return 0, false
	}
	return pos.Progress, true
}

func (s *session) save(progress float64) {
	if s.store == nil {
		return
	}
	if err := s.store.Set(s.hash, progress); err != nil {
		s.log.Warn("saving position failed", zap.Error(err))
	}
}

func (s *session) forget() {
	if s.store == nil {
		return
	}
	if err := s.store.Clear(s.hash); err != nil {
		s.log.Warn("clearing position failed", zap.Error(err))
	}
}

func (s *session) hasPending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) > 0
}

// loadNext loads the next queued file. It runs off the UI goroutine.
func (s *session) loadNext() (*reader.Document, error) {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil, nil
	}
	name := s.pending[0]
	s.pending = s.pending[1:]
	s.mu.Unlock()

	doc, err := reader.Load(name)
	s.metrics.ObserveLoad(err)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	s.log.Info("appending document", zap.String("source", name), zap.Int("words", doc.Words))
	return doc, nil
}

func (s *session) close() {
	_ = s.log.Sync()
}
