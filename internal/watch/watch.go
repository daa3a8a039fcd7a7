// Package watch keeps a content config observable in sync with the config
// file on disk.
//
// A Session loads the config once, then reloads it whenever a
// content.config.* file in the project root changes. Bursts of changes are
// debounced into a single reload. Every load result is published to the
// session's observable as loaded or error; the observable never returns to
// loading after the first result.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
	"github.com/thoreinstein/quill/internal/paths"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// LoadFunc loads the content config.
type LoadFunc func(ctx context.Context) (*content.ContentConfig, error)

// Source delivers filesystem events for the project root.
type Source interface {
	Events() <-chan fsnotify.Event
	Errors() <-chan error
	Close() error
}

// Options configures a Session.
type Options struct {
	// Dir is the project root holding the content config.
	Dir string
	// Debounce is how long changes must settle before a reload.
	Debounce time.Duration
	// Load is called for the initial load and for every reload.
	Load LoadFunc
	// Observable receives load results. A new one in the loading state is
	// created when nil.
	Observable *content.Observable
	// Source overrides the fsnotify watcher on Dir.
	Source Source
	Logger *slog.Logger
}

// Session watches one project.
type Session struct {
	dir        string
	debounce   time.Duration
	load       LoadFunc
	observable *content.Observable
	source     Source
	logger     *slog.Logger
}

// New creates a Session. Unless a Source is given it starts watching Dir.
func New(opts Options) (*Session, error) {
	if opts.Load == nil {
		return nil, errors.New("watch: load function is required")
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", opts.Dir)
	}

	s := &Session{
		dir:        dir,
		debounce:   opts.Debounce,
		load:       opts.Load,
		observable: opts.Observable,
		source:     opts.Source,
		logger:     logging.OrDiscard(opts.Logger),
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if s.observable == nil {
		s.observable = content.NewObservable(content.Loading())
	}
	if s.source == nil {
		src, err := NewFSNotifySource(dir)
		if err != nil {
			return nil, err
		}
		s.source = src
	}

	return s, nil
}

// Observable returns the observable the session publishes to.
func (s *Session) Observable() *content.Observable {
	return s.observable
}

// Run performs the initial load and then reloads on config changes until
// ctx is done. The source is closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer func() {
		if err := s.source.Close(); err != nil {
			s.logger.Debug("closing watcher", "error", err)
		}
	}()

	s.reload(ctx, "initial")

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	events := s.source.Events()
	errs := s.source.Errors()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return errors.New("watcher closed unexpectedly")
			}
			if !s.relevant(event) {
				continue
			}
			s.logger.Debug("config changed", "path", event.Name, "op", event.Op.String())

			// Debounce reloading
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			timerC = timer.C

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Warn("watcher error", "error", err)

		case <-timerC:
			timerC = nil
			s.reload(ctx, "change")
		}
	}
}

func (s *Session) reload(ctx context.Context, reason string) {
	start := time.Now()
	cfg, err := s.load(ctx)
	if ctx.Err() != nil {
		return
	}

	if err != nil {
		s.logger.Warn("content config failed to load",
			"reason", reason,
			"error", err)
	} else {
		s.logger.Info("content config loaded",
			"reason", reason,
			"collections", len(cfg.Collections),
			"duration", time.Since(start))
	}
	s.observable.Set(content.CtxFromResult(cfg, err))
}

// relevant reports whether event touches a content config file directly in
// the project root.
func (s *Session) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if filepath.Dir(event.Name) != s.dir {
		return false
	}
	base := filepath.Base(event.Name)
	ext := filepath.Ext(base)
	if strings.TrimSuffix(base, ext) != paths.ConfigBasename {
		return false
	}
	return slices.Contains(paths.ConfigExtensions, strings.ToLower(ext))
}
