package doctor

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-git/go-billy/v5"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/store"
)

// LoadFunc loads the project's content config.
type LoadFunc func(ctx context.Context) (*content.ContentConfig, error)

// Project is the site the checks inspect. Checks share one config load and
// one build.
type Project struct {
	FS billy.Filesystem
	// RootDir is the project root.
	RootDir string
	// ConfigPath is the content config file, or "" when there is none.
	ConfigPath string
	// ContentDir holds one directory per collection.
	ContentDir string
	Store      *store.Store
	Load       LoadFunc
	Logger     *slog.Logger

	loadOnce sync.Once
	cfg      *content.ContentConfig
	loadErr  error

	buildOnce sync.Once
	results   []*collection.Result
	buildErr  error
}

func (p *Project) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}

func (p *Project) scanner() *collection.Scanner {
	return collection.NewScannerWithLogger(p.FS, p.logger())
}

// config loads the content config once.
func (p *Project) config(ctx context.Context) (*content.ContentConfig, error) {
	p.loadOnce.Do(func() {
		p.cfg, p.loadErr = p.Load(ctx)
	})
	return p.cfg, p.loadErr
}

// build processes every collection once. It fails when the config does not
// load.
func (p *Project) build(ctx context.Context) ([]*collection.Result, error) {
	cfg, err := p.config(ctx)
	if err != nil {
		return nil, err
	}
	p.buildOnce.Do(func() {
		p.results, p.buildErr = collection.Build(ctx, p.scanner(), cfg, p.ContentDir, p.logger())
	})
	return p.results, p.buildErr
}

// DefaultChecks returns the checks 'quill doctor' runs, in order.
func DefaultChecks(p *Project) []Check {
	return []Check{
		NewConfigCheck(p),
		NewCollectionDirsCheck(p),
		NewEntriesCheck(p),
		NewStoreCheck(p),
	}
}
