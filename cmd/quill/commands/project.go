package commands

import (
	"context"
	"log/slog"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/config"
	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
	"github.com/thoreinstein/quill/internal/paths"
	"github.com/thoreinstein/quill/internal/store"
)

// hostFS is the filesystem commands operate on.
var hostFS billy.Filesystem = osfs.New("/")

// project bundles what a command needs to work on the current site.
type project struct {
	fs       billy.Filesystem
	settings config.Config
	paths    *paths.Paths
	logger   *slog.Logger
}

func newProject(cmd *cobra.Command) (*project, error) {
	s := config.Default()
	if settings != nil {
		s = *settings
	}

	p, err := paths.ContentPaths(paths.Options{RootDir: s.RootDir, SrcDir: s.SrcDir, FS: hostFS})
	if err != nil {
		return nil, errors.NewUserError(err, "check --root and --src")
	}

	return &project{
		fs:       hostFS,
		settings: s,
		paths:    p,
		logger:   logging.FromContext(cmd.Context()),
	}, nil
}

func (p *project) contentDir() string {
	return paths.URLPath(p.paths.ContentDir)
}

func (p *project) loadConfig(ctx context.Context) (*content.ContentConfig, error) {
	return content.LoadConfig(ctx, content.LoadOptions{
		FS:       p.fs,
		Settings: p.settings,
		Logger:   p.logger,
	})
}

func (p *project) build(ctx context.Context, cfg *content.ContentConfig) ([]*collection.Result, error) {
	scanner := collection.NewScannerWithLogger(p.fs, p.logger)
	return collection.Build(ctx, scanner, cfg, p.contentDir(), p.logger)
}

func (p *project) store() *store.Store {
	return store.New(p.fs, paths.URLPath(p.paths.CacheDir), p.logger)
}
