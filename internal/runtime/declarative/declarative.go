// Package declarative imports content configs written as data: YAML, JSON
// or TOML. Collection schemas in these files are descriptors compiled by
// the schema package; they cannot carry slug functions or transforms.
package declarative

import (
	"context"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/runtime"
)

// Runtime decodes data config files read from a filesystem.
type Runtime struct {
	fs billy.Filesystem
}

// New returns a declarative runtime reading from fs.
func New(fs billy.Filesystem) *Runtime {
	return &Runtime{fs: fs}
}

// Name implements runtime.Runtime.
func (r *Runtime) Name() string {
	return "declarative"
}

// Open implements runtime.Runtime.
func (r *Runtime) Open(context.Context) (runtime.Environment, error) {
	return &environment{fs: r.fs}, nil
}

type environment struct {
	fs     billy.Filesystem
	closed atomic.Bool
}

func (e *environment) Import(ctx context.Context, path string) (map[string]any, error) {
	if e.closed.Load() {
		return nil, runtime.ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := util.ReadFile(e.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	out := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, &out); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
		}
	case ".yaml", ".yml", ".json":
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", filepath.Base(path))
		}
	default:
		return nil, errors.Wrapf(runtime.ErrUnsupported, "declarative runtime cannot read %q", filepath.Base(path))
	}
	return out, nil
}

func (e *environment) Close() error {
	e.closed.Store(true)
	return nil
}
