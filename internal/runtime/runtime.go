package runtime

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/thoreinstein/quill/internal/errors"
)

// Sentinel errors for config execution.
var (
	// ErrClosed is returned when an environment is used after Close.
	ErrClosed = errors.New("runtime environment is closed")

	// ErrUnsupported is returned when no runtime handles a file extension.
	ErrUnsupported = errors.New("unsupported config file type")
)

// Runtime creates execution environments for one config language.
type Runtime interface {
	// Name identifies the runtime in logs.
	Name() string
	// Open creates a fresh environment scoped to a single load.
	Open(ctx context.Context) (Environment, error)
}

// Environment executes a config file and returns its exports.
type Environment interface {
	// Import executes the file at path and returns its exported values.
	Import(ctx context.Context, path string) (map[string]any, error)
	// Close releases everything the environment holds. It is safe to call
	// more than once.
	Close() error
}

// Registry maps file extensions to runtimes.
type Registry struct {
	mu       sync.RWMutex
	runtimes map[string]Runtime
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{runtimes: make(map[string]Runtime)}
}

// Register associates ext (with or without a leading dot) with rt,
// replacing any earlier registration.
func (r *Registry) Register(ext string, rt Runtime) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runtimes[normalizeExt(ext)] = rt
}

// Lookup returns the runtime for path's extension.
func (r *Registry) Lookup(path string) (Runtime, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rt, ok := r.runtimes[normalizeExt(filepath.Ext(path))]
	return rt, ok
}

// Open looks up the runtime for path and opens an environment with it.
func (r *Registry) Open(ctx context.Context, path string) (Environment, error) {
	rt, ok := r.Lookup(path)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupported, "no runtime for %q", filepath.Base(path))
	}
	return rt.Open(ctx)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
