package js

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/runtime"
)

// DefaultTimeout bounds a single import or function call.
const DefaultTimeout = 5 * time.Second

// maxCallStack bounds JavaScript recursion.
const maxCallStack = 1024

// Runtime executes TypeScript and JavaScript config files.
type Runtime struct {
	fs      billy.Filesystem
	modules []Module
	timeout time.Duration
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithModules adds native modules that configs can require or import.
func WithModules(modules ...Module) Option {
	return func(r *Runtime) {
		r.modules = append(r.modules, modules...)
	}
}

// WithTimeout sets the limit for an import or a single function call.
// Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// New returns a runtime reading config files from fs.
func New(fs billy.Filesystem, opts ...Option) *Runtime {
	r := &Runtime{fs: fs, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements runtime.Runtime.
func (r *Runtime) Name() string {
	return "js"
}

// Open implements runtime.Runtime.
func (r *Runtime) Open(context.Context) (runtime.Environment, error) {
	vm := goja.New()
	vm.SetMaxCallStackSize(maxCallStack)

	b := newBridge(vm, r.timeout)

	reg := require.NewRegistry(require.WithLoader(noSourceFiles))
	for _, m := range r.modules {
		reg.RegisterNativeModule(m.Name(), m.Loader(b))
	}
	reg.Enable(vm)

	return &environment{fs: r.fs, bridge: b}, nil
}

// noSourceFiles keeps require from reading modules off the host disk.
func noSourceFiles(string) ([]byte, error) {
	return nil, require.ModuleFileDoesNotExistError
}

type environment struct {
	fs     billy.Filesystem
	bridge *Bridge
	closed bool
}

func (e *environment) Import(ctx context.Context, path string) (map[string]any, error) {
	if e.closed {
		return nil, runtime.ErrClosed
	}

	src, err := util.ReadFile(e.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	code, err := transpile(path, src)
	if err != nil {
		return nil, err
	}
	// Keep the wrapper on the first line so goja positions match the
	// transpiled output.
	prg, err := goja.Compile(path, "(function (exports, require, module) {"+code+"\n})", false)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", path)
	}

	exports, err := e.bridge.run(ctx, func(vm *goja.Runtime) (goja.Value, error) {
		wrapper, err := vm.RunProgram(prg)
		if err != nil {
			return nil, err
		}
		fn, ok := goja.AssertFunction(wrapper)
		if !ok {
			return nil, errors.Newf("%s did not compile to a module", path)
		}
		module := vm.NewObject()
		exports := vm.NewObject()
		if err := module.Set("exports", exports); err != nil {
			return nil, err
		}
		if _, err := fn(goja.Undefined(), exports, vm.Get("require"), module); err != nil {
			return nil, err
		}
		return module.Get("exports"), nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "executing %s", path)
	}

	out, ok := exports.(map[string]any)
	if !ok {
		return nil, errors.Newf("%s must export named values, got %T", path, exports)
	}
	if _, ok := out["collections"]; !ok {
		if def, ok := out["default"].(map[string]any); ok {
			return def, nil
		}
	}
	return out, nil
}

func (e *environment) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.bridge = nil
	return nil
}

// transpile turns TypeScript or ES module source into a CommonJS script.
func transpile(path string, src []byte) (string, error) {
	loader := api.LoaderJS
	if strings.EqualFold(filepath.Ext(path), ".ts") {
		loader = api.LoaderTS
	}

	res := api.Transform(string(src), api.TransformOptions{
		Loader:     loader,
		Format:     api.FormatCommonJS,
		Target:     api.ES2017,
		Sourcefile: path,
		LogLevel:   api.LogLevelSilent,
	})
	if len(res.Errors) > 0 {
		msg := res.Errors[0]
		if loc := msg.Location; loc != nil {
			return "", errors.Newf("compiling %s:%d:%d: %s", path, loc.Line, loc.Column, msg.Text)
		}
		return "", errors.Newf("compiling %s: %s", path, msg.Text)
	}
	return string(res.Code), nil
}
