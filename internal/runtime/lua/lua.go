package lua

import (
	"context"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	lua "github.com/yuin/gopher-lua"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/runtime"
)

// DefaultTimeout bounds a single import or function call.
const DefaultTimeout = 5 * time.Second

// Runtime executes Lua config files.
type Runtime struct {
	fs      billy.Filesystem
	plugins []Plugin
	timeout time.Duration
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithPlugins adds plugins whose modules are preloaded into every state.
func WithPlugins(plugins ...Plugin) Option {
	return func(r *Runtime) {
		r.plugins = append(r.plugins, plugins...)
	}
}

// WithTimeout sets the limit for an import or a single function call.
// Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		r.timeout = d
	}
}

// New returns a Lua runtime reading config files from fs.
func New(fs billy.Filesystem, opts ...Option) *Runtime {
	r := &Runtime{fs: fs, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name implements runtime.Runtime.
func (r *Runtime) Name() string {
	return "lua"
}

// Open implements runtime.Runtime.
func (r *Runtime) Open(context.Context) (runtime.Environment, error) {
	b := &Bridge{
		plugins: r.plugins,
		timeout: r.timeout,
		mu:      &sync.Mutex{},
	}
	return &environment{
		fs:     r.fs,
		bridge: b,
		L:      b.newState(),
	}, nil
}

type environment struct {
	fs     billy.Filesystem
	bridge *Bridge
	L      *lua.LState
	closed bool
}

func (e *environment) Import(ctx context.Context, path string) (result map[string]any, err error) {
	if e.closed {
		return nil, runtime.ErrClosed
	}

	src, err := util.ReadFile(e.fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	ctx, cancel := e.bridge.withTimeout(ctx)
	defer cancel()
	e.L.SetContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("lua panic: %v", r)
		}
	}()

	fn, err := e.L.Load(bytesReader(src), path)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", path)
	}

	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return nil, errors.Wrapf(luaError(err), "executing %s", path)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)

	if ret == lua.LNil {
		ret = e.L.GetGlobal("collections")
		if ret != lua.LNil {
			tbl := e.L.NewTable()
			tbl.RawSetString("collections", ret)
			ret = tbl
		}
	}

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, errors.Newf("%s must return a table, got %s", path, ret.Type())
	}

	value, err := e.bridge.FromLua(tbl)
	if err != nil {
		return nil, errors.Wrapf(err, "converting exports of %s", path)
	}
	exports, ok := value.(map[string]any)
	if !ok {
		return nil, errors.Newf("%s must return a table with named fields", path)
	}
	return exports, nil
}

func (e *environment) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.L.Close()
	return nil
}
