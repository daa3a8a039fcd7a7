package lua

import (
	"bytes"
	"io"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// removedGlobals can load code from disk or from strings.
var removedGlobals = []string{"dofile", "loadfile", "load", "loadstring"}

// safeModules are the built-in modules require may return.
var safeModules = map[string]bool{
	"string": true,
	"table":  true,
	"math":   true,
}

// newSandbox creates a state with the safe libraries and the given plugins.
func newSandbox(plugins []Plugin, b *Bridge) *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	lua.OpenPackage(L)

	for _, name := range removedGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	preloaded := make(map[string]bool, len(plugins))
	for _, p := range plugins {
		L.PreloadModule(p.Module(), p.Loader(b))
		preloaded[p.Module()] = true
	}
	installSafeRequire(L, preloaded)

	return L
}

// installSafeRequire clears the package search paths and replaces require
// with a version that only resolves safe built-ins and preloaded modules.
func installSafeRequire(L *lua.LState, preloaded map[string]bool) {
	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	originalRequire := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !safeModules[name] && !preloaded[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

func bytesReader(b []byte) io.Reader {
	return bytes.NewReader(b)
}

// luaError strips the stack traceback from a protected-call error.
func luaError(err error) error {
	apiErr, ok := err.(*lua.ApiError)
	if !ok || apiErr.Object == nil {
		return err
	}
	return &scriptError{msg: strings.TrimSpace(apiErr.Object.String()), cause: err}
}

type scriptError struct {
	msg   string
	cause error
}

func (e *scriptError) Error() string { return e.msg }
func (e *scriptError) Unwrap() error { return e.cause }
