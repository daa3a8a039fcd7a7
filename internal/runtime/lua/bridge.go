package lua

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/schema"
)

// maxDepth bounds table nesting when converting values.
const maxDepth = 64

// Bridge converts values between Lua and Go and runs Lua functions after
// the state that defined them is gone. One Bridge is shared by an
// environment and every callable it hands out.
type Bridge struct {
	plugins []Plugin
	timeout time.Duration
	// mu serializes calls into Lua. Functions from one import may share
	// tables through upvalues.
	mu *sync.Mutex
}

func (b *Bridge) newState() *lua.LState {
	return newSandbox(b.plugins, b)
}

func (b *Bridge) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.timeout)
}

// FromLua converts a Lua value into plain Go data. Tables with only
// sequential integer keys become []any, other tables map[string]any.
func (b *Bridge) FromLua(v lua.LValue) (any, error) {
	return b.convert(v, 0, map[*lua.LTable]bool{})
}

func (b *Bridge) convert(v lua.LValue, depth int, seen map[*lua.LTable]bool) (any, error) {
	if depth > maxDepth {
		return nil, errors.Newf("table nesting exceeds %d levels", maxDepth)
	}

	switch val := v.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(val), nil
	case lua.LNumber:
		return float64(val), nil
	case lua.LString:
		return string(val), nil
	case *lua.LFunction:
		return b.Function(val), nil
	case *lua.LUserData:
		if validator, ok := val.Value.(schema.Validator); ok {
			return validator, nil
		}
		return nil, errors.Newf("unsupported userdata %T", val.Value)
	case *lua.LTable:
		if seen[val] {
			return nil, errors.New("table contains a reference to itself")
		}
		seen[val] = true
		defer delete(seen, val)
		return b.convertTable(val, depth, seen)
	}
	return nil, errors.Newf("unsupported lua value of type %s", v.Type())
}

func (b *Bridge) convertTable(tbl *lua.LTable, depth int, seen map[*lua.LTable]bool) (any, error) {
	n := tbl.MaxN()
	count := 0
	tbl.ForEach(func(lua.LValue, lua.LValue) { count++ })

	if n > 0 && n == count {
		list := make([]any, n)
		for i := 1; i <= n; i++ {
			item, err := b.convert(tbl.RawGetInt(i), depth+1, seen)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			list[i-1] = item
		}
		return list, nil
	}

	out := make(map[string]any, count)
	var convErr error
	tbl.ForEach(func(k, v lua.LValue) {
		if convErr != nil {
			return
		}
		key, ok := k.(lua.LString)
		if !ok {
			if num, isNum := k.(lua.LNumber); isNum {
				key = lua.LString(num.String())
			} else {
				convErr = errors.Newf("unsupported table key of type %s", k.Type())
				return
			}
		}
		item, err := b.convert(v, depth+1, seen)
		if err != nil {
			convErr = errors.Wrapf(err, "%s", string(key))
			return
		}
		out[string(key)] = item
	})
	if convErr != nil {
		return nil, convErr
	}
	return out, nil
}

// ToLua converts Go data into a Lua value owned by L.
func (b *Bridge) ToLua(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return val
	case bool:
		return lua.LBool(val)
	case string:
		return lua.LString(val)
	case time.Time:
		return lua.LString(val.Format(time.RFC3339))
	case schema.Validator:
		return newValidator(L, val)
	case schema.Function:
		return L.NewFunction(func(L *lua.LState) int {
			args := make([]any, L.GetTop())
			for i := range args {
				arg, err := b.FromLua(L.Get(i + 1))
				if err != nil {
					L.ArgError(i+1, err.Error())
				}
				args[i] = arg
			}
			out, err := val(L.Context(), args...)
			if err != nil {
				L.RaiseError("%s", err.Error())
			}
			L.Push(b.ToLua(L, out))
			return 1
		})
	case []any:
		tbl := L.CreateTable(len(val), 0)
		for _, item := range val {
			tbl.Append(b.ToLua(L, item))
		}
		return tbl
	case []string:
		tbl := L.CreateTable(len(val), 0)
		for _, item := range val {
			tbl.Append(lua.LString(item))
		}
		return tbl
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		tbl := L.CreateTable(0, len(val))
		for _, k := range keys {
			tbl.RawSetString(k, b.ToLua(L, val[k]))
		}
		return tbl
	}
	if schema.IsUndefined(v) {
		return lua.LNil
	}
	if n, ok := schema.ToFloat(v); ok {
		return lua.LNumber(n)
	}
	return lua.LString(fmt.Sprint(v))
}

// Function wraps a Lua function so it can be called after its defining
// state is closed. Every call gets a fresh sandboxed state.
func (b *Bridge) Function(fn *lua.LFunction) schema.Function {
	return func(ctx context.Context, args ...any) (result any, err error) {
		b.mu.Lock()
		defer b.mu.Unlock()

		L := b.newState()
		defer L.Close()

		ctx, cancel := b.withTimeout(ctx)
		defer cancel()
		L.SetContext(ctx)

		defer func() {
			if r := recover(); r != nil {
				err = errors.Newf("lua panic: %v", r)
			}
		}()

		largs := make([]lua.LValue, len(args))
		for i, arg := range args {
			largs[i] = b.ToLua(L, arg)
		}

		if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, largs...); err != nil {
			return nil, luaError(err)
		}
		ret := L.Get(-1)
		L.Pop(1)
		return b.FromLua(ret)
	}
}
