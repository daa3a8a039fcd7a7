package lua

import (
	"context"

	lua "github.com/yuin/gopher-lua"

	"github.com/thoreinstein/quill/internal/schema"
)

// Plugin provides a module that configs can require.
type Plugin interface {
	// Module is the name passed to require.
	Module() string
	// Loader returns the module loader for a state.
	Loader(b *Bridge) lua.LGFunction
}

// ContentModule is the name of the module provided by ContentPlugin.
const ContentModule = "quill:content"

const validatorType = "quill.validator"

type contentPlugin struct{}

// ContentPlugin returns the plugin providing the "quill:content" module:
// the z schema builders and define_collection.
func ContentPlugin() Plugin {
	return contentPlugin{}
}

func (contentPlugin) Module() string {
	return ContentModule
}

func (contentPlugin) Loader(b *Bridge) lua.LGFunction {
	return func(L *lua.LState) int {
		registerValidatorType(L, b)

		z := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"string":  build(func(*lua.LState) schema.Validator { return schema.String() }),
			"number":  build(func(*lua.LState) schema.Validator { return schema.Number() }),
			"boolean": build(func(*lua.LState) schema.Validator { return schema.Boolean() }),
			"date":    build(func(*lua.LState) schema.Validator { return schema.Date() }),
			"any":     build(func(*lua.LState) schema.Validator { return schema.Any() }),
			"array": build(func(L *lua.LState) schema.Validator {
				return schema.Array(checkValidator(L, 1))
			}),
			"record": build(func(L *lua.LState) schema.Validator {
				return schema.Record(checkValidator(L, 1))
			}),
			"object": build(func(L *lua.LState) schema.Validator {
				return schema.Object(checkFields(L, 1))
			}),
			"enum": build(func(L *lua.LState) schema.Validator {
				return schema.Enum(checkStrings(L, 1)...)
			}),
			"literal": build(func(L *lua.LState) schema.Validator {
				v, err := b.FromLua(L.CheckAny(1))
				if err != nil {
					L.ArgError(1, err.Error())
				}
				return schema.Literal(v)
			}),
		})
		L.SetField(z, "func", L.NewFunction(build(func(*lua.LState) schema.Validator { return schema.Func() })))
		L.SetField(z, "coerce", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
			"date": build(func(*lua.LState) schema.Validator { return schema.CoerceDate() }),
		}))

		mod := L.NewTable()
		L.SetField(mod, "z", z)
		L.SetField(mod, "define_collection", L.NewFunction(func(L *lua.LState) int {
			L.Push(L.CheckTable(1))
			return 1
		}))
		L.Push(mod)
		return 1
	}
}

func build(fn func(L *lua.LState) schema.Validator) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(newValidator(L, fn(L)))
		return 1
	}
}

func newValidator(L *lua.LState, v schema.Validator) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = v
	L.SetMetatable(ud, L.GetTypeMetatable(validatorType))
	return ud
}

func registerValidatorType(L *lua.LState, b *Bridge) {
	mt := L.NewTypeMetatable(validatorType)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"optional": modify(func(_ *lua.LState, v schema.Validator) schema.Validator {
			return schema.Optional(v)
		}),
		"nullable": modify(func(_ *lua.LState, v schema.Validator) schema.Validator {
			return schema.Nullable(v)
		}),
		"default": modify(func(L *lua.LState, v schema.Validator) schema.Validator {
			def, err := b.FromLua(L.CheckAny(2))
			if err != nil {
				L.ArgError(2, err.Error())
			}
			return schema.Default(v, def)
		}),
		"min": modify(func(L *lua.LState, v schema.Validator) schema.Validator {
			out, err := schema.WithMin(v, float64(L.CheckNumber(2)))
			if err != nil {
				L.RaiseError("%s", err.Error())
			}
			return out
		}),
		"max": modify(func(L *lua.LState, v schema.Validator) schema.Validator {
			out, err := schema.WithMax(v, float64(L.CheckNumber(2)))
			if err != nil {
				L.RaiseError("%s", err.Error())
			}
			return out
		}),
		"int": modify(func(L *lua.LState, v schema.Validator) schema.Validator {
			n, ok := v.(*schema.NumberSchema)
			if !ok {
				L.RaiseError("int applies only to numbers")
			}
			return n.Int()
		}),
		"strict": modify(func(L *lua.LState, v schema.Validator) schema.Validator {
			obj, ok := v.(*schema.ObjectSchema)
			if !ok {
				L.RaiseError("strict applies only to objects")
			}
			return obj.Strict()
		}),
		"passthrough": modify(func(L *lua.LState, v schema.Validator) schema.Validator {
			obj, ok := v.(*schema.ObjectSchema)
			if !ok {
				L.RaiseError("passthrough applies only to objects")
			}
			return obj.Passthrough()
		}),
		"transform": modify(func(L *lua.LState, v schema.Validator) schema.Validator {
			fn := b.Function(L.CheckFunction(2))
			return schema.Transform(v, func(ctx context.Context, value any) (any, error) {
				return fn(ctx, value)
			})
		}),
	}))
}

func modify(fn func(L *lua.LState, v schema.Validator) schema.Validator) lua.LGFunction {
	return func(L *lua.LState) int {
		L.Push(newValidator(L, fn(L, checkValidator(L, 1))))
		return 1
	}
}

func checkValidator(L *lua.LState, n int) schema.Validator {
	switch v := L.Get(n).(type) {
	case *lua.LUserData:
		if validator, ok := v.Value.(schema.Validator); ok {
			return validator
		}
	case lua.LString:
		validator, err := schema.FromDescriptor(string(v))
		if err != nil {
			L.ArgError(n, err.Error())
		}
		return validator
	}
	L.ArgError(n, "schema expected")
	return nil
}

func checkFields(L *lua.LState, n int) map[string]schema.Validator {
	tbl := L.CheckTable(n)
	fields := make(map[string]schema.Validator)
	tbl.ForEach(func(k, _ lua.LValue) {
		key, ok := k.(lua.LString)
		if !ok {
			L.ArgError(n, "object field names must be strings")
		}
		L.Push(tbl.RawGet(k))
		fields[string(key)] = checkValidator(L, L.GetTop())
		L.Pop(1)
	})
	return fields
}

func checkStrings(L *lua.LState, n int) []string {
	tbl := L.CheckTable(n)
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		s, ok := tbl.RawGetInt(i).(lua.LString)
		if !ok {
			L.ArgError(n, "enum values must be strings")
		}
		out = append(out, string(s))
	}
	if len(out) == 0 {
		L.ArgError(n, "enum needs at least one value")
	}
	return out
}
