package js

import (
	"context"

	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/require"

	"github.com/thoreinstein/quill/internal/schema"
)

// Module is a native module that configs can require or import.
type Module interface {
	// Name is the specifier passed to require or import.
	Name() string
	// Loader returns the module loader for one VM.
	Loader(b *Bridge) require.ModuleLoader
}

// ContentModule is the specifier of the module provided by Content.
const ContentModule = "quill:content"

type contentModule struct{}

// Content returns the module providing "quill:content": the z schema
// builders and defineCollection.
func Content() Module {
	return contentModule{}
}

func (contentModule) Name() string {
	return ContentModule
}

func (contentModule) Loader(b *Bridge) require.ModuleLoader {
	return func(vm *goja.Runtime, module *goja.Object) {
		z := vm.NewObject()
		builders := map[string]func(goja.FunctionCall) schema.Validator{
			"string":  func(goja.FunctionCall) schema.Validator { return schema.String() },
			"number":  func(goja.FunctionCall) schema.Validator { return schema.Number() },
			"boolean": func(goja.FunctionCall) schema.Validator { return schema.Boolean() },
			"date":    func(goja.FunctionCall) schema.Validator { return schema.Date() },
			"any":     func(goja.FunctionCall) schema.Validator { return schema.Any() },
			"function": func(goja.FunctionCall) schema.Validator {
				return schema.Func()
			},
			"array": func(call goja.FunctionCall) schema.Validator {
				return schema.Array(b.checkValidator(call.Argument(0), 1))
			},
			"record": func(call goja.FunctionCall) schema.Validator {
				// The key schema of record(key, value) is not checked.
				if len(call.Arguments) > 1 {
					return schema.Record(b.checkValidator(call.Argument(1), 2))
				}
				return schema.Record(b.checkValidator(call.Argument(0), 1))
			},
			"object": func(call goja.FunctionCall) schema.Validator {
				return schema.Object(b.checkFields(call.Argument(0)))
			},
			"enum": func(call goja.FunctionCall) schema.Validator {
				return schema.Enum(b.checkStrings(call.Argument(0))...)
			},
			"literal": func(call goja.FunctionCall) schema.Validator {
				v, err := b.FromJS(call.Argument(0))
				if err != nil {
					panic(vm.NewTypeError("literal: %s", err.Error()))
				}
				return schema.Literal(v)
			},
		}
		for name, fn := range builders {
			_ = z.Set(name, b.builder(fn))
		}

		coerce := vm.NewObject()
		_ = coerce.Set("date", b.builder(func(goja.FunctionCall) schema.Validator { return schema.CoerceDate() }))
		_ = z.Set("coerce", coerce)

		exports := module.Get("exports").(*goja.Object)
		_ = exports.Set("z", z)
		_ = exports.Set("defineCollection", func(call goja.FunctionCall) goja.Value {
			arg := call.Argument(0)
			if _, ok := arg.(*goja.Object); !ok {
				panic(vm.NewTypeError("defineCollection expects an object"))
			}
			return arg
		})
	}
}

func (b *Bridge) builder(fn func(goja.FunctionCall) schema.Validator) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		return b.newValidator(fn(call))
	}
}

type method func(b *Bridge, call goja.FunctionCall, v schema.Validator) schema.Validator

func validatorMethods() map[string]method {
	return map[string]method{
		"optional": func(_ *Bridge, _ goja.FunctionCall, v schema.Validator) schema.Validator {
			return schema.Optional(v)
		},
		"nullable": func(_ *Bridge, _ goja.FunctionCall, v schema.Validator) schema.Validator {
			return schema.Nullable(v)
		},
		"array": func(_ *Bridge, _ goja.FunctionCall, v schema.Validator) schema.Validator {
			return schema.Array(v)
		},
		"default": func(b *Bridge, call goja.FunctionCall, v schema.Validator) schema.Validator {
			def, err := b.FromJS(call.Argument(0))
			if err != nil {
				panic(b.vm.NewTypeError("default: %s", err.Error()))
			}
			return schema.Default(v, def)
		},
		"min": func(b *Bridge, call goja.FunctionCall, v schema.Validator) schema.Validator {
			out, err := schema.WithMin(v, b.checkNumber(call.Argument(0), "min"))
			if err != nil {
				panic(b.vm.NewTypeError("%s", err.Error()))
			}
			return out
		},
		"max": func(b *Bridge, call goja.FunctionCall, v schema.Validator) schema.Validator {
			out, err := schema.WithMax(v, b.checkNumber(call.Argument(0), "max"))
			if err != nil {
				panic(b.vm.NewTypeError("%s", err.Error()))
			}
			return out
		},
		"int": func(b *Bridge, _ goja.FunctionCall, v schema.Validator) schema.Validator {
			n, ok := v.(*schema.NumberSchema)
			if !ok {
				panic(b.vm.NewTypeError("int applies only to numbers"))
			}
			return n.Int()
		},
		"strict": func(b *Bridge, _ goja.FunctionCall, v schema.Validator) schema.Validator {
			obj, ok := v.(*schema.ObjectSchema)
			if !ok {
				panic(b.vm.NewTypeError("strict applies only to objects"))
			}
			return obj.Strict()
		},
		"passthrough": func(b *Bridge, _ goja.FunctionCall, v schema.Validator) schema.Validator {
			obj, ok := v.(*schema.ObjectSchema)
			if !ok {
				panic(b.vm.NewTypeError("passthrough applies only to objects"))
			}
			return obj.Passthrough()
		},
		"transform": func(b *Bridge, call goja.FunctionCall, v schema.Validator) schema.Validator {
			callable, ok := goja.AssertFunction(call.Argument(0))
			if !ok {
				panic(b.vm.NewTypeError("transform expects a function"))
			}
			fn := b.Function(callable)
			return schema.Transform(v, func(ctx context.Context, value any) (any, error) {
				return fn(ctx, value)
			})
		},
	}
}

// newValidator wraps v in an object carrying the chainable modifiers.
func (b *Bridge) newValidator(v schema.Validator) *goja.Object {
	obj := b.vm.NewObject()
	b.validators[obj] = v
	for name, m := range validatorMethods() {
		_ = obj.Set(name, func(call goja.FunctionCall) goja.Value {
			return b.newValidator(m(b, call, v))
		})
	}
	return obj
}

// checkValidator accepts a validator object or a descriptor string.
func (b *Bridge) checkValidator(arg goja.Value, n int) schema.Validator {
	if obj, ok := arg.(*goja.Object); ok {
		if v, ok := b.validators[obj]; ok {
			return v
		}
	} else if arg != nil && !goja.IsUndefined(arg) && !goja.IsNull(arg) {
		if desc, ok := arg.Export().(string); ok {
			v, err := schema.FromDescriptor(desc)
			if err != nil {
				panic(b.vm.NewTypeError("argument %d: %s", n, err.Error()))
			}
			return v
		}
	}
	panic(b.vm.NewTypeError("argument %d: schema expected", n))
}

func (b *Bridge) checkFields(arg goja.Value) map[string]schema.Validator {
	obj, ok := arg.(*goja.Object)
	if !ok {
		panic(b.vm.NewTypeError("object expects a map of field schemas"))
	}
	if _, isValidator := b.validators[obj]; isValidator {
		panic(b.vm.NewTypeError("object expects a map of field schemas"))
	}
	fields := make(map[string]schema.Validator)
	for _, key := range obj.Keys() {
		fields[key] = b.checkValidator(obj.Get(key), 1)
	}
	return fields
}

func (b *Bridge) checkStrings(arg goja.Value) []string {
	values, err := b.FromJS(arg)
	if err != nil {
		panic(b.vm.NewTypeError("enum: %s", err.Error()))
	}
	list, ok := values.([]any)
	if !ok || len(list) == 0 {
		panic(b.vm.NewTypeError("enum needs a non-empty array of strings"))
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			panic(b.vm.NewTypeError("enum values must be strings"))
		}
		out[i] = s
	}
	return out
}

func (b *Bridge) checkNumber(arg goja.Value, name string) float64 {
	if arg != nil {
		switch n := arg.Export().(type) {
		case int64:
			return float64(n)
		case float64:
			return n
		}
	}
	panic(b.vm.NewTypeError("%s expects a number", name))
}
