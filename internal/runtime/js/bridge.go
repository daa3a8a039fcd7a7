package js

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/schema"
)

// maxDepth bounds object nesting when converting values.
const maxDepth = 64

// Bridge converts values between JavaScript and Go and runs code on the VM
// of one environment. The environment and every callable it hands out share
// the Bridge.
type Bridge struct {
	vm      *goja.Runtime
	timeout time.Duration
	// mu serializes use of the VM, which is not safe for concurrent use.
	mu *sync.Mutex
	// ctx is the context of the call in progress, for native functions.
	ctx        context.Context
	validators map[*goja.Object]schema.Validator
}

func newBridge(vm *goja.Runtime, timeout time.Duration) *Bridge {
	return &Bridge{
		vm:         vm,
		timeout:    timeout,
		mu:         &sync.Mutex{},
		ctx:        context.Background(),
		validators: make(map[*goja.Object]schema.Validator),
	}
}

// run executes fn on the VM under the bridge lock, interrupting it when ctx
// is done or the timeout passes, and converts the result to Go data.
func (b *Bridge) run(ctx context.Context, fn func(vm *goja.Runtime) (goja.Value, error)) (result any, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var cancel context.CancelFunc
	if b.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			b.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()
	defer func() {
		close(done)
		<-stopped
		b.vm.ClearInterrupt()
	}()

	prev := b.ctx
	b.ctx = ctx
	defer func() { b.ctx = prev }()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("javascript panic: %v", r)
		}
	}()

	v, err := fn(b.vm)
	if err != nil {
		return nil, jsError(ctx, err)
	}
	v, err = settle(v)
	if err != nil {
		return nil, err
	}
	return b.FromJS(v)
}

// settle unwraps a promise returned by a call. The VM drains its job queue
// before the call returns, so a promise that is still pending never
// settles.
func settle(v goja.Value) (goja.Value, error) {
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() != "Promise" {
		return v, nil
	}
	p, ok := obj.Export().(*goja.Promise)
	if !ok {
		return v, nil
	}
	switch p.State() {
	case goja.PromiseStateFulfilled:
		return p.Result(), nil
	case goja.PromiseStateRejected:
		return nil, &scriptError{msg: p.Result().String()}
	}
	return nil, errors.New("promise did not settle")
}

// FromJS converts a JavaScript value into plain Go data. Arrays become
// []any, Dates time.Time, functions schema.Function and other objects
// map[string]any.
func (b *Bridge) FromJS(v goja.Value) (any, error) {
	return b.convert(v, 0, map[*goja.Object]bool{})
}

func (b *Bridge) convert(v goja.Value, depth int, seen map[*goja.Object]bool) (any, error) {
	if depth > maxDepth {
		return nil, errors.Newf("object nesting exceeds %d levels", maxDepth)
	}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}

	obj, ok := v.(*goja.Object)
	if !ok {
		switch val := v.Export().(type) {
		case bool, string, float64:
			return val, nil
		case int64:
			return float64(val), nil
		}
		return nil, errors.Newf("unsupported javascript value %s", v.String())
	}

	if validator, ok := b.validators[obj]; ok {
		return validator, nil
	}
	if fn, ok := goja.AssertFunction(obj); ok {
		return b.Function(fn), nil
	}
	if obj.ClassName() == "Date" {
		if t, ok := obj.Export().(time.Time); ok {
			return t, nil
		}
	}

	if seen[obj] {
		return nil, errors.New("object contains a reference to itself")
	}
	seen[obj] = true
	defer delete(seen, obj)

	if obj.ClassName() == "Array" {
		n := int(obj.Get("length").ToInteger())
		list := make([]any, n)
		for i := range n {
			item, err := b.convert(obj.Get(strconv.Itoa(i)), depth+1, seen)
			if err != nil {
				return nil, errors.Wrapf(err, "[%d]", i)
			}
			list[i] = item
		}
		return list, nil
	}

	keys := obj.Keys()
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		item, err := b.convert(obj.Get(k), depth+1, seen)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", k)
		}
		out[k] = item
	}
	return out, nil
}

// ToJS converts Go data into a value owned by the bridge's VM.
func (b *Bridge) ToJS(v any) goja.Value {
	switch val := v.(type) {
	case nil:
		return goja.Null()
	case goja.Value:
		return val
	case bool, string:
		return b.vm.ToValue(val)
	case time.Time:
		date, err := b.vm.New(b.vm.Get("Date"), b.vm.ToValue(val.UnixMilli()))
		if err != nil {
			return b.vm.ToValue(val.Format(time.RFC3339))
		}
		return date
	case schema.Validator:
		return b.newValidator(val)
	case schema.Function:
		return b.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			args := make([]any, len(call.Arguments))
			for i, arg := range call.Arguments {
				converted, err := b.FromJS(arg)
				if err != nil {
					panic(b.vm.NewTypeError("argument %d: %s", i+1, err.Error()))
				}
				args[i] = converted
			}
			out, err := val(b.ctx, args...)
			if err != nil {
				panic(b.vm.NewGoError(err))
			}
			return b.ToJS(out)
		})
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = b.ToJS(item)
		}
		return b.vm.NewArray(items...)
	case []string:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = item
		}
		return b.vm.NewArray(items...)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := b.vm.NewObject()
		for _, k := range keys {
			_ = obj.Set(k, b.ToJS(val[k]))
		}
		return obj
	}
	if schema.IsUndefined(v) {
		return goja.Undefined()
	}
	if n, ok := schema.ToFloat(v); ok {
		return b.vm.ToValue(n)
	}
	return b.vm.ToValue(fmt.Sprint(v))
}

// Function wraps a JavaScript function as a schema.Function. The function
// keeps its VM reachable, so it stays usable after the environment that
// defined it is closed.
func (b *Bridge) Function(fn goja.Callable) schema.Function {
	return func(ctx context.Context, args ...any) (any, error) {
		return b.run(ctx, func(*goja.Runtime) (goja.Value, error) {
			jsArgs := make([]goja.Value, len(args))
			for i, arg := range args {
				jsArgs[i] = b.ToJS(arg)
			}
			return fn(goja.Undefined(), jsArgs...)
		})
	}
}

// jsError drops the stack trace from thrown values and reports interrupts
// as the context error that caused them.
func jsError(ctx context.Context, err error) error {
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		if cerr := ctx.Err(); cerr != nil {
			return errors.Wrap(cerr, "script interrupted")
		}
		return errors.Newf("script interrupted: %v", interrupted.Value())
	}
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return &scriptError{msg: ex.Value().String(), cause: err}
	}
	return err
}

type scriptError struct {
	msg   string
	cause error
}

func (e *scriptError) Error() string { return e.msg }
func (e *scriptError) Unwrap() error { return e.cause }
