package schema

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Validator checks a single value.
//
// Check returns the output value, which may differ from the input when the
// validator applies defaults or transforms. When issues are returned the
// output is unspecified.
type Validator interface {
	Check(ctx context.Context, value any, path Path) (any, []Issue)
}

// Function is a callable value carried through a config, such as a slug
// function or a transform defined in a config script.
type Function func(ctx context.Context, args ...any) (any, error)

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// Undefined marks an absent value. Object fields missing from the input are
// checked as Undefined, and validators return it to omit a key.
var Undefined any = undefinedValue{}

// IsUndefined reports whether v is the absent marker.
func IsUndefined(v any) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// Path locates a value inside a document. Segments are field names or
// array indexes.
type Path []any

// Append returns a new path with seg added. The receiver is not modified.
func (p Path) Append(seg any) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, seg)
}

// String joins the segments with dots.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = fmt.Sprint(seg)
	}
	return strings.Join(parts, ".")
}

// Type names reported in Expected and Received.
const (
	TypeString    = "string"
	TypeNumber    = "number"
	TypeInteger   = "integer"
	TypeFloat     = "float"
	TypeNaN       = "nan"
	TypeBoolean   = "boolean"
	TypeDate      = "date"
	TypeArray     = "array"
	TypeObject    = "object"
	TypeNull      = "null"
	TypeUndefined = "undefined"
	TypeFunction  = "function"
)

// TypeOf returns the type name of a decoded value.
func TypeOf(v any) string {
	switch val := v.(type) {
	case nil:
		return TypeNull
	case undefinedValue:
		return TypeUndefined
	case string:
		return TypeString
	case bool:
		return TypeBoolean
	case float64:
		if math.IsNaN(val) {
			return TypeNaN
		}
		return TypeNumber
	case float32:
		if math.IsNaN(float64(val)) {
			return TypeNaN
		}
		return TypeNumber
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return TypeNumber
	case time.Time, toml.LocalDate, toml.LocalDateTime:
		return TypeDate
	case Function:
		return TypeFunction
	case []any:
		return TypeArray
	case map[string]any:
		return TypeObject
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return TypeArray
	case reflect.Map, reflect.Struct:
		return TypeObject
	case reflect.Func:
		return TypeFunction
	case reflect.Pointer:
		if rv.IsNil() {
			return TypeNull
		}
		return TypeOf(rv.Elem().Interface())
	default:
		return rv.Kind().String()
	}
}

// ToFloat converts any Go numeric value to float64. It reports false for
// anything else.
func ToFloat(v any) (float64, bool) {
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

// toSlice converts a slice of any element type to []any.
func toSlice(v any) ([]any, bool) {
	if s, ok := v.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// toMap converts a string-keyed map of any value type to map[string]any.
func toMap(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if v == nil || rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func typeIssue(path Path, expected string, value any) []Issue {
	return []Issue{{
		Code:     CodeInvalidType,
		Path:     path,
		Expected: expected,
		Received: TypeOf(value),
	}}
}
