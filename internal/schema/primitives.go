package schema

import (
	"context"
	"math"
	"reflect"
	"time"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
)

type bounds struct {
	min *float64
	max *float64
}

func (b bounds) check(path Path, origin string, n float64) []Issue {
	var issues []Issue
	if b.min != nil && n < *b.min {
		issues = append(issues, Issue{
			Code: CodeTooSmall, Path: path, Origin: origin, Limit: *b.min, Inclusive: true,
		})
	}
	if b.max != nil && n > *b.max {
		issues = append(issues, Issue{
			Code: CodeTooBig, Path: path, Origin: origin, Limit: *b.max, Inclusive: true,
		})
	}
	return issues
}

func (b bounds) withMin(n float64) bounds {
	b.min = &n
	return b
}

func (b bounds) withMax(n float64) bounds {
	b.max = &n
	return b
}

// StringSchema accepts strings. Min and Max bound the length in characters.
type StringSchema struct {
	bounds bounds
}

// String returns a validator for strings.
func String() *StringSchema {
	return &StringSchema{}
}

// Min requires at least n characters.
func (s *StringSchema) Min(n int) *StringSchema {
	return &StringSchema{bounds: s.bounds.withMin(float64(n))}
}

// Max allows at most n characters.
func (s *StringSchema) Max(n int) *StringSchema {
	return &StringSchema{bounds: s.bounds.withMax(float64(n))}
}

func (s *StringSchema) Check(_ context.Context, value any, path Path) (any, []Issue) {
	str, ok := value.(string)
	if !ok {
		return nil, typeIssue(path, TypeString, value)
	}
	if issues := s.bounds.check(path, TypeString, float64(utf8.RuneCountInString(str))); len(issues) > 0 {
		return nil, issues
	}
	return str, nil
}

// NumberSchema accepts any numeric value and outputs float64.
type NumberSchema struct {
	bounds bounds
	isInt  bool
}

// Number returns a validator for numbers.
func Number() *NumberSchema {
	return &NumberSchema{}
}

// Integer returns a validator for whole numbers.
func Integer() *NumberSchema {
	return &NumberSchema{isInt: true}
}

// Int requires a whole number.
func (s *NumberSchema) Int() *NumberSchema {
	return &NumberSchema{bounds: s.bounds, isInt: true}
}

// Min requires a value >= n.
func (s *NumberSchema) Min(n float64) *NumberSchema {
	return &NumberSchema{bounds: s.bounds.withMin(n), isInt: s.isInt}
}

// Max requires a value <= n.
func (s *NumberSchema) Max(n float64) *NumberSchema {
	return &NumberSchema{bounds: s.bounds.withMax(n), isInt: s.isInt}
}

func (s *NumberSchema) Check(_ context.Context, value any, path Path) (any, []Issue) {
	n, ok := toFloat(value)
	if !ok || math.IsNaN(n) {
		return nil, typeIssue(path, TypeNumber, value)
	}
	if s.isInt && n != math.Trunc(n) {
		return nil, []Issue{{
			Code:     CodeInvalidType,
			Path:     path,
			Expected: TypeInteger,
			Received: TypeFloat,
		}}
	}
	if issues := s.bounds.check(path, TypeNumber, n); len(issues) > 0 {
		return nil, issues
	}
	return n, nil
}

// BooleanSchema accepts true and false.
type BooleanSchema struct{}

// Boolean returns a validator for booleans.
func Boolean() *BooleanSchema {
	return &BooleanSchema{}
}

func (*BooleanSchema) Check(_ context.Context, value any, path Path) (any, []Issue) {
	b, ok := value.(bool)
	if !ok {
		return nil, typeIssue(path, TypeBoolean, value)
	}
	return b, nil
}

// DateSchema accepts dates and outputs time.Time.
type DateSchema struct {
	coerce bool
}

// Date returns a validator for decoded date values. TOML dates and
// time.Time are accepted; strings are not.
func Date() *DateSchema {
	return &DateSchema{}
}

// CoerceDate returns a date validator that also parses strings and
// converts numbers as Unix milliseconds. YAML frontmatter dates decode as
// strings, so this is the usual choice for frontmatter fields.
func CoerceDate() *DateSchema {
	return &DateSchema{coerce: true}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (s *DateSchema) Check(_ context.Context, value any, path Path) (any, []Issue) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case toml.LocalDate:
		return v.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return v.AsTime(time.UTC), nil
	}

	if !s.coerce {
		return nil, typeIssue(path, TypeDate, value)
	}

	if str, ok := value.(string); ok {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, str); err == nil {
				return t, nil
			}
		}
		return nil, []Issue{{Code: CodeInvalidDate, Path: path, Value: value}}
	}
	if n, ok := toFloat(value); ok && !math.IsNaN(n) {
		return time.UnixMilli(int64(n)).UTC(), nil
	}
	return nil, typeIssue(path, TypeDate, value)
}

// AnySchema accepts every value, including Undefined.
type AnySchema struct{}

// Any returns a validator that accepts everything.
func Any() *AnySchema {
	return &AnySchema{}
}

func (*AnySchema) Check(_ context.Context, value any, _ Path) (any, []Issue) {
	return value, nil
}

// FuncSchema accepts callable values.
type FuncSchema struct{}

// Func returns a validator for Function values.
func Func() *FuncSchema {
	return &FuncSchema{}
}

func (*FuncSchema) Check(_ context.Context, value any, path Path) (any, []Issue) {
	if fn, ok := value.(Function); ok {
		return fn, nil
	}
	return nil, typeIssue(path, TypeFunction, value)
}

// LiteralSchema accepts exactly one value.
type LiteralSchema struct {
	value any
}

// Literal returns a validator that accepts only v. Numbers compare by value
// regardless of their Go type.
func Literal(v any) *LiteralSchema {
	return &LiteralSchema{value: v}
}

func (s *LiteralSchema) Check(_ context.Context, value any, path Path) (any, []Issue) {
	if equalValues(s.value, value) {
		return s.value, nil
	}
	return nil, []Issue{{
		Code:    CodeInvalidLiteral,
		Path:    path,
		Options: []any{s.value},
		Value:   value,
	}}
}

// EnumSchema accepts one of a fixed set of strings.
type EnumSchema struct {
	values []string
}

// Enum returns a validator that accepts one of values.
func Enum(values ...string) *EnumSchema {
	return &EnumSchema{values: append([]string(nil), values...)}
}

// Values returns the accepted values.
func (s *EnumSchema) Values() []string {
	return append([]string(nil), s.values...)
}

func (s *EnumSchema) Check(_ context.Context, value any, path Path) (any, []Issue) {
	opts := make([]any, len(s.values))
	for i, v := range s.values {
		opts[i] = v
	}

	str, ok := value.(string)
	if !ok {
		return nil, []Issue{{
			Code:     CodeInvalidType,
			Path:     path,
			Expected: joinOptions(opts),
			Received: TypeOf(value),
		}}
	}
	for _, v := range s.values {
		if v == str {
			return str, nil
		}
	}
	return nil, []Issue{{
		Code:    CodeInvalidEnumValue,
		Path:    path,
		Options: opts,
		Value:   str,
	}}
}

func equalValues(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if IsUndefined(a) || IsUndefined(b) {
		return IsUndefined(a) && IsUndefined(b)
	}
	return reflect.DeepEqual(a, b)
}
