package schema

import (
	"context"

	"github.com/thoreinstein/quill/internal/errors"
)

type optional struct {
	inner Validator
}

// Optional accepts an absent value in addition to what inner accepts.
func Optional(inner Validator) Validator {
	return &optional{inner: inner}
}

func (s *optional) Check(ctx context.Context, value any, path Path) (any, []Issue) {
	if IsUndefined(value) {
		return Undefined, nil
	}
	return s.inner.Check(ctx, value, path)
}

type nullable struct {
	inner Validator
}

// Nullable accepts null in addition to what inner accepts.
func Nullable(inner Validator) Validator {
	return &nullable{inner: inner}
}

func (s *nullable) Check(ctx context.Context, value any, path Path) (any, []Issue) {
	if value == nil {
		return nil, nil
	}
	return s.inner.Check(ctx, value, path)
}

type withDefault struct {
	inner Validator
	value any
}

// Default substitutes def for an absent value and checks it with inner.
func Default(inner Validator, def any) Validator {
	return &withDefault{inner: inner, value: def}
}

func (s *withDefault) Check(ctx context.Context, value any, path Path) (any, []Issue) {
	if IsUndefined(value) {
		value = s.value
	}
	return s.inner.Check(ctx, value, path)
}

// TransformFunc maps a validated value to a new one.
type TransformFunc func(ctx context.Context, value any) (any, error)

type transform struct {
	inner Validator
	fn    TransformFunc
}

// Transform runs fn on the output of inner. An error from fn becomes a
// custom issue carrying the error text.
func Transform(inner Validator, fn TransformFunc) Validator {
	return &transform{inner: inner, fn: fn}
}

func (s *transform) Check(ctx context.Context, value any, path Path) (any, []Issue) {
	out, issues := s.inner.Check(ctx, value, path)
	if len(issues) > 0 {
		return nil, issues
	}
	res, err := s.fn(ctx, out)
	if err != nil {
		return nil, []Issue{{Code: CodeCustom, Path: path, Message: err.Error()}}
	}
	return res, nil
}

// WithMin applies a lower bound to a string, number or array validator.
func WithMin(v Validator, n float64) (Validator, error) {
	switch s := v.(type) {
	case *StringSchema:
		return s.Min(int(n)), nil
	case *NumberSchema:
		return s.Min(n), nil
	case *ArraySchema:
		return s.Min(int(n)), nil
	}
	return nil, errors.Newf("min is not supported on %T", v)
}

// WithMax applies an upper bound to a string, number or array validator.
func WithMax(v Validator, n float64) (Validator, error) {
	switch s := v.(type) {
	case *StringSchema:
		return s.Max(int(n)), nil
	case *NumberSchema:
		return s.Max(n), nil
	case *ArraySchema:
		return s.Max(int(n)), nil
	}
	return nil, errors.Newf("max is not supported on %T", v)
}
