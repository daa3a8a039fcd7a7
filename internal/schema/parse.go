package schema

import (
	"context"
	"fmt"
	"strings"

	"github.com/thoreinstein/quill/internal/errors"
)

// Result is the outcome of SafeParse.
type Result struct {
	Value  any
	Issues []Issue
}

// OK reports whether validation succeeded.
func (r Result) OK() bool {
	return len(r.Issues) == 0
}

// Option configures SafeParse and Parse.
type Option func(*parseOptions)

type parseOptions struct {
	errorMap ErrorMap
}

// WithErrorMap sets the function that produces issue messages.
func WithErrorMap(m ErrorMap) Option {
	return func(o *parseOptions) {
		o.errorMap = m
	}
}

// SafeParse validates value against v. It never panics: a panic raised by a
// validator or transform is reported as a custom issue at the root path.
func SafeParse(ctx context.Context, v Validator, value any, opts ...Option) (res Result) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}

	defer func() {
		if r := recover(); r != nil {
			res = Result{Issues: []Issue{{
				Code:    CodeCustom,
				Path:    Path{},
				Message: fmt.Sprintf("validation panicked: %v", r),
			}}}
		}
	}()

	out, issues := v.Check(ctx, value, Path{})
	for i := range issues {
		def := DefaultMessage(issues[i])
		if o.errorMap != nil {
			def = o.errorMap(issues[i], def)
		}
		issues[i].Message = def
	}

	if len(issues) > 0 {
		return Result{Issues: issues}
	}
	return Result{Value: out}
}

// ValidationError wraps the issues returned by Parse.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		if len(issue.Path) == 0 {
			lines[i] = issue.Message
			continue
		}
		lines[i] = issue.Path.String() + ": " + issue.Message
	}
	return strings.Join(lines, "\n")
}

// Is matches the invalid-input category.
func (e *ValidationError) Is(target error) bool {
	return target == errors.ErrInvalidInput
}

// Parse is SafeParse returning an error instead of a Result.
func Parse(ctx context.Context, v Validator, value any, opts ...Option) (any, error) {
	res := SafeParse(ctx, v, value, opts...)
	if !res.OK() {
		return nil, &ValidationError{Issues: res.Issues}
	}
	return res.Value, nil
}
