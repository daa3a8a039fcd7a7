package schema

import (
	"context"
	"slices"
	"sort"
)

// ArraySchema accepts lists whose items all pass the item validator.
type ArraySchema struct {
	items  Validator
	bounds bounds
}

// Array returns a validator for lists of items.
func Array(items Validator) *ArraySchema {
	return &ArraySchema{items: items}
}

// Min requires at least n items.
func (s *ArraySchema) Min(n int) *ArraySchema {
	return &ArraySchema{items: s.items, bounds: s.bounds.withMin(float64(n))}
}

// Max allows at most n items.
func (s *ArraySchema) Max(n int) *ArraySchema {
	return &ArraySchema{items: s.items, bounds: s.bounds.withMax(float64(n))}
}

// Items returns the item validator.
func (s *ArraySchema) Items() Validator {
	return s.items
}

func (s *ArraySchema) Check(ctx context.Context, value any, path Path) (any, []Issue) {
	list, ok := toSlice(value)
	if !ok {
		return nil, typeIssue(path, TypeArray, value)
	}
	if issues := s.bounds.check(path, TypeArray, float64(len(list))); len(issues) > 0 {
		return nil, issues
	}

	out := make([]any, len(list))
	var issues []Issue
	for i, item := range list {
		v, iss := s.items.Check(ctx, item, path.Append(i))
		if len(iss) > 0 {
			issues = append(issues, iss...)
			continue
		}
		out[i] = v
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

type unknownKeys int

const (
	unknownStrip unknownKeys = iota
	unknownStrict
	unknownPassthrough
)

// ObjectSchema accepts string-keyed maps with a known set of fields.
type ObjectSchema struct {
	fields  map[string]Validator
	keys    []string
	unknown unknownKeys
}

// Object returns a validator for maps with the given fields. Fields are
// checked in sorted key order.
func Object(fields map[string]Validator) *ObjectSchema {
	keys := make([]string, 0, len(fields))
	copied := make(map[string]Validator, len(fields))
	for k, v := range fields {
		keys = append(keys, k)
		copied[k] = v
	}
	sort.Strings(keys)
	return &ObjectSchema{fields: copied, keys: keys}
}

// Strict reports unknown keys as an unrecognized_keys issue.
func (s *ObjectSchema) Strict() *ObjectSchema {
	return &ObjectSchema{fields: s.fields, keys: s.keys, unknown: unknownStrict}
}

// Passthrough copies unknown keys into the output unchanged.
func (s *ObjectSchema) Passthrough() *ObjectSchema {
	return &ObjectSchema{fields: s.fields, keys: s.keys, unknown: unknownPassthrough}
}

// Keys returns the field names in check order.
func (s *ObjectSchema) Keys() []string {
	return slices.Clone(s.keys)
}

// Field returns the validator for a field.
func (s *ObjectSchema) Field(name string) (Validator, bool) {
	v, ok := s.fields[name]
	return v, ok
}

func (s *ObjectSchema) Check(ctx context.Context, value any, path Path) (any, []Issue) {
	in, ok := toMap(value)
	if !ok {
		return nil, typeIssue(path, TypeObject, value)
	}

	out := make(map[string]any, len(in))
	var issues []Issue
	for _, key := range s.keys {
		fieldValue, present := in[key]
		if !present {
			fieldValue = Undefined
		}
		v, iss := s.fields[key].Check(ctx, fieldValue, path.Append(key))
		if len(iss) > 0 {
			issues = append(issues, iss...)
			continue
		}
		if !IsUndefined(v) {
			out[key] = v
		}
	}

	if s.unknown != unknownStrip {
		var extra []string
		for key := range in {
			if _, known := s.fields[key]; !known {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)

		switch {
		case s.unknown == unknownPassthrough:
			for _, key := range extra {
				out[key] = in[key]
			}
		case len(extra) > 0:
			issues = append(issues, Issue{Code: CodeUnrecognizedKeys, Path: path, Keys: extra})
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}

// RecordSchema accepts string-keyed maps whose values all pass one validator.
type RecordSchema struct {
	values Validator
}

// Record returns a validator for maps with arbitrary keys.
func Record(values Validator) *RecordSchema {
	return &RecordSchema{values: values}
}

func (s *RecordSchema) Check(ctx context.Context, value any, path Path) (any, []Issue) {
	in, ok := toMap(value)
	if !ok {
		return nil, typeIssue(path, TypeObject, value)
	}

	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(in))
	var issues []Issue
	for _, key := range keys {
		v, iss := s.values.Check(ctx, in[key], path.Append(key))
		if len(iss) > 0 {
			issues = append(issues, iss...)
			continue
		}
		if !IsUndefined(v) {
			out[key] = v
		}
	}
	if len(issues) > 0 {
		return nil, issues
	}
	return out, nil
}
