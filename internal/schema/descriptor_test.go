package schema

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromDescriptor_Strings(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		desc  string
		input any
		ok    bool
	}{
		{"string", "x", true},
		{"string", 1, false},
		{"string?", Undefined, true},
		{"string[]", []any{"a", "b"}, true},
		{"string[]", []any{"a", 1}, false},
		{"number[][]", []any{[]any{1, 2}}, true},
		{"integer", 1.5, false},
		{"boolean", true, true},
		{"date", "2024-01-01", true},
		{"any", Undefined, true},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			v, err := FromDescriptor(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.ok, SafeParse(ctx, v, tt.input).OK())
		})
	}
}

func TestFromDescriptor_Maps(t *testing.T) {
	ctx := context.Background()

	t.Run("object with strict", func(t *testing.T) {
		v, err := FromDescriptor(map[string]any{
			"type":   "object",
			"strict": true,
			"fields": map[string]any{"name": "string", "url": "string?"},
		})
		require.NoError(t, err)
		assert.True(t, SafeParse(ctx, v, map[string]any{"name": "a"}).OK())
		assert.False(t, SafeParse(ctx, v, map[string]any{"name": "a", "x": 1}).OK())
	})

	t.Run("enum with default", func(t *testing.T) {
		v, err := FromDescriptor(map[string]any{
			"type":    "enum",
			"values":  []any{"draft", "live"},
			"default": "draft",
		})
		require.NoError(t, err)
		res := SafeParse(ctx, v, Undefined)
		require.True(t, res.OK())
		assert.Equal(t, "draft", res.Value)
	})

	t.Run("bounded string", func(t *testing.T) {
		v, err := FromDescriptor(map[string]any{"type": "string", "min": 2, "max": int64(4)})
		require.NoError(t, err)
		assert.False(t, SafeParse(ctx, v, "a").OK())
		assert.True(t, SafeParse(ctx, v, "abc").OK())
		assert.False(t, SafeParse(ctx, v, "abcde").OK())
	})

	t.Run("nullable int", func(t *testing.T) {
		v, err := FromDescriptor(map[string]any{"type": "number", "int": true, "nullable": true})
		require.NoError(t, err)
		assert.True(t, SafeParse(ctx, v, nil).OK())
		assert.False(t, SafeParse(ctx, v, 1.5).OK())
	})

	t.Run("array and record", func(t *testing.T) {
		v, err := FromDescriptor(map[string]any{
			"type":   "record",
			"values": map[string]any{"type": "array", "items": "string", "min": 1},
		})
		require.NoError(t, err)
		assert.True(t, SafeParse(ctx, v, map[string]any{"a": []any{"x"}}).OK())
		assert.False(t, SafeParse(ctx, v, map[string]any{"a": []any{}}).OK())
	})

	t.Run("literal", func(t *testing.T) {
		v, err := FromDescriptor(map[string]any{"type": "literal", "value": "post"})
		require.NoError(t, err)
		assert.True(t, SafeParse(ctx, v, "post").OK())
	})

	t.Run("optional map", func(t *testing.T) {
		v, err := FromDescriptor(map[string]any{"type": "boolean", "optional": true})
		require.NoError(t, err)
		assert.True(t, SafeParse(ctx, v, Undefined).OK())
	})
}

func TestFromDescriptor_Errors(t *testing.T) {
	tests := []struct {
		name    string
		desc    any
		wantErr string
	}{
		{"unknown type", "strang", `unknown type "strang"`},
		{"missing type", map[string]any{"items": "string"}, `needs a string "type"`},
		{"array without items", map[string]any{"type": "array"}, `needs "items"`},
		{"object without fields", map[string]any{"type": "object"}, `needs a "fields" map`},
		{"empty enum", map[string]any{"type": "enum", "values": []any{}}, "non-empty"},
		{"min on boolean", map[string]any{"type": "boolean", "min": 1}, "min is not supported"},
		{"bad descriptor type", 42, "must be a type name or a map"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDescriptor(tt.desc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestObjectFromDescriptor(t *testing.T) {
	obj, err := ObjectFromDescriptor(map[string]any{
		"title":  "string",
		"author": map[string]any{"type": "object", "fields": map[string]any{"name": "strung"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `schema field "author.name"`)
	assert.Nil(t, obj)

	obj, err = ObjectFromDescriptor(map[string]any{"title": "string", "tags": "string[]?"})
	require.NoError(t, err)
	assert.Equal(t, []string{"tags", "title"}, obj.Keys())
}
