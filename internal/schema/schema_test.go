package schema

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/thoreinstein/quill/internal/errors"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, TypeNull},
		{Undefined, TypeUndefined},
		{"x", TypeString},
		{true, TypeBoolean},
		{5, TypeNumber},
		{int64(5), TypeNumber},
		{5.5, TypeNumber},
		{[]any{1}, TypeArray},
		{[]string{"a"}, TypeArray},
		{map[string]any{}, TypeObject},
		{time.Now(), TypeDate},
		{toml.LocalDate{Year: 2024, Month: 1, Day: 1}, TypeDate},
		{Function(func(context.Context, ...any) (any, error) { return nil, nil }), TypeFunction},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.value))
		})
	}
}

func TestPath(t *testing.T) {
	p := Path{"authors"}
	child := p.Append(0).Append("name")

	assert.Equal(t, "authors.0.name", child.String())
	assert.Equal(t, Path{"authors"}, p, "Append must not modify the receiver")
	assert.Empty(t, Path{}.String())
}

func TestPrimitives(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		validator Validator
		input     any
		want      any
		wantMsg   string
	}{
		{name: "string ok", validator: String(), input: "hi", want: "hi"},
		{name: "string wrong type", validator: String(), input: 5, wantMsg: "Expected string, received number"},
		{name: "string required", validator: String(), input: Undefined, wantMsg: "Required"},
		{name: "string null", validator: String(), input: nil, wantMsg: "Expected string, received null"},
		{name: "string min", validator: String().Min(3), input: "ab", wantMsg: "String must contain at least 3 character(s)"},
		{name: "string max counts runes", validator: String().Max(2), input: "日本", want: "日本"},
		{name: "string max", validator: String().Max(2), input: "abc", wantMsg: "String must contain at most 2 character(s)"},
		{name: "number int input", validator: Number(), input: 3, want: 3.0},
		{name: "number min", validator: Number().Min(1), input: 0, wantMsg: "Number must be greater than or equal to 1"},
		{name: "number max", validator: Number().Max(1.5), input: 2, wantMsg: "Number must be less than or equal to 1.5"},
		{name: "integer ok", validator: Integer(), input: 4.0, want: 4.0},
		{name: "integer float", validator: Number().Int(), input: 4.5, wantMsg: "Expected integer, received float"},
		{name: "boolean", validator: Boolean(), input: false, want: false},
		{name: "boolean wrong type", validator: Boolean(), input: "true", wantMsg: "Expected boolean, received string"},
		{name: "any undefined", validator: Any(), input: Undefined, want: Undefined},
		{name: "enum ok", validator: Enum("draft", "live"), input: "live", want: "live"},
		{name: "enum bad", validator: Enum("draft", "live"), input: "gone", wantMsg: "Invalid enum value. Expected 'draft' | 'live', received 'gone'"},
		{name: "enum wrong type", validator: Enum("a"), input: 1, wantMsg: "Expected 'a', received number"},
		{name: "literal ok", validator: Literal("post"), input: "post", want: "post"},
		{name: "literal number", validator: Literal(2), input: 2.0, want: 2},
		{name: "literal bad", validator: Literal("post"), input: "page", wantMsg: `Invalid literal value, expected "post"`},
		{name: "func wrong type", validator: Func(), input: "slug", wantMsg: "Expected function, received string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := SafeParse(ctx, tt.validator, tt.input)
			if tt.wantMsg != "" {
				require.False(t, res.OK())
				assert.Equal(t, tt.wantMsg, res.Issues[0].Message)
				return
			}
			require.True(t, res.OK(), "unexpected issues: %v", res.Issues)
			assert.Equal(t, tt.want, res.Value)
		})
	}
}

func TestDate(t *testing.T) {
	ctx := context.Background()
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("plain date rejects strings", func(t *testing.T) {
		res := SafeParse(ctx, Date(), "2024-03-01")
		require.False(t, res.OK())
		assert.Equal(t, "Expected date, received string", res.Issues[0].Message)
	})

	t.Run("toml local date", func(t *testing.T) {
		res := SafeParse(ctx, Date(), toml.LocalDate{Year: 2024, Month: 3, Day: 1})
		require.True(t, res.OK())
		assert.True(t, want.Equal(res.Value.(time.Time)))
	})

	t.Run("coerce string", func(t *testing.T) {
		res := SafeParse(ctx, CoerceDate(), "2024-03-01")
		require.True(t, res.OK())
		assert.True(t, want.Equal(res.Value.(time.Time)))
	})

	t.Run("coerce RFC3339", func(t *testing.T) {
		res := SafeParse(ctx, CoerceDate(), "2024-03-01T00:00:00Z")
		require.True(t, res.OK())
		assert.True(t, want.Equal(res.Value.(time.Time)))
	})

	t.Run("coerce invalid", func(t *testing.T) {
		res := SafeParse(ctx, CoerceDate(), "yesterday")
		require.False(t, res.OK())
		assert.Equal(t, CodeInvalidDate, res.Issues[0].Code)
		assert.Equal(t, "Invalid date", res.Issues[0].Message)
	})

	t.Run("coerce millis", func(t *testing.T) {
		res := SafeParse(ctx, CoerceDate(), want.UnixMilli())
		require.True(t, res.OK())
		assert.True(t, want.Equal(res.Value.(time.Time)))
	})
}

func TestObject(t *testing.T) {
	ctx := context.Background()
	post := Object(map[string]Validator{
		"title": String(),
		"draft": Default(Boolean(), false),
		"tags":  Optional(Array(String())),
	})

	t.Run("strips unknown keys and applies defaults", func(t *testing.T) {
		res := SafeParse(ctx, post, map[string]any{"title": "Hi", "extra": 1})
		require.True(t, res.OK())
		assert.Equal(t, map[string]any{"title": "Hi", "draft": false}, res.Value)
	})

	t.Run("missing field is required", func(t *testing.T) {
		res := SafeParse(ctx, post, map[string]any{})
		require.Len(t, res.Issues, 1)
		assert.Equal(t, Path{"title"}, res.Issues[0].Path)
		assert.Equal(t, TypeUndefined, res.Issues[0].Received)
		assert.Equal(t, "Required", res.Issues[0].Message)
	})

	t.Run("nested paths", func(t *testing.T) {
		res := SafeParse(ctx, post, map[string]any{"title": "Hi", "tags": []any{"a", 2}})
		require.Len(t, res.Issues, 1)
		assert.Equal(t, "tags.1", res.Issues[0].Path.String())
	})

	t.Run("not an object", func(t *testing.T) {
		res := SafeParse(ctx, post, []any{})
		require.Len(t, res.Issues, 1)
		assert.Equal(t, "Expected object, received array", res.Issues[0].Message)
	})

	t.Run("issues in sorted key order", func(t *testing.T) {
		obj := Object(map[string]Validator{"zeta": String(), "alpha": String()})
		res := SafeParse(ctx, obj, map[string]any{})
		require.Len(t, res.Issues, 2)
		assert.Equal(t, Path{"alpha"}, res.Issues[0].Path)
		assert.Equal(t, Path{"zeta"}, res.Issues[1].Path)
	})

	t.Run("strict", func(t *testing.T) {
		res := SafeParse(ctx, post.Strict(), map[string]any{"title": "Hi", "b": 1, "a": 2})
		require.Len(t, res.Issues, 1)
		assert.Equal(t, CodeUnrecognizedKeys, res.Issues[0].Code)
		assert.Equal(t, []string{"a", "b"}, res.Issues[0].Keys)
		assert.Equal(t, "Unrecognized key(s) in object: 'a', 'b'", res.Issues[0].Message)
	})

	t.Run("passthrough", func(t *testing.T) {
		res := SafeParse(ctx, post.Passthrough(), map[string]any{"title": "Hi", "extra": 1})
		require.True(t, res.OK())
		assert.Equal(t, 1, res.Value.(map[string]any)["extra"])
	})

	t.Run("accessors", func(t *testing.T) {
		assert.Equal(t, []string{"draft", "tags", "title"}, post.Keys())
		_, ok := post.Field("title")
		assert.True(t, ok)
	})
}

func TestRecord(t *testing.T) {
	ctx := context.Background()
	rec := Record(Number())

	res := SafeParse(ctx, rec, map[string]any{"a": 1, "b": "x"})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, Path{"b"}, res.Issues[0].Path)

	res = SafeParse(ctx, rec, map[string]any{"a": 1})
	require.True(t, res.OK())
	assert.Equal(t, map[string]any{"a": 1.0}, res.Value)
}

func TestArrayBounds(t *testing.T) {
	ctx := context.Background()
	res := SafeParse(ctx, Array(String()).Min(1), []any{})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "Array must contain at least 1 element(s)", res.Issues[0].Message)

	res = SafeParse(ctx, Array(String()).Max(1), []string{"a", "b"})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "Array must contain at most 1 element(s)", res.Issues[0].Message)
}

func TestModifiers(t *testing.T) {
	ctx := context.Background()

	t.Run("optional", func(t *testing.T) {
		res := SafeParse(ctx, Optional(String()), Undefined)
		require.True(t, res.OK())
		assert.True(t, IsUndefined(res.Value))

		res = SafeParse(ctx, Optional(String()), nil)
		assert.False(t, res.OK(), "optional does not accept null")
	})

	t.Run("nullable", func(t *testing.T) {
		res := SafeParse(ctx, Nullable(String()), nil)
		require.True(t, res.OK())
		assert.Nil(t, res.Value)

		res = SafeParse(ctx, Nullable(String()), Undefined)
		assert.False(t, res.OK(), "nullable does not accept absent values")
	})

	t.Run("default is validated", func(t *testing.T) {
		res := SafeParse(ctx, Default(String(), 3), Undefined)
		require.False(t, res.OK())
		assert.Equal(t, "Expected string, received number", res.Issues[0].Message)
	})

	t.Run("transform", func(t *testing.T) {
		upper := Transform(String(), func(_ context.Context, v any) (any, error) {
			return v.(string) + "!", nil
		})
		res := SafeParse(ctx, upper, "hi")
		require.True(t, res.OK())
		assert.Equal(t, "hi!", res.Value)
	})

	t.Run("transform skipped on invalid input", func(t *testing.T) {
		called := false
		v := Transform(String(), func(_ context.Context, v any) (any, error) {
			called = true
			return v, nil
		})
		res := SafeParse(ctx, v, 5)
		assert.False(t, res.OK())
		assert.False(t, called)
	})

	t.Run("transform error is custom issue", func(t *testing.T) {
		v := Transform(String(), func(context.Context, any) (any, error) {
			return nil, errors.New("slug taken")
		})
		res := SafeParse(ctx, Object(map[string]Validator{"slug": v}), map[string]any{"slug": "a"})
		require.Len(t, res.Issues, 1)
		assert.Equal(t, CodeCustom, res.Issues[0].Code)
		assert.Equal(t, "slug taken", res.Issues[0].Message)
		assert.Equal(t, Path{"slug"}, res.Issues[0].Path)
	})

	t.Run("WithMin and WithMax", func(t *testing.T) {
		v, err := WithMin(String(), 2)
		require.NoError(t, err)
		assert.False(t, SafeParse(ctx, v, "a").OK())

		v, err = WithMax(Number(), 2)
		require.NoError(t, err)
		assert.False(t, SafeParse(ctx, v, 3).OK())

		_, err = WithMin(Boolean(), 1)
		assert.Error(t, err)
	})
}

func TestSafeParse_ErrorMap(t *testing.T) {
	ctx := context.Background()
	errMap := func(issue Issue, def string) string {
		if issue.Code == CodeInvalidType {
			return issue.Path.String() + " is wrong"
		}
		return def
	}

	res := SafeParse(ctx, Object(map[string]Validator{"title": String().Min(5)}),
		map[string]any{"title": 5}, WithErrorMap(errMap))
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "title is wrong", res.Issues[0].Message)

	res = SafeParse(ctx, String().Min(5), "abc", WithErrorMap(errMap))
	assert.Equal(t, "String must contain at least 5 character(s)", res.Issues[0].Message)
}

type panicky struct{}

func (panicky) Check(context.Context, any, Path) (any, []Issue) {
	panic("boom")
}

func TestSafeParse_RecoversPanics(t *testing.T) {
	res := SafeParse(context.Background(), panicky{}, "x")
	require.Len(t, res.Issues, 1)
	assert.Equal(t, CodeCustom, res.Issues[0].Code)
	assert.Contains(t, res.Issues[0].Message, "boom")
}

func TestParse(t *testing.T) {
	_, err := Parse(context.Background(), Object(map[string]Validator{"title": String()}), map[string]any{})
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "title: Required", vErr.Error())
	assert.True(t, errors.Is(err, qerrors.ErrInvalidInput))

	out, err := Parse(context.Background(), String(), "ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
}
