package frontmatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/thoreinstein/quill/internal/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantData map[string]any
		wantBody string
		wantRaw  string
		wantKind Kind
	}{
		{
			name: "yaml frontmatter",
			input: `---
title: Hello
tags:
  - go
  - content
---

# Heading
`,
			wantData: map[string]any{
				"title": "Hello",
				"tags":  []any{"go", "content"},
			},
			wantBody: "\n# Heading\n",
			wantRaw:  "---\ntitle: Hello\ntags:\n  - go\n  - content\n---",
			wantKind: KindYAML,
		},
		{
			name:     "toml frontmatter",
			input:    "+++\ntitle = \"Hello\"\ndraft = true\n+++\nBody\n",
			wantData: map[string]any{"title": "Hello", "draft": true},
			wantBody: "Body\n",
			wantRaw:  "+++\ntitle = \"Hello\"\ndraft = true\n+++",
			wantKind: KindTOML,
		},
		{
			name:     "no frontmatter",
			input:    "# Just markdown\n\nNo frontmatter here.",
			wantData: map[string]any{},
			wantBody: "# Just markdown\n\nNo frontmatter here.",
			wantKind: KindNone,
		},
		{
			name:     "empty frontmatter",
			input:    "---\n---\n\nBody content here.\n",
			wantData: map[string]any{},
			wantBody: "\nBody content here.\n",
			wantRaw:  "---\n---",
			wantKind: KindYAML,
		},
		{
			name:     "CRLF line endings",
			input:    "---\r\ntitle: Windows\r\n---\r\nBody\r\n",
			wantData: map[string]any{"title": "Windows"},
			wantBody: "Body\r\n",
			wantRaw:  "---\r\ntitle: Windows\r\n---",
			wantKind: KindYAML,
		},
		{
			name:     "closing delimiter at end of file",
			input:    "---\ntitle: Only\n---",
			wantData: map[string]any{"title": "Only"},
			wantBody: "",
			wantRaw:  "---\ntitle: Only\n---",
			wantKind: KindYAML,
		},
		{
			name:     "delimiter not on first line",
			input:    "\n---\ntitle: x\n---\n",
			wantData: map[string]any{},
			wantBody: "\n---\ntitle: x\n---\n",
			wantKind: KindNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Parse(tt.input, "post.md")
			require.NoError(t, err)
			assert.Equal(t, tt.wantData, res.Data)
			assert.Equal(t, tt.wantBody, res.Content)
			assert.Equal(t, tt.wantRaw, res.Raw)
			assert.Equal(t, tt.wantKind, res.Kind)
		})
	}
}

func TestParse_TOMLDates(t *testing.T) {
	res, err := Parse("+++\npublished = 2024-03-01\n+++\n", "post.md")
	require.NoError(t, err)
	assert.IsType(t, toml.LocalDate{}, res.Data["published"])
}

func TestParse_YAMLSyntaxError(t *testing.T) {
	input := "---\ntitle: ok\nlist: [a, b\n---\nBody\n"

	_, err := Parse(input, "src/content/blog/broken.md")
	require.Error(t, err)

	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Equal(t, "src/content/blog/broken.md", synErr.ID)
	assert.Equal(t, "src/content/blog/broken.md", synErr.Loc.File)
	assert.Greater(t, synErr.Loc.Line, 1, "line should be offset past the opening delimiter")
	assert.Equal(t, 0, synErr.Loc.Column)
	assert.NotEmpty(t, synErr.Message)
	assert.NotContains(t, synErr.Message, "yaml:")

	assert.True(t, errors.Is(err, qerrors.ErrFrontmatterSyntax))
	assert.True(t, errors.Is(err, qerrors.ErrInvalidInput))
}

func TestParse_YAMLSyntaxErrorLine(t *testing.T) {
	// The bad mapping is on line 2 of the block, line 3 of the file.
	input := "---\ntitle: ok\nbad: x: y\n---\nBody\n"

	_, err := Parse(input, "post.md")

	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr), "got %T: %v", err, err)
	assert.Equal(t, 3, synErr.Loc.Line)
	assert.Equal(t, "mapping values are not allowed in this context", synErr.Message)
}

func TestParse_YAMLErrorKeepsQuotedLineText(t *testing.T) {
	_, err := Parse("---\nline 9\n---\n", "post.md")

	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr), "got %T: %v", err, err)
	assert.Equal(t, 2, synErr.Loc.Line)
	assert.True(t, strings.HasPrefix(synErr.Message, "cannot unmarshal"), "message = %q", synErr.Message)
	assert.Contains(t, synErr.Message, "`line 9`")
}

func TestParse_YAMLNotAMapping(t *testing.T) {
	_, err := Parse("---\n- a\n- b\n---\n", "list.md")

	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Equal(t, 2, synErr.Loc.Line)
	assert.Contains(t, synErr.Message, "cannot unmarshal")
}

func TestParse_TOMLSyntaxError(t *testing.T) {
	input := "+++\ntitle = \"ok\"\ndate =\n+++\n"

	_, err := Parse(input, "post.md")

	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Equal(t, 3, synErr.Loc.Line)
	assert.Positive(t, synErr.Loc.Column)
	assert.NotContains(t, synErr.Message, "toml:")
}

func TestParse_Unclosed(t *testing.T) {
	_, err := Parse("---\ntitle: x\nno end\n", "open.md")

	var synErr *SyntaxError
	require.True(t, errors.As(err, &synErr))
	assert.Equal(t, 1, synErr.Loc.Line)
	assert.Contains(t, synErr.Message, "closing")
}

func TestParse_NoCaching(t *testing.T) {
	first, err := Parse("---\ntitle: a\n---\n", "same.md")
	require.NoError(t, err)
	first.Data["title"] = "mutated"

	second, err := Parse("---\ntitle: a\n---\n", "same.md")
	require.NoError(t, err)
	assert.Equal(t, "a", second.Data["title"])
}

func TestRaw(t *testing.T) {
	assert.Equal(t, "---\ntitle: 5\n---", Raw("---\ntitle: 5\n---\nbody"))
	assert.Empty(t, Raw("no frontmatter"))
	assert.Empty(t, Raw("---\nunclosed"))
}

func TestSyntaxError_Error(t *testing.T) {
	err := &SyntaxError{
		ID:      "a.md",
		Loc:     Location{File: "a.md", Line: 3, Column: 7},
		Message: "bad value",
	}
	assert.Equal(t, "a.md:3:7: bad value", err.Error())
}

func TestFormat(t *testing.T) {
	data := map[string]any{
		"title":     "Hello World",
		"published": time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).Format("2006-01-02"),
	}

	for _, kind := range []Kind{KindYAML, KindTOML} {
		t.Run(kind.String(), func(t *testing.T) {
			out, err := Format(kind, data, "Body text")
			require.NoError(t, err)

			res, err := Parse(string(out), "out.md")
			require.NoError(t, err)
			assert.Equal(t, kind, res.Kind)
			assert.Equal(t, "Hello World", res.Data["title"])
			assert.Equal(t, "\nBody text\n", res.Content)
		})
	}

	t.Run("none", func(t *testing.T) {
		out, err := Format(KindNone, data, "just body")
		require.NoError(t, err)
		assert.Equal(t, "just body", string(out))
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "yaml", KindYAML.String())
	assert.Equal(t, "toml", KindTOML.String())
	assert.Equal(t, "none", KindNone.String())
	assert.True(t, strings.HasPrefix(Kind(42).String(), "none"))
}
