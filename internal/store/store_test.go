package store

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/logging"
)

func sampleResults() []*collection.Result {
	return []*collection.Result{
		{
			Collection: "blog",
			Declared:   true,
			Entries: []collection.ProcessedEntry{
				{
					ID:         "hello.md",
					Collection: "blog",
					Slug:       "hello",
					Type:       collection.TypeContent,
					Data:       map[string]any{"title": "Hello", "tags": []any{"go"}},
					Body:       "Hi there\n",
					FilePath:   "/site/src/content/blog/hello.md",
				},
			},
			Failures: []*collection.Failure{{Collection: "blog", EntryID: "bad.md", Err: errors.New("boom")}},
		},
		{Collection: "empty", Declared: false},
	}
}

func TestNewDocument(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	doc := NewDocument("/site/content.config.lua", sampleResults(), now)

	assert.Equal(t, Version, doc.Version)
	assert.Equal(t, time.UTC, doc.GeneratedAt.Location())
	assert.Equal(t, []string{"blog", "empty"}, doc.Names())
	require.Len(t, doc.Collections["blog"].Entries, 1)
	assert.NotNil(t, doc.Collections["empty"].Entries)
	assert.False(t, doc.Collections["empty"].Declared)
}

func TestDocument_Entry(t *testing.T) {
	doc := NewDocument("", sampleResults(), time.Now())

	byID, ok := doc.Entry("blog", "hello.md")
	require.True(t, ok)
	assert.Equal(t, "hello", byID.Slug)

	bySlug, ok := doc.Entry("blog", "hello")
	require.True(t, ok)
	assert.Equal(t, byID, bySlug)

	_, ok = doc.Entry("blog", "missing")
	assert.False(t, ok)
	_, ok = doc.Entry("nope", "hello")
	assert.False(t, ok)
}

func TestStore_WriteRead(t *testing.T) {
	fs := memfs.New()
	s := New(fs, "/site", logging.ForTest(t))
	assert.Equal(t, "/site/.quill/data-store.json", s.Path())

	doc := NewDocument("/site/content.config.lua", sampleResults(), time.Now())
	require.NoError(t, s.Write(doc))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Equal(t, doc.Config, got.Config)
	assert.True(t, doc.GeneratedAt.Equal(got.GeneratedAt))
	assert.Equal(t, doc.Names(), got.Names())

	hello, ok := got.Entry("blog", "hello")
	require.True(t, ok)
	assert.Equal(t, "Hello", hello.Data["title"])
	assert.Equal(t, []any{"go"}, hello.Data["tags"])
	assert.Equal(t, collection.TypeContent, hello.Type)
	assert.Equal(t, "Hi there\n", hello.Body)
}

func TestStore_WriteReplaces(t *testing.T) {
	fs := memfs.New()
	s := New(fs, "/site", nil)

	require.NoError(t, s.Write(NewDocument("", sampleResults(), time.Now())))
	require.NoError(t, s.Write(NewDocument("", nil, time.Now())))

	got, err := s.Read()
	require.NoError(t, err)
	assert.Empty(t, got.Names())
}

func TestStore_ReadMissing(t *testing.T) {
	_, err := New(memfs.New(), "/site", nil).Read()
	require.ErrorIs(t, err, ErrNoStore)
}

func TestStore_ReadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed", "{not json", "parsing data store"},
		{"wrong version", `{"version": 99, "collections": {}}`, "version 99 is not supported"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := memfs.New()
			s := New(fs, "/site", nil)
			require.NoError(t, util.WriteFile(fs, s.Path(), []byte(tt.content), 0o644))

			_, err := s.Read()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tt.wantErr), "error %q should contain %q", err, tt.wantErr)
		})
	}
}

func TestStore_ReadNullCollections(t *testing.T) {
	fs := memfs.New()
	s := New(fs, "/site", nil)
	require.NoError(t, util.WriteFile(fs, s.Path(), []byte(`{"version": 1}`), 0o644))

	got, err := s.Read()
	require.NoError(t, err)
	assert.NotNil(t, got.Collections)
}
