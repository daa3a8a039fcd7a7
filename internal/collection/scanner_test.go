package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	qerrors "github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
)

const contentDir = "/site/src/content"

// createTestContent writes files relative to the content directory.
func createTestContent(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(contentDir, 0o755))
	for name, body := range files {
		require.NoError(t, util.WriteFile(fs, contentDir+"/"+name, []byte(body), 0o644))
	}
	return fs
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		typ  EntryType
		ok   bool
	}{
		{"post.md", TypeContent, true},
		{"post.MDX", TypeContent, true},
		{"post.markdown", TypeContent, true},
		{"author.yaml", TypeData, true},
		{"author.yml", TypeData, true},
		{"author.json", TypeData, true},
		{"image.png", "", false},
		{"README", "", false},
	}

	for _, tt := range tests {
		typ, ok := TypeOf(tt.name)
		if typ != tt.typ || ok != tt.ok {
			t.Errorf("TypeOf(%q) = (%q, %v), want (%q, %v)", tt.name, typ, ok, tt.typ, tt.ok)
		}
	}
}

func TestScanner_Collections(t *testing.T) {
	fs := createTestContent(t, map[string]string{
		"blog/a.md":       "# a",
		"authors/b.yaml":  "name: b",
		"_drafts/c.md":    "# c",
		".hidden/d.md":    "# d",
		"loose-file.md":   "# not a collection",
	})

	names, err := NewScanner(fs).Collections(contentDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"authors", "blog"}, names)
}

func TestScanner_CollectionsMissingDir(t *testing.T) {
	names, err := NewScanner(memfs.New()).Collections("/nowhere")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestScanner_ScanCollection(t *testing.T) {
	fs := createTestContent(t, map[string]string{
		"blog/first-post.md":         "---\ntitle: First\n---\nHello\n",
		"blog/Nested/Second Post.md": "+++\ntitle = \"Second\"\n+++\nBody\n",
		"blog/guides/index.mdx":      "no frontmatter at all",
		"blog/_draft.md":             "---\ntitle: Draft\n---\n",
		"blog/_partials/inc.md":      "---\ntitle: Inc\n---\n",
		"blog/.DS_Store":             "junk",
		"blog/cover.png":             "png",
		"blog/broken.md":             "---\ntitle: [unclosed\n---\n",
	})

	scan, err := NewScannerWithLogger(fs, logging.ForTest(t)).ScanCollection(context.Background(), contentDir, "blog")
	require.NoError(t, err)

	ids := make([]string, 0, len(scan.Entries))
	for _, e := range scan.Entries {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"Nested/Second Post.md", "first-post.md", "guides/index.mdx"}, ids)

	second := scan.Entries[0]
	assert.Equal(t, "blog", second.Collection)
	assert.Equal(t, "nested/second-post", second.Slug)
	assert.Equal(t, map[string]any{"title": "Second"}, second.Data)
	assert.Equal(t, "Body\n", second.Body)
	assert.Equal(t, "+++\ntitle = \"Second\"\n+++", second.Internal.RawData)
	assert.Equal(t, contentDir+"/blog/Nested/Second Post.md", second.Internal.FilePath)

	index := scan.Entries[2]
	assert.Equal(t, "guides", index.Slug)
	assert.Empty(t, index.Data)
	assert.Equal(t, "no frontmatter at all", index.Body)

	require.Len(t, scan.Failures, 1)
	assert.Equal(t, "broken.md", scan.Failures[0].EntryID)
	assert.True(t, errors.Is(scan.Failures[0], qerrors.ErrFrontmatterSyntax))
}

func TestScanner_DataEntries(t *testing.T) {
	fs := createTestContent(t, map[string]string{
		"authors/jane.yaml": "name: Jane\nsocial:\n  site: https://jane.dev\n",
		"authors/john.json": `{"name": "John", "age": 40}`,
		"authors/bad.yml":   "- just\n- a list\n",
	})

	scan, err := NewScanner(fs).ScanCollection(context.Background(), contentDir, "authors")
	require.NoError(t, err)
	require.Len(t, scan.Entries, 2)

	jane := scan.Entries[0]
	assert.Equal(t, "jane.yaml", jane.ID)
	assert.Equal(t, "authors/jane", jane.Collection+"/"+jane.Slug)
	assert.Equal(t, "Jane", jane.Data["name"])
	assert.Empty(t, jane.Body)

	john := scan.Entries[1]
	assert.Equal(t, 40, john.Data["age"])

	require.Len(t, scan.Failures, 1)
	assert.Equal(t, "bad.yml", scan.Failures[0].EntryID)
	assert.Contains(t, scan.Failures[0].Error(), "parsing data entry")
}

func TestScanner_MissingCollectionIsEmpty(t *testing.T) {
	fs := createTestContent(t, nil)

	scan, err := NewScanner(fs).ScanCollection(context.Background(), contentDir, "ghost")
	require.NoError(t, err)
	assert.Empty(t, scan.Entries)
	assert.Empty(t, scan.Failures)
}

func TestScanner_CanceledContext(t *testing.T) {
	fs := createTestContent(t, map[string]string{"blog/a.md": "# a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(fs).ScanCollection(ctx, contentDir, "blog")
	require.ErrorIs(t, err, context.Canceled)
}

func TestScanner_ScanAllKeepsOrder(t *testing.T) {
	files := map[string]string{}
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, n := range names {
		files[n+"/entry.md"] = "---\ntitle: " + n + "\n---\n"
	}
	fs := createTestContent(t, files)

	scans, err := NewScanner(fs).ScanAll(context.Background(), contentDir, names)
	require.NoError(t, err)
	require.Len(t, scans, len(names))
	for i, scan := range scans {
		assert.Equal(t, names[i], scan.Collection)
		require.Len(t, scan.Entries, 1)
		assert.Equal(t, names[i], scan.Entries[0].Data["title"])
	}
}

func TestScanner_ScanAllEmpty(t *testing.T) {
	scans, err := NewScanner(memfs.New()).ScanAll(context.Background(), contentDir, nil)
	require.NoError(t, err)
	assert.Nil(t, scans)
}
