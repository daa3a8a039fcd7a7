package scaffold

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/config"
	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/paths"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
}

func initOpts(fs billy.Filesystem, format string) Options {
	return Options{
		FS:          fs,
		RootDir:     "/site",
		SrcDir:      "src",
		Format:      format,
		TemplateDir: "/home/user/.local/share/quill/templates",
		Now:         fixedNow,
	}
}

// checkProject loads the generated config and validates the sample entry.
func checkProject(t *testing.T, fs billy.Filesystem) []*collection.Result {
	t.Helper()
	settings := config.Default()
	settings.RootDir = "/site"

	cfg, err := content.LoadConfig(context.Background(), content.LoadOptions{FS: fs, Settings: settings})
	require.NoError(t, err)

	results, err := collection.Build(context.Background(), collection.NewScanner(fs), cfg, "/site/src/content", nil)
	require.NoError(t, err)
	return results
}

func TestInit(t *testing.T) {
	for _, format := range Formats {
		t.Run(format, func(t *testing.T) {
			fs := memfs.New()

			written, err := Init(initOpts(fs, format))
			require.NoError(t, err)
			assert.Equal(t, []string{
				"/site/content.config." + format,
				"/site/src/content/blog/hello-world.md",
			}, written)

			results := checkProject(t, fs)
			require.Len(t, results, 1)
			blog := results[0]
			require.True(t, blog.OK(), "failures: %v", blog.Failures)
			require.Len(t, blog.Entries, 1)

			entry := blog.Entries[0]
			assert.Equal(t, "hello-world", entry.Slug)
			assert.Equal(t, "Hello, world", entry.Data["title"])
			assert.Equal(t, false, entry.Data["draft"])
			assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), entry.Data["pubDate"])
		})
	}
}

func TestInit_MaterializesTemplates(t *testing.T) {
	fs := memfs.New()
	opts := initOpts(fs, FormatLua)

	_, err := Init(opts)
	require.NoError(t, err)

	tmpl, err := util.ReadFile(fs, opts.TemplateDir+"/content.config.lua.tmpl")
	require.NoError(t, err)
	assert.Contains(t, string(tmpl), `["{{ .Collection }}"] = posts`)
}

func TestInit_DefaultFormat(t *testing.T) {
	fs := memfs.New()
	opts := initOpts(fs, "")
	opts.Collection = "docs"

	written, err := Init(opts)
	require.NoError(t, err)
	assert.Equal(t, "/site/content.config.ts", written[0])

	got, err := util.ReadFile(fs, "/site/content.config.ts")
	require.NoError(t, err)
	assert.Contains(t, string(got), `import { defineCollection, z } from "quill:content";`)
	assert.Contains(t, string(got), `"docs": posts,`)

	results := checkProject(t, fs)
	require.Len(t, results, 1)
	assert.Equal(t, "docs", results[0].Collection)
	assert.True(t, results[0].OK(), "failures: %v", results[0].Failures)
}

func TestInit_UserTemplateWins(t *testing.T) {
	fs := memfs.New()
	opts := initOpts(fs, FormatYAML)
	opts.Collection = "notes"
	custom := "collections:\n  {{ .Collection }}: {}\n"
	require.NoError(t, util.WriteFile(fs, opts.TemplateDir+"/content.config.yaml.tmpl", []byte(custom), 0o644))

	_, err := Init(opts)
	require.NoError(t, err)

	got, err := util.ReadFile(fs, "/site/content.config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "collections:\n  notes: {}\n", string(got))
}

func TestInit_ExistingConfig(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/site/content.config.json", []byte(`{"collections": {}}`), 0o644))

	_, err := Init(initOpts(fs, FormatLua))
	require.ErrorIs(t, err, ErrConfigExists)

	opts := initOpts(fs, FormatLua)
	opts.Force = true
	written, err := Init(opts)
	require.NoError(t, err)
	assert.Contains(t, written, "/site/content.config.lua")

	// The JSON config was replaced.
	_, err = fs.Stat("/site/content.config.json")
	assert.True(t, os.IsNotExist(err), "old config should be removed, stat error = %v", err)

	p, err := paths.ContentPaths(paths.Options{RootDir: "/site", SrcDir: "src", FS: fs})
	require.NoError(t, err)
	assert.Equal(t, "/site/content.config.lua", p.ConfigFile())
}

func TestInit_ConvertedFormats(t *testing.T) {
	fs := memfs.New()

	_, err := Init(initOpts(fs, FormatTOML))
	require.NoError(t, err)

	got, err := util.ReadFile(fs, "/site/content.config.toml")
	require.NoError(t, err)
	assert.Contains(t, string(got), "[collections.blog.schema")

	// Conversions render the YAML template, which is materialized once.
	_, err = fs.Stat("/home/user/.local/share/quill/templates/content.config.yaml.tmpl")
	assert.NoError(t, err)
	_, err = fs.Stat("/home/user/.local/share/quill/templates/content.config.toml.tmpl")
	assert.True(t, os.IsNotExist(err))
}

func TestInit_KeepsExistingEntry(t *testing.T) {
	fs := memfs.New()
	entry := "/site/src/content/blog/hello-world.md"
	require.NoError(t, util.WriteFile(fs, entry, []byte("---\ntitle: Mine\npubDate: 2020-01-01\n---\n"), 0o644))

	written, err := Init(initOpts(fs, FormatLua))
	require.NoError(t, err)
	assert.Equal(t, []string{"/site/content.config.lua"}, written)

	got, err := util.ReadFile(fs, entry)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(got), "title: Mine"))
}

func TestInit_Settings(t *testing.T) {
	fs := memfs.New()
	opts := initOpts(fs, FormatLua)
	opts.Settings = config.Default()

	written, err := Init(opts)
	require.NoError(t, err)
	assert.Contains(t, written, "/site/quill.yaml")

	got, err := util.ReadFile(fs, "/site/quill.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(got), "src_dir: src")
}

func TestInit_InvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
		want   string
	}{
		{"format", func(o *Options) { o.Format = "xml" }, "unsupported config format"},
		{"collection", func(o *Options) { o.Collection = "My Posts" }, "invalid collection name"},
		{"filesystem", func(o *Options) { o.FS = nil }, "filesystem is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := initOpts(memfs.New(), FormatLua)
			tt.mutate(&opts)
			_, err := Init(opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
