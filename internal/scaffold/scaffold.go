// Package scaffold creates a starter content config and sample entry for a
// new project.
//
// Config templates are embedded in the binary and materialized into the
// user's generated input directory on first use, where they can be edited to
// change what later runs produce.
package scaffold

import (
	"bytes"
	"embed"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"text/template"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/paths"
	"github.com/thoreinstein/quill/internal/translate"
	"github.com/thoreinstein/quill/pkg/fileutil"
	"github.com/thoreinstein/quill/pkg/frontmatter"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Supported config formats.
const (
	FormatTS   = "ts"
	FormatLua  = "lua"
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// Formats lists the formats Init can write.
var Formats = []string{FormatTS, FormatLua, FormatYAML, FormatTOML, FormatJSON}

// SettingsFile is the name of the project settings file written with
// Options.Settings.
const SettingsFile = "quill.yaml"

// ErrConfigExists indicates the project already has a content config.
var ErrConfigExists = errors.New("content config already exists")

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Options configures Init.
type Options struct {
	FS billy.Filesystem
	// RootDir and SrcDir locate the project, as in paths.Options.
	RootDir string
	SrcDir  string
	// Format is one of Formats. TOML and JSON configs are converted from
	// the YAML template.
	Format string
	// Collection names the sample collection.
	Collection string
	// TemplateDir holds user-editable templates. Defaults to
	// paths.GeneratedInputDir.
	TemplateDir string
	// Force replaces an existing content config, removing it when it has a
	// different extension.
	Force bool
	// Settings, when non-nil, is written to quill.yaml in the root.
	Settings any
	// Now stamps the sample entry. Defaults to time.Now.
	Now func() time.Time
}

// Init writes the starter files and returns their paths. Existing sample
// entries and settings are left untouched.
func Init(opts Options) ([]string, error) {
	if opts.FS == nil {
		return nil, errors.New("scaffold: filesystem is required")
	}
	if opts.Format == "" {
		opts.Format = FormatTS
	}
	if !slices.Contains(Formats, opts.Format) {
		return nil, errors.Newf("unsupported config format %q (want one of %s)", opts.Format, strings.Join(Formats, ", "))
	}
	if opts.Collection == "" {
		opts.Collection = "blog"
	}
	if !collectionName.MatchString(opts.Collection) {
		return nil, errors.WithHint(
			errors.Newf("invalid collection name %q", opts.Collection),
			"use lowercase letters, digits and underscores, starting with a letter")
	}
	if opts.TemplateDir == "" {
		opts.TemplateDir = paths.GeneratedInputDir()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	p, err := paths.ContentPaths(paths.Options{RootDir: opts.RootDir, SrcDir: opts.SrcDir, FS: opts.FS})
	if err != nil {
		return nil, err
	}
	existing := p.ConfigFile()
	if existing != "" && !opts.Force {
		return nil, errors.WithHint(
			errors.Wrap(ErrConfigExists, existing),
			"pass --force to overwrite it")
	}

	root := paths.URLPath(p.CacheDir)
	var written []string

	rendered, err := renderConfig(opts)
	if err != nil {
		return nil, err
	}

	configPath := filepath.Join(root, paths.ConfigBasename+"."+opts.Format)
	if err := paths.EnsureDir(opts.FS, root, 0); err != nil {
		return nil, errors.Wrap(err, "creating project root")
	}
	if err := fileutil.AtomicWriteFile(opts.FS, configPath, rendered, 0o644); err != nil {
		return nil, errors.Wrap(err, "writing content config")
	}
	written = append(written, configPath)

	if existing != "" && existing != configPath {
		if err := opts.FS.Remove(existing); err != nil {
			return nil, errors.Wrapf(err, "removing replaced config %s", existing)
		}
	}

	entry, err := writeSampleEntry(opts, paths.URLPath(p.ContentDir))
	if err != nil {
		return nil, err
	}
	if entry != "" {
		written = append(written, entry)
	}

	if opts.Settings != nil {
		settingsPath := filepath.Join(root, SettingsFile)
		if !exists(opts.FS, settingsPath) {
			if err := fileutil.AtomicWriteYAML(opts.FS, settingsPath, opts.Settings); err != nil {
				return nil, errors.Wrap(err, "writing settings")
			}
			written = append(written, settingsPath)
		}
	}

	return written, nil
}

// renderConfig executes the config template for opts.Format.
func renderConfig(opts Options) ([]byte, error) {
	source := opts.Format
	if source == FormatTOML || source == FormatJSON {
		source = FormatYAML
	}

	tmpl, err := loadTemplate(opts.FS, opts.TemplateDir, source)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, opts); err != nil {
		return nil, errors.Wrap(err, "rendering content config")
	}

	switch opts.Format {
	case FormatTOML:
		out, err := translate.YAMLToTOML(buf.Bytes())
		return out, errors.Wrap(err, "converting content config to TOML")
	case FormatJSON:
		out, err := translate.YAMLToJSON(buf.Bytes())
		return out, errors.Wrap(err, "converting content config to JSON")
	}
	return buf.Bytes(), nil
}

// loadTemplate prefers a template in dir and otherwise materializes the
// embedded one there. Failing to materialize is not fatal.
func loadTemplate(fs billy.Filesystem, dir, format string) (*template.Template, error) {
	name := paths.ConfigBasename + "." + format + ".tmpl"
	userPath := filepath.Join(dir, name)

	src, err := util.ReadFile(fs, userPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "reading template %s", userPath)
		}
		src, err = templatesFS.ReadFile("templates/" + name)
		if err != nil {
			return nil, errors.Wrapf(err, "reading embedded template %s", name)
		}
		if err := paths.EnsureDir(fs, dir, 0); err == nil {
			_ = fileutil.AtomicWriteFile(fs, userPath, src, 0o644)
		}
	}

	tmpl, err := template.New(name).Option("missingkey=error").Parse(string(src))
	if err != nil {
		return nil, errors.Wrapf(err, "parsing template %s", userPath)
	}
	return tmpl, nil
}

func writeSampleEntry(opts Options, contentDir string) (string, error) {
	dir := filepath.Join(contentDir, opts.Collection)
	path := filepath.Join(dir, "hello-world.md")
	if exists(opts.FS, path) {
		return "", nil
	}

	data := map[string]any{
		"title":   "Hello, world",
		"pubDate": opts.Now().Format("2006-01-02"),
		"tags":    []any{"welcome"},
	}
	body := "Write your first entry here. Run `quill check` to validate it.\n"
	out, err := frontmatter.Format(frontmatter.KindYAML, data, body)
	if err != nil {
		return "", errors.Wrap(err, "formatting sample entry")
	}

	if err := paths.EnsureDir(opts.FS, dir, 0); err != nil {
		return "", errors.Wrap(err, "creating collection directory")
	}
	if err := fileutil.AtomicWriteFile(opts.FS, path, out, 0o644); err != nil {
		return "", errors.Wrap(err, "writing sample entry")
	}
	return path, nil
}

func exists(fs billy.Filesystem, path string) bool {
	_, err := fs.Stat(path)
	return err == nil
}
