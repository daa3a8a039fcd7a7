package paths

import (
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/thoreinstein/quill/internal/errors"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "quill"

// ConfigBasename is the name of the content config file without extension.
const ConfigBasename = "content.config"

// ConfigExtensions lists the accepted config extensions in priority order.
// The script formats come first; Lua and the data formats follow.
var ConfigExtensions = []string{".ts", ".js", ".mjs", ".lua", ".yaml", ".yml", ".toml", ".json"}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents on fs.
// If perm is 0, DefaultDirPerm is used.
func EnsureDir(fs billy.Filesystem, path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return fs.MkdirAll(path, perm)
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// UserConfigDir returns <ConfigHome>/quill/.
func UserConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// GeneratedInputDir returns <DataHome>/quill/templates/.
func GeneratedInputDir() string {
	return filepath.Join(DataHome(), AppName, "templates")
}

// Options configures ContentPaths.
type Options struct {
	// RootDir is the project root. Relative paths resolve against the
	// working directory.
	RootDir string
	// SrcDir is the source directory. Relative paths resolve against RootDir.
	SrcDir string
	// FS is searched for the config file. Defaults to the host filesystem
	// rooted at "/".
	FS billy.Filesystem
}

// Paths holds the resolved content locations.
type Paths struct {
	ContentDir        *url.URL
	CacheDir          *url.URL
	GeneratedInputDir *url.URL
	// Config is nil when the project has no content config.
	Config *url.URL
}

// ConfigFile returns the config file path, or "" when there is none.
func (p *Paths) ConfigFile() string {
	if p == nil || p.Config == nil {
		return ""
	}
	return URLPath(p.Config)
}

// ContentPaths resolves the content locations for a project.
func ContentPaths(opts Options) (*Paths, error) {
	if opts.RootDir == "" {
		return nil, errors.Wrap(ErrInvalidPath, "root directory is empty")
	}

	root, err := filepath.Abs(opts.RootDir)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPath, "resolving root %q: %v", opts.RootDir, err)
	}

	src := opts.SrcDir
	if src == "" {
		src = root
	} else if !filepath.IsAbs(src) {
		src = filepath.Join(root, src)
	}

	fs := opts.FS
	if fs == nil {
		fs = osfs.New("/")
	}

	config, err := findConfig(fs, root)
	if err != nil {
		return nil, err
	}

	p := &Paths{
		ContentDir:        DirURL(filepath.Join(src, "content")),
		CacheDir:          DirURL(root),
		GeneratedInputDir: DirURL(GeneratedInputDir()),
	}
	if config != "" {
		p.Config = FileURL(config)
	}
	return p, nil
}

// findConfig returns the highest priority content.config file directly
// inside root, or "" when none exists.
func findConfig(fs billy.Filesystem, root string) (string, error) {
	pattern := filepath.Join(escapeGlob(root), ConfigBasename+".*")
	matches, err := util.Glob(fs, pattern)
	if err != nil {
		return "", errors.Wrapf(err, "searching %s for %s", root, ConfigBasename)
	}

	best, bestRank := "", len(ConfigExtensions)
	for _, m := range matches {
		rank := slices.Index(ConfigExtensions, filepath.Ext(m))
		if rank < 0 || rank >= bestRank {
			continue
		}
		if strings.TrimSuffix(filepath.Base(m), filepath.Ext(m)) != ConfigBasename {
			continue
		}
		if fi, err := fs.Stat(m); err != nil || fi.IsDir() {
			continue
		}
		best, bestRank = m, rank
	}
	return best, nil
}

func escapeGlob(path string) string {
	if !strings.ContainsAny(path, "*?[") {
		return path
	}
	var sb strings.Builder
	for _, r := range path {
		switch r {
		case '*', '?', '[', '\\':
			if filepath.Separator != '\\' {
				sb.WriteByte('\\')
			}
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// DirURL returns a file:// URL for a directory, with a trailing slash.
func DirURL(dir string) *url.URL {
	p := filepath.ToSlash(filepath.Clean(dir))
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return &url.URL{Scheme: "file", Path: withLeadingSlash(p)}
}

// FileURL returns a file:// URL for a file.
func FileURL(file string) *url.URL {
	return &url.URL{Scheme: "file", Path: withLeadingSlash(filepath.ToSlash(filepath.Clean(file)))}
}

// URLPath converts a file:// URL back into a filesystem path.
func URLPath(u *url.URL) string {
	p := u.Path
	if filepath.Separator == '\\' {
		p = strings.TrimPrefix(p, "/")
	}
	return filepath.FromSlash(p)
}

func withLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}
