package collection

import (
	"context"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
	"github.com/thoreinstein/quill/pkg/fileutil"
	"github.com/thoreinstein/quill/pkg/frontmatter"
)

// EntryType distinguishes Markdown entries from data entries.
type EntryType string

// Entry type constants.
const (
	TypeContent EntryType = "content"
	TypeData    EntryType = "data"
)

var contentExtensions = map[string]bool{".md": true, ".mdx": true, ".markdown": true}

var dataExtensions = map[string]bool{".yaml": true, ".yml": true, ".json": true}

// TypeOf reports the entry type for a file name and whether it is an entry
// at all.
func TypeOf(name string) (EntryType, bool) {
	ext := strings.ToLower(path.Ext(name))
	switch {
	case contentExtensions[ext]:
		return TypeContent, true
	case dataExtensions[ext]:
		return TypeData, true
	}
	return "", false
}

// Failure records an entry that could not be read or processed.
type Failure struct {
	Collection string
	EntryID    string
	FilePath   string
	Err        error
}

func (f *Failure) Error() string {
	return f.Collection + "/" + f.EntryID + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// Scan is the raw result of scanning one collection directory.
type Scan struct {
	Collection string
	Entries    []content.Entry
	Failures   []*Failure
}

// Scanner reads collection directories from a filesystem.
type Scanner struct {
	fs     billy.Filesystem
	logger *slog.Logger
}

// NewScanner creates a Scanner with a discard logger.
func NewScanner(fs billy.Filesystem) *Scanner {
	return &Scanner{fs: fs, logger: logging.NewDiscard()}
}

// NewScannerWithLogger creates a Scanner with the given logger.
func NewScannerWithLogger(fs billy.Filesystem, logger *slog.Logger) *Scanner {
	return &Scanner{fs: fs, logger: logging.OrDiscard(logger)}
}

// Collections lists the collection directories under contentDir in lexical
// order. A missing content directory has no collections.
func (s *Scanner) Collections(contentDir string) ([]string, error) {
	infos, err := s.fs.ReadDir(contentDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading content directory %s", contentDir)
	}

	var names []string
	for _, info := range infos {
		if info.IsDir() && !ignored(info.Name()) {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ScanCollection reads every entry of one collection. Files that cannot be
// parsed are reported as failures; the error return is reserved for problems
// walking the directory itself.
func (s *Scanner) ScanCollection(ctx context.Context, contentDir, name string) (*Scan, error) {
	dir := filepath.Join(contentDir, name)
	scan := &Scan{Collection: name}

	err := util.Walk(s.fs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			if p == dir && os.IsNotExist(err) {
				return filepath.SkipDir
			}
			if os.IsPermission(err) {
				s.logger.Warn("permission denied reading collection path",
					"collection", name,
					"path", p)
				return nil
			}
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if p != dir && ignored(info.Name()) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		typ, ok := TypeOf(info.Name())
		if !ok {
			s.logger.Debug("skipping non-entry file", "collection", name, "path", p)
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return errors.Wrapf(err, "resolving entry path %s", p)
		}
		id := filepath.ToSlash(rel)

		entry, err := s.readEntry(p, name, id, typ)
		if err != nil {
			s.logger.Debug("failed to read entry",
				"collection", name,
				"entry", id,
				"error", err)
			scan.Failures = append(scan.Failures, &Failure{
				Collection: name,
				EntryID:    id,
				FilePath:   p,
				Err:        err,
			})
			return nil
		}
		scan.Entries = append(scan.Entries, *entry)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "scanning collection %s", name)
	}

	return scan, nil
}

// ScanAll scans the named collections concurrently. Results keep the order
// of names.
func (s *Scanner) ScanAll(ctx context.Context, contentDir string, names []string) ([]*Scan, error) {
	if len(names) == 0 {
		return nil, nil
	}

	// Limit concurrency to GOMAXPROCS or number of collections, whichever is smaller
	workers := min(runtime.GOMAXPROCS(0), len(names))

	type job struct {
		index int
		name  string
	}
	work := make(chan job, len(names))

	scans := make([]*Scan, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range work {
				scans[j.index], errs[j.index] = s.ScanCollection(ctx, contentDir, j.name)
			}
		}()
	}

	for i, name := range names {
		work <- job{index: i, name: name}
	}
	close(work)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scans, nil
}

func (s *Scanner) readEntry(p, collection, id string, typ EntryType) (*content.Entry, error) {
	raw, err := fileutil.ReadFileWithLimit(s.fs, p)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", p)
	}

	entry := &content.Entry{
		ID:         id,
		Collection: collection,
		Slug:       DefaultSlug(id),
		Internal:   content.EntryInternal{FilePath: p},
	}

	if typ == TypeData {
		data := map[string]any{}
		if err := yaml.Unmarshal(raw, &data); err != nil {
			return nil, errors.Wrap(errors.WithHint(err, "data entries must be a single YAML or JSON object"), "parsing data entry")
		}
		entry.Data = data
		entry.Internal.RawData = string(raw)
		return entry, nil
	}

	parsed, err := frontmatter.Parse(string(raw), p)
	if err != nil {
		return nil, err
	}
	entry.Data = parsed.Data
	entry.Body = parsed.Content
	entry.Internal.RawData = parsed.Raw
	return entry, nil
}

func ignored(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")
}
