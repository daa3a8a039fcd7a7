// Package store persists processed collections as a JSON data store in the
// project cache directory.
package store

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
	"github.com/thoreinstein/quill/internal/paths"
	"github.com/thoreinstein/quill/pkg/fileutil"
)

// Layout of the data store inside the cache directory.
const (
	DirName  = ".quill"
	FileName = "data-store.json"
)

// Version is the data store format version.
const Version = 1

// ErrNoStore indicates the data store has not been written yet.
var ErrNoStore = errors.New("data store not found")

// Document is the serialized data store.
type Document struct {
	Version     int                    `json:"version"`
	GeneratedAt time.Time              `json:"generated_at"`
	Config      string                 `json:"config,omitempty"`
	Collections map[string]*Collection `json:"collections"`
}

// Collection holds the processed entries of one collection.
type Collection struct {
	// Declared is false for directories missing from the content config.
	Declared bool                        `json:"declared"`
	Entries  []collection.ProcessedEntry `json:"entries"`
}

// NewDocument builds a document from processed collections. Failed entries
// are not stored.
func NewDocument(configPath string, results []*collection.Result, now time.Time) *Document {
	doc := &Document{
		Version:     Version,
		GeneratedAt: now.UTC(),
		Config:      configPath,
		Collections: make(map[string]*Collection, len(results)),
	}
	for _, r := range results {
		entries := r.Entries
		if entries == nil {
			entries = []collection.ProcessedEntry{}
		}
		doc.Collections[r.Collection] = &Collection{Declared: r.Declared, Entries: entries}
	}
	return doc
}

// Names returns the collection names in lexical order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Collections))
	for name := range d.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Entry finds an entry of a collection by ID or slug.
func (d *Document) Entry(coll, key string) (*collection.ProcessedEntry, bool) {
	c, ok := d.Collections[coll]
	if !ok {
		return nil, false
	}
	for i := range c.Entries {
		if c.Entries[i].ID == key || c.Entries[i].Slug == key {
			return &c.Entries[i], true
		}
	}
	return nil, false
}

// Store reads and writes the data store of one project.
type Store struct {
	fs     billy.Filesystem
	dir    string
	logger *slog.Logger
}

// New returns a Store rooted at cacheDir.
func New(fs billy.Filesystem, cacheDir string, logger *slog.Logger) *Store {
	return &Store{
		fs:     fs,
		dir:    filepath.Join(cacheDir, DirName),
		logger: logging.OrDiscard(logger),
	}
}

// Path returns the data store file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, FileName)
}

// Write replaces the data store with doc atomically.
func (s *Store) Write(doc *Document) error {
	if err := paths.EnsureDir(s.fs, s.dir, paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating data store directory")
	}
	if err := fileutil.AtomicWriteJSON(s.fs, s.Path(), doc); err != nil {
		return errors.Wrap(err, "writing data store")
	}

	s.logger.Debug("wrote data store",
		"path", s.Path(),
		"collections", len(doc.Collections))
	return nil
}

// Read loads the data store. It returns ErrNoStore when nothing has been
// written yet.
func (s *Store) Read() (*Document, error) {
	data, err := fileutil.ReadFileWithLimit(s.fs, s.Path())
	if err != nil {
		if _, statErr := s.fs.Stat(s.Path()); os.IsNotExist(statErr) {
			return nil, errors.WithHint(ErrNoStore, "run 'quill sync' to generate it")
		}
		return nil, errors.Wrap(err, "reading data store")
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing data store %s", s.Path())
	}
	if doc.Version != Version {
		return nil, errors.WithHint(
			errors.Newf("data store version %d is not supported", doc.Version),
			"run 'quill sync' to regenerate it")
	}
	if doc.Collections == nil {
		doc.Collections = map[string]*Collection{}
	}
	return &doc, nil
}
