package content

import (
	"context"

	"github.com/thoreinstein/quill/internal/schema"
)

// Entry is one content file of a collection.
type Entry struct {
	// ID is the file path relative to the collection directory.
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	// Slug is the default slug derived from ID.
	Slug     string         `json:"slug"`
	Data     map[string]any `json:"data"`
	Body     string         `json:"body"`
	Internal EntryInternal  `json:"-"`
}

// EntryInternal holds source details used for error reporting.
type EntryInternal struct {
	// RawData is the frontmatter text including its delimiters.
	RawData string
	// FilePath is the entry's path on disk.
	FilePath string
}

// SlugInput is passed to a collection's slug function.
type SlugInput struct {
	ID          string
	Data        map[string]any
	DefaultSlug string
	Collection  string
	Body        string
}

// SlugFunc computes an entry slug.
type SlugFunc func(ctx context.Context, input SlugInput) (string, error)

// CollectionConfig is the declaration of one collection.
type CollectionConfig struct {
	// Schema validates entry data. Nil accepts any data unchanged.
	Schema schema.Validator
	// Slug overrides the default slug when set.
	Slug SlugFunc
}

// ContentConfig is a validated content config.
type ContentConfig struct {
	Collections map[string]CollectionConfig
	// Path is the config file the collections were loaded from.
	Path string
}

// Location is a position in a source file.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}
