package collection

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/logging"
)

// DuplicateSlugError reports two entries of one collection that resolved to
// the same slug.
type DuplicateSlugError struct {
	Slug  string
	First string
	Entry string
}

func (e *DuplicateSlugError) Error() string {
	return fmt.Sprintf("slug %q is already used by %s", e.Slug, e.First)
}

// Is reports whether target is the duplicate slug sentinel.
func (e *DuplicateSlugError) Is(target error) bool {
	return target == errors.ErrDuplicateSlug || target == errors.ErrInvalidInput
}

// ProcessedEntry is an entry whose data passed the collection schema.
type ProcessedEntry struct {
	ID         string         `json:"id"`
	Collection string         `json:"collection"`
	Slug       string         `json:"slug"`
	Type       EntryType      `json:"type"`
	Data       map[string]any `json:"data"`
	Body       string         `json:"body,omitempty"`
	FilePath   string         `json:"file_path"`
}

// Result is a processed collection.
type Result struct {
	Collection string
	// Declared is false when the collection exists on disk but not in the
	// content config.
	Declared bool
	Entries  []ProcessedEntry
	Failures []*Failure
}

// OK reports whether every entry of the collection was processed.
func (r *Result) OK() bool {
	return len(r.Failures) == 0
}

// Process validates and slugs the entries of one collection. An entry that
// fails either step is reported as a failure and left out of the entries.
// Entries are processed in the order given; the first entry to claim a slug
// keeps it.
func Process(ctx context.Context, name string, cfg content.CollectionConfig, entries []content.Entry) *Result {
	res := &Result{Collection: name, Declared: true}
	owners := make(map[string]string, len(entries))

	for _, entry := range entries {
		fail := func(err error) {
			res.Failures = append(res.Failures, &Failure{
				Collection: name,
				EntryID:    entry.ID,
				FilePath:   entry.Internal.FilePath,
				Err:        err,
			})
		}

		if err := ctx.Err(); err != nil {
			fail(err)
			continue
		}

		data, err := content.GetEntryData(ctx, entry, cfg)
		if err != nil {
			fail(err)
			continue
		}

		// Slug functions see the unvalidated data.
		slug, err := content.GetEntrySlug(ctx, entry, cfg)
		if err != nil {
			fail(err)
			continue
		}

		if first, ok := owners[slug]; ok {
			fail(&DuplicateSlugError{Slug: slug, First: first, Entry: entry.ID})
			continue
		}
		owners[slug] = entry.ID

		typ, _ := TypeOf(entry.ID)
		res.Entries = append(res.Entries, ProcessedEntry{
			ID:         entry.ID,
			Collection: name,
			Slug:       slug,
			Type:       typ,
			Data:       data,
			Body:       entry.Body,
			FilePath:   entry.Internal.FilePath,
		})
	}

	return res
}

// Build scans every collection under contentDir and processes it against
// cfg. Collections declared in cfg but missing on disk produce an empty
// result; directories not declared in cfg are processed without a schema
// and logged as a warning. Results are ordered by collection name.
func Build(ctx context.Context, scanner *Scanner, cfg *content.ContentConfig, contentDir string, logger *slog.Logger) ([]*Result, error) {
	logger = logging.OrDiscard(logger)

	onDisk, err := scanner.Collections(contentDir)
	if err != nil {
		return nil, err
	}

	set := map[string]bool{}
	for _, name := range onDisk {
		set[name] = true
	}
	if cfg != nil {
		for name := range cfg.Collections {
			set[name] = true
		}
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	scans, err := scanner.ScanAll(ctx, contentDir, names)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(scans))
	for _, scan := range scans {
		var (
			collCfg  content.CollectionConfig
			declared bool
		)
		if cfg != nil {
			collCfg, declared = cfg.Collections[scan.Collection]
		}
		if !declared {
			logger.Warn("collection is not defined in the content config",
				"collection", scan.Collection,
				"dir", contentDir)
		}

		res := Process(ctx, scan.Collection, collCfg, scan.Entries)
		res.Declared = declared
		res.Failures = append(scan.Failures, res.Failures...)
		logger.Debug("processed collection",
			"collection", scan.Collection,
			"entries", len(res.Entries),
			"failures", len(res.Failures))
		results = append(results, res)
	}

	return results, nil
}
