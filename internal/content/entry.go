package content

import (
	"context"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/schema"
)

// GetEntryData validates entry.Data against the collection schema and
// returns the parsed data. Without a schema the data is returned unchanged.
//
// On failure it returns a *SchemaValidationError for the first issue,
// located at the frontmatter line of the issue's top-level field.
func GetEntryData(ctx context.Context, entry Entry, collection CollectionConfig) (map[string]any, error) {
	if collection.Schema == nil {
		return entry.Data, nil
	}

	data := entry.Data
	if data == nil {
		data = map[string]any{}
	}

	res := schema.SafeParse(ctx, collection.Schema, data, schema.WithErrorMap(ErrorMap))
	if !res.OK() {
		issue := res.Issues[0]
		line := 0
		if len(issue.Path) > 0 {
			if key, ok := issue.Path[0].(string); ok {
				line = FrontmatterErrorLine(entry.Internal.RawData, key)
			}
		}
		return nil, &SchemaValidationError{
			Collection: entry.Collection,
			EntryID:    entry.ID,
			Message:    issue.Message,
			Field:      issue.Path.String(),
			Loc: Location{
				File: entry.Internal.FilePath,
				Line: line,
			},
			Issues: res.Issues,
		}
	}

	parsed, ok := res.Value.(map[string]any)
	if !ok {
		return nil, &SchemaValidationError{
			Collection: entry.Collection,
			EntryID:    entry.ID,
			Message:    "collection schema must produce an object, got " + schema.TypeOf(res.Value),
			Loc:        Location{File: entry.Internal.FilePath},
		}
	}
	return parsed, nil
}

// GetEntrySlug returns the slug for entry. Without a slug function in the
// collection the entry's default slug is used.
func GetEntrySlug(ctx context.Context, entry Entry, collection CollectionConfig) (string, error) {
	if collection.Slug == nil {
		return entry.Slug, nil
	}

	slug, err := collection.Slug(ctx, SlugInput{
		ID:          entry.ID,
		Data:        entry.Data,
		DefaultSlug: entry.Slug,
		Collection:  entry.Collection,
		Body:        entry.Body,
	})
	if err != nil {
		return "", errors.Wrapf(err, "computing slug for %s/%s", entry.Collection, entry.ID)
	}
	return slug, nil
}

// slugFromFunction adapts a config callable to a SlugFunc. The callable
// receives a single table with id, data, defaultSlug, collection and body;
// default_slug repeats defaultSlug for Lua configs. The returned string is
// used as is.
func slugFromFunction(fn schema.Function) SlugFunc {
	return func(ctx context.Context, in SlugInput) (string, error) {
		out, err := fn(ctx, map[string]any{
			"id":           in.ID,
			"data":         in.Data,
			"defaultSlug":  in.DefaultSlug,
			"default_slug": in.DefaultSlug,
			"collection":   in.Collection,
			"body":         in.Body,
		})
		if err != nil {
			return "", err
		}
		slug, ok := out.(string)
		if !ok {
			return "", errors.Newf("slug function must return a string, got %s", schema.TypeOf(out))
		}
		return slug, nil
	}
}
