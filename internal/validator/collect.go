package validator

import (
	"strconv"

	"github.com/thoreinstein/quill/internal/collection"
	"github.com/thoreinstein/quill/internal/content"
	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/pkg/frontmatter"
)

// FromResults builds a report from processed collections. Each failed entry
// becomes an error; collections missing from the content config become
// warnings.
func FromResults(results []*collection.Result) *Result {
	res := &Result{Collections: len(results)}
	for _, r := range results {
		res.Entries += len(r.Entries) + len(r.Failures)
		if !r.Declared {
			res.Add(Issue{
				Severity:   SeverityWarning,
				Collection: r.Collection,
				Message:    "collection is not defined in the content config; entries are not validated",
			})
		}
		for _, f := range r.Failures {
			res.Add(FromFailure(f))
		}
	}
	return res
}

// FromFailure converts a failed entry into an error issue, keeping the most
// precise location the failure carries.
func FromFailure(f *collection.Failure) Issue {
	issue := Issue{
		Severity:   SeverityError,
		Collection: f.Collection,
		Entry:      f.EntryID,
		File:       f.FilePath,
		Message:    f.Err.Error(),
	}

	var (
		schemaErr *content.SchemaValidationError
		syntaxErr *frontmatter.SyntaxError
		dupErr    *collection.DuplicateSlugError
	)
	switch {
	case errors.As(f.Err, &schemaErr):
		issue.Message = schemaErr.Message
		issue.Field = schemaErr.Field
		issue.Line = schemaErr.Loc.Line
		issue.Column = schemaErr.Loc.Column
		if len(schemaErr.Issues) > 1 {
			issue.Context = map[string]string{"more": plural(len(schemaErr.Issues)-1, "issue")}
		}
	case errors.As(f.Err, &syntaxErr):
		issue.Message = "invalid frontmatter: " + syntaxErr.Message
		issue.Line = syntaxErr.Loc.Line
		issue.Column = syntaxErr.Loc.Column
	case errors.As(f.Err, &dupErr):
		issue.Field = "slug"
		issue.Message = dupErr.Error()
		issue.Value = dupErr.Slug
	}
	return issue
}

// FromLoadError converts a content config load failure into an error issue.
func FromLoadError(err error) Issue {
	issue := Issue{Severity: SeverityError, Message: err.Error()}

	var (
		notFound *content.NotFoundError
		parseErr *content.SchemaParseError
	)
	switch {
	case errors.As(err, &notFound):
		issue.File = notFound.Path
		issue.Message = "content config not found"
		if notFound.Cause != nil {
			issue.Context = map[string]string{"cause": notFound.Cause.Error()}
		}
	case errors.As(err, &parseErr):
		issue.File = parseErr.Path
		issue.Message = parseErr.Message
	}
	return issue
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 more " + word
	}
	return strconv.Itoa(n) + " more " + word + "s"
}
