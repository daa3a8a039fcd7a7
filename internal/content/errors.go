package content

import (
	"fmt"

	"github.com/thoreinstein/quill/internal/errors"
	"github.com/thoreinstein/quill/internal/schema"
	"github.com/thoreinstein/quill/pkg/frontmatter"
)

// NotFoundError reports that no usable content config exists: either no
// config file was found or executing it failed.
type NotFoundError struct {
	// Path is the config file, or the searched directory when none exists.
	Path string
	// Cause is the execution failure, if any. It is informational only.
	Cause error
}

func (e *NotFoundError) Error() string {
	if e.Path == "" {
		return "content config not found"
	}
	return "content config not found: " + e.Path
}

func (e *NotFoundError) Unwrap() error { return e.Cause }

// Is matches ErrNotFound and the invalid-input category.
func (e *NotFoundError) Is(target error) bool {
	return target == errors.ErrNotFound || target == errors.ErrInvalidInput
}

// SchemaParseError reports a content config with the wrong shape.
type SchemaParseError struct {
	Path    string
	Message string
	Issues  []schema.Issue
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("invalid content config %s: %s", e.Path, e.Message)
}

// Is matches ErrSchemaParse and the invalid-input category.
func (e *SchemaParseError) Is(target error) bool {
	return target == errors.ErrSchemaParse || target == errors.ErrInvalidInput
}

// SchemaValidationError reports entry data that does not satisfy its
// collection schema. Message describes the first issue.
type SchemaValidationError struct {
	Collection string         `json:"collection"`
	EntryID    string         `json:"entryId"`
	Message    string         `json:"message"`
	Field      string         `json:"field"`
	Loc        Location       `json:"location"`
	Issues     []schema.Issue `json:"-"`
}

func (e *SchemaValidationError) Error() string {
	return e.Message
}

// Is matches ErrSchemaValidation and the invalid-input category.
func (e *SchemaValidationError) Is(target error) bool {
	return target == errors.ErrSchemaValidation || target == errors.ErrInvalidInput
}

// FrontmatterSyntaxError reports a malformed frontmatter block.
type FrontmatterSyntaxError = frontmatter.SyntaxError
