// Package errors provides error handling conventions for quill.
//
// It wraps [github.com/cockroachdb/errors] so that callers import a single
// errors package, defines the sentinel error kinds shared by the content
// pipeline, and provides [ExitError] for mapping failures to CLI exit codes.
//
// # Error Kinds
//
// Every failure caused by user-authored input belongs to the [ErrInvalidInput]
// category. The concrete kinds are:
//
//   - [ErrNotFound]: no content config exists, or it failed to execute
//   - [ErrSchemaParse]: the content config has the wrong shape
//   - [ErrFrontmatterSyntax]: an entry's frontmatter block is malformed
//   - [ErrSchemaValidation]: an entry's data does not satisfy its schema
//
// Typed errors elsewhere in quill report both their own kind and the
// category through [errors.Is]:
//
//	if errors.Is(err, qerrors.ErrInvalidInput) {
//	    // the user can fix this
//	}
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion:
//
//	err := qerrors.NewUserError(qerrors.ErrNotFound, "Run: quill init")
//	var exitErr *qerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    os.Exit(exitErr.Code)
//	}
package errors
