// Package content loads a project's content config and validates entries
// against it.
//
// # Loading
//
// [LoadConfig] finds content.config.<ext> in the project root, executes it
// in a runtime scoped to the call and validates the exported shape. The
// result is always one of a [*ContentConfig], a [*NotFoundError] or a
// [*SchemaParseError]:
//
//	cfg, err := content.LoadConfig(ctx, content.LoadOptions{Settings: settings})
//	var notFound *content.NotFoundError
//	switch {
//	case errors.As(err, &notFound):
//		// no usable config
//	case err != nil:
//		// config has the wrong shape
//	}
//
// A config that fails to execute is reported as not found. The underlying
// failure is logged at debug level and kept in [NotFoundError.Cause].
//
// # Entries
//
// [GetEntryData] validates an entry's data against its collection schema and
// reports the first failure with the file and frontmatter line of the
// offending field. [GetEntrySlug] applies the collection's slug function.
//
// # Observing reloads
//
// An [Observable] holds the current [Ctx] (loading, loaded or error) and
// notifies listeners synchronously, in registration order, on every Set.
package content
