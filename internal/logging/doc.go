// Package logging provides structured logging for quill using slog.
//
// Loggers come in two flavors: a TTY-friendly text handler that colorizes
// levels and keys when the output supports it, and the standard JSON handler
// for machine consumption. Components in quill accept a *slog.Logger and fall
// back to [NewDiscard] when none is supplied.
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	logger.Info("content config loaded", "path", path, "collections", 3)
//
// Use [ForTest] in tests so log lines show up alongside failures, and
// [NewContext]/[FromContext] to carry a logger through a command's context.
package logging
