package config

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/thoreinstein/quill/internal/errors"
)

// MaxDebounce is the longest accepted watch debounce.
const MaxDebounce = time.Minute

// Validation errors for configuration fields.
var (
	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidDebounce indicates the watch debounce is out of range.
	ErrInvalidDebounce = errors.New("watch.debounce must be between 0 and 1m")
)

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if err := validatePath(cfg.RootDir); err != nil {
		errs = append(errs, &PathError{Field: "root_dir", Path: cfg.RootDir, Err: err})
	}

	if err := validatePath(cfg.SrcDir); err != nil {
		errs = append(errs, &PathError{Field: "src_dir", Path: cfg.SrcDir, Err: err})
	}

	if cfg.Watch.Debounce < 0 || cfg.Watch.Debounce > MaxDebounce {
		errs = append(errs, ErrInvalidDebounce)
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	if path == "" {
		return ErrInvalidPath
	}

	// Null bytes are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	if filepath.Clean(path) == "" {
		return ErrInvalidPath
	}

	return nil
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Is matches ErrInvalidConfig so callers can map any field error to a
// configuration failure.
func (e *PathError) Is(target error) bool {
	return target == errors.ErrInvalidConfig
}
