package fileutil

import (
	"io"

	"github.com/go-git/go-billy/v5"

	"github.com/thoreinstein/quill/internal/errors"
)

// MaxFileSize is the maximum file size we'll read (4MB).
// This prevents memory exhaustion from unexpectedly large files.
const MaxFileSize = 4 * 1024 * 1024

// ErrFileTooLarge indicates that a file exceeded MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit reads a file up to MaxFileSize.
// It returns an error if the file is larger than the limit.
func ReadFileWithLimit(fs billy.Filesystem, path string) ([]byte, error) {
	// Fail fast if size is already too large
	if info, err := fs.Stat(path); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	r := io.LimitReader(f, MaxFileSize+1)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}

	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	return data, nil
}
