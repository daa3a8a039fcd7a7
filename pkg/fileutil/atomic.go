// Package fileutil provides file system utilities including atomic write
// operations over billy filesystems.
package fileutil

import (
	"encoding/json"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-git/go-billy/v5"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/quill/internal/errors"
)

// AtomicWriteFile writes data to a file atomically using a temp file + rename pattern.
// This ensures interrupted writes leave the original file intact.
//
// The caller is responsible for ensuring the parent directory exists.
// The temp file is created with perm, so the final file carries it subject
// to the process umask.
func AtomicWriteFile(fs billy.Filesystem, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if _, err := fs.Stat(dir); err != nil {
		return errors.Wrap(err, "checking parent directory")
	}

	// Create temp file in same directory for atomic rename (same filesystem required)
	tmp, tmpName, err := createTemp(fs, dir, perm)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "writing temp file")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}

	if err := fs.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	renamed = true

	return nil
}

func createTemp(fs billy.Filesystem, dir string, perm os.FileMode) (billy.File, string, error) {
	var lastErr error
	for range 100 {
		name := filepath.Join(dir, ".quill-atomic-"+strconv.FormatUint(uint64(rand.Uint32()), 36)+".tmp")
		f, err := fs.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, name, nil
		}
		if !os.IsExist(err) {
			return nil, "", err
		}
		lastErr = err
	}
	return nil, "", lastErr
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// Uses 2-space indentation and appends a trailing newline for POSIX compliance.
//
// The caller is responsible for ensuring the parent directory exists.
// The file is created with 0644 permissions.
func AtomicWriteJSON(fs billy.Filesystem, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}

	// Add trailing newline for POSIX compliance
	data = append(data, '\n')

	return AtomicWriteFile(fs, path, data, 0o644)
}

// AtomicWriteYAML writes v as YAML to path atomically.
//
// The caller is responsible for ensuring the parent directory exists.
// The file is created with 0644 permissions.
func AtomicWriteYAML(fs billy.Filesystem, path string, v any) (err error) {
	// yaml.Marshal panics on unmarshalable types; recover and return error
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}

	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	return AtomicWriteFile(fs, path, data, 0o644)
}
