package watch

import (
	"github.com/fsnotify/fsnotify"

	"github.com/thoreinstein/quill/internal/errors"
)

// FSNotifySource is a Source backed by fsnotify. It watches a single
// directory without recursing.
type FSNotifySource struct {
	watcher *fsnotify.Watcher
}

// NewFSNotifySource starts watching dir.
func NewFSNotifySource(dir string) (*FSNotifySource, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating file watcher")
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, errors.Wrapf(err, "watching %s", dir)
	}
	return &FSNotifySource{watcher: w}, nil
}

// Events returns the fsnotify event channel.
func (s *FSNotifySource) Events() <-chan fsnotify.Event { return s.watcher.Events }

// Errors returns the fsnotify error channel.
func (s *FSNotifySource) Errors() <-chan error { return s.watcher.Errors }

// Close stops watching.
func (s *FSNotifySource) Close() error { return s.watcher.Close() }
