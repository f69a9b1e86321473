package adapter

import (
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"

	m "branchgen.dev/pkg/branchgen/internal/model"
)

// Watcher reports files that were written or created under watched directories.
type Watcher interface {
	// Add starts watching a single directory (not recursive).
	Add(dir m.Path) error
	// Events yields changed file paths. It is closed by Close.
	Events() <-chan m.Path
	// Errors yields watcher errors. It is closed by Close.
	Errors() <-chan error
	Close() error
}

type fsWatcher struct {
	watcher *fsnotify.Watcher
	events  chan m.Path
	errors  chan error
	once    sync.Once
	stop    chan struct{}
	done    chan struct{}
}

// NewWatcher returns a Watcher backed by fsnotify.
func NewWatcher() (Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	fw := &fsWatcher{
		watcher: w,
		events:  make(chan m.Path, 16),
		errors:  make(chan error, 1),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go fw.forward()

	return fw, nil
}

func (fw *fsWatcher) Add(dir m.Path) error {
	return fw.watcher.Add(string(dir))
}

func (fw *fsWatcher) Events() <-chan m.Path {
	return fw.events
}

func (fw *fsWatcher) Errors() <-chan error {
	return fw.errors
}

func (fw *fsWatcher) Close() error {
	var err error

	fw.once.Do(func() {
		close(fw.stop)
		err = fw.watcher.Close()
		<-fw.done
	})

	return err
}

func (fw *fsWatcher) forward() {
	defer close(fw.done)
	defer close(fw.events)
	defer close(fw.errors)

	for {
		select {
		case <-fw.stop:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					slog.Debug("Adding watcher for new directory", "dir", event.Name)

					if err := fw.watcher.Add(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
					}

					continue
				}
			}

			select {
			case fw.events <- m.Path(event.Name):
			case <-fw.stop:
				return
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}

			select {
			case fw.errors <- err:
			default:
				slog.Error("Dropped watcher error", "error", err)
			}
		}
	}
}
