// Package watcher provides file system watching with debouncing for the
// command and association store files.
package watcher

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/opener/internal/log"
)

// Change lists the store files touched during one debounce window, sorted.
type Change struct {
	Paths []string
}

// Has reports whether path is part of the change.
func (c Change) Has(path string) bool {
	_, found := slices.BinarySearch(c.Paths, filepath.Clean(path))
	return found
}

// Watcher monitors a set of store files and reports which of them changed.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	files     map[string]struct{}
	dirs      []string
	debounce  time.Duration
	changes   chan Change
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	Paths       []string
	DebounceDur time.Duration
}

// DefaultConfig returns sensible defaults for the watcher.
func DefaultConfig(paths ...string) Config {
	return Config{
		Paths:       paths,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new store watcher.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("watcher needs at least one path")
	}

	files := make(map[string]struct{}, len(cfg.Paths))
	var dirs []string
	for _, p := range cfg.Paths {
		p = filepath.Clean(p)
		files[p] = struct{}{}
		if dir := filepath.Dir(p); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		files:     files,
		dirs:      dirs,
		debounce:  cfg.DebounceDur,
		changes:   make(chan Change, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directories holding the store files.
// Returns a channel that receives one Change per debounce window.
func (w *Watcher) Start() (<-chan Change, error) {
	// Directories are watched rather than files: saves replace the file by
	// renaming a temporary sibling over it.
	for _, dir := range w.dirs {
		if err := w.fsWatcher.Add(dir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", dir, err)
		}
		log.Debug(log.CatWatcher, "watching directory", "dir", dir)
	}

	go w.loop()

	return w.changes, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop collects relevant events until the store has been quiet for the
// debounce duration, then emits them as one Change. A Change the consumer
// has not picked up yet is never overwritten; new paths wait for the next
// window.
func (w *Watcher) loop() {
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	var (
		fire    <-chan time.Time
		pending = make(map[string]struct{})
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			path, relevant := w.relevantPath(event)
			if !relevant {
				continue
			}
			log.Debug(log.CatWatcher, "store file changed", "path", path, "op", event.Op.String())

			pending[path] = struct{}{}
			timer.Reset(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			change := Change{Paths: slices.Sorted(maps.Keys(pending))}
			select {
			case w.changes <- change:
				clear(pending)
			default:
				log.Debug(log.CatWatcher, "previous change not consumed, deferring", "paths", len(change.Paths))
				timer.Reset(w.debounce)
				fire = timer.C
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			return
		}
	}
}

// relevantPath returns the watched store file an event touched. Removes and
// chmods are ignored; a save shows up as Create or Rename of the target.
func (w *Watcher) relevantPath(event fsnotify.Event) (string, bool) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return "", false
	}
	path := filepath.Clean(event.Name)
	_, ok := w.files[path]
	return path, ok
}
