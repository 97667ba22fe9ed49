// Package fsnotify implements the ports.Watcher interface using
// github.com/fsnotify/fsnotify. It recursively watches a source tree, only
// fires for files the language detector recognizes, and debounces rapid
// events (editors often trigger multiple writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories never watched. Matches the set the discoverer prunes.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"target":       true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	".venv":        true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
	".next":        true,
}

const (
	debounceInterval = 50 * time.Millisecond

	// debouncePruneSize caps the debounce map before stale entries are
	// dropped, so a long watch session over a churning tree stays bounded.
	debouncePruneSize = 256
)

// pruneDebounce removes entries too old to suppress anything. An entry only
// matters within debounceInterval of its timestamp.
func pruneDebounce(m map[string]time.Time, now time.Time) {
	for path, last := range m {
		if now.Sub(last) >= debounceInterval {
			delete(m, path)
		}
	}
}

// Watcher implements ports.Watcher using fsnotify. Only paths the bound
// detector maps to a language reach the callback, so downstream re-parses
// never see editor temp files or build artifacts.
type Watcher struct {
	fw      *fsnotify.Watcher
	detect  func(path string) (string, bool)
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a watcher bound to a language detector.
func NewWatcher(detect func(path string) (string, bool)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:     fw,
		detect: detect,
		done:   make(chan struct{}),
	}, nil
}

// Watch starts monitoring root recursively. onChange is called with the
// absolute path of each changed parseable file until Stop.
func (w *Watcher) Watch(root string, onChange func(path string)) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	err = filepath.Walk(absRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if ignoreDirs[info.Name()] && path != absRoot {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Debounce state: last event time per path.
	debounce := make(map[string]time.Time)

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				path := event.Name

				// New directories join the watch list immediately.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(path); err == nil && info.IsDir() {
						if !ignoreDirs[info.Name()] {
							w.fw.Add(path)
						}
					}
				}

				if !w.relevant(path) {
					continue
				}

				now := time.Now()
				if last, seen := debounce[path]; seen && now.Sub(last) < debounceInterval {
					continue
				}
				debounce[path] = now
				if len(debounce) > debouncePruneSize {
					pruneDebounce(debounce, now)
				}

				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
					event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange(path)
				}

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// fsnotify recovers on its own; nothing useful to surface

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases OS resources. Safe to call twice.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	w.stopped = true
	close(w.done)
	_ = w.fw.Close()
}

// relevant reports whether a changed path should reach the callback: no
// ignored directory on its path and an extension the detector recognizes.
func (w *Watcher) relevant(path string) bool {
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return false
		}
	}
	_, ok := w.detect(path)
	return ok
}
