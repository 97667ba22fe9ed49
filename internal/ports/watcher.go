package ports

// Watcher monitors a directory tree and reports changed files.
// The concrete implementation (fsnotify) lives in internal/adapters/fsnotify.
type Watcher interface {
	// Watch starts monitoring root recursively. onChange is called with the
	// absolute path of each created or modified file until Stop is called.
	Watch(root string, onChange func(path string)) error

	// Stop terminates watching and releases OS resources.
	Stop()
}
