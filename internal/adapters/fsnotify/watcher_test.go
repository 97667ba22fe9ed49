package fsnotify

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func detectPython(path string) (string, bool) {
	if filepath.Ext(path) == ".py" {
		return "Python", true
	}
	return "", false
}

// waitForCallback waits up to timeout for the callback channel to receive a value.
func waitForCallback(ch <-chan string, timeout time.Duration) (string, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-time.After(timeout):
		return "", false
	}
}

func startWatcher(t *testing.T, dir string) <-chan string {
	t.Helper()
	w, err := NewWatcher(detectPython)
	require.NoError(t, err)
	t.Cleanup(w.Stop)

	changed := make(chan string, 10)
	require.NoError(t, w.Watch(dir, func(path string) {
		changed <- path
	}))

	// Give the watcher time to register
	time.Sleep(50 * time.Millisecond)
	return changed
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tool.py")
	require.NoError(t, os.WriteFile(file, []byte("# original"), 0644))

	changed := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(file, []byte("# modified"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for file change")
	assert.Equal(t, file, path)
}

func TestWatcher_DetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	changed := startWatcher(t, dir)

	file := filepath.Join(dir, "fresh.py")
	require.NoError(t, os.WriteFile(file, []byte("# new"), 0644))

	path, ok := waitForCallback(changed, 2*time.Second)
	assert.True(t, ok, "expected callback for new file")
	assert.Equal(t, file, path)
}

func TestWatcher_IgnoresUnparseableFiles(t *testing.T) {
	dir := t.TempDir()
	changed := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "non-source files must not trigger the callback")
}

func TestWatcher_IgnoresDefaultSkipDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "node_modules")
	require.NoError(t, os.MkdirAll(sub, 0755))

	changed := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(sub, "dep.py"), []byte("x"), 0644))

	_, ok := waitForCallback(changed, 300*time.Millisecond)
	assert.False(t, ok, "ignored directories must not trigger the callback")
}

func TestPruneDebounce_DropsStaleKeepsFresh(t *testing.T) {
	now := time.Now()
	m := map[string]time.Time{
		"stale1.py": now.Add(-10 * debounceInterval),
		"stale2.py": now.Add(-debounceInterval),
		"fresh.py":  now.Add(-debounceInterval / 2),
	}

	pruneDebounce(m, now)

	assert.NotContains(t, m, "stale1.py")
	assert.NotContains(t, m, "stale2.py")
	assert.Contains(t, m, "fresh.py")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher(detectPython)
	require.NoError(t, err)
	require.NoError(t, w.Watch(t.TempDir(), func(string) {}))
	w.Stop()
	w.Stop()
}
