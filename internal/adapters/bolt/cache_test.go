package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahambrooks/astgen/internal/ast"
)

// newTestCache creates a temporary bbolt cache for testing.
func newTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, path
}

func sampleTree() *ast.Node {
	return &ast.Node{
		Kind:    "source_file",
		EndByte: 20,
		Children: []*ast.Node{
			{Kind: "package_clause", EndByte: 12, Text: "package x"},
		},
	}
}

func TestCache_MissOnEmptyDatabase(t *testing.T) {
	c, _ := newTestCache(t)

	tree, ok := c.Get("main.go", 100, 1)
	assert.False(t, ok)
	assert.Nil(t, tree)
}

func TestCache_PutThenGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)

	require.NoError(t, c.Put("main.go", 100, 42, sampleTree()))

	tree, ok := c.Get("main.go", 100, 42)
	require.True(t, ok)
	require.NotNil(t, tree)
	assert.Equal(t, "source_file", tree.Kind)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, "package x", tree.Children[0].Text)
}

func TestCache_StaleFingerprintIsAMiss(t *testing.T) {
	c, _ := newTestCache(t)
	require.NoError(t, c.Put("main.go", 100, 42, sampleTree()))

	_, ok := c.Get("main.go", 101, 42)
	assert.False(t, ok, "size change invalidates the entry")

	_, ok = c.Get("main.go", 100, 43)
	assert.False(t, ok, "mtime change invalidates the entry")
}

func TestCache_PutReplacesPreviousEntry(t *testing.T) {
	c, _ := newTestCache(t)
	require.NoError(t, c.Put("main.go", 100, 1, sampleTree()))
	require.NoError(t, c.Put("main.go", 120, 2, &ast.Node{Kind: "source_file", EndByte: 120}))

	_, ok := c.Get("main.go", 100, 1)
	assert.False(t, ok)

	tree, ok := c.Get("main.go", 120, 2)
	require.True(t, ok)
	assert.Equal(t, 120, tree.EndByte)
	assert.Empty(t, tree.Children)
}

func TestCache_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put("a.rs", 10, 7, sampleTree()))
	require.NoError(t, c.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	tree, ok := reopened.Get("a.rs", 10, 7)
	require.True(t, ok)
	assert.Equal(t, "source_file", tree.Kind)
}

func TestCache_PathsAreIndependent(t *testing.T) {
	c, _ := newTestCache(t)
	require.NoError(t, c.Put("a.py", 1, 1, &ast.Node{Kind: "module"}))

	_, ok := c.Get("b.py", 1, 1)
	assert.False(t, ok)
}
