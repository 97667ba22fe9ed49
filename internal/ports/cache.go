package ports

import "github.com/grahambrooks/astgen/internal/ast"

// Cache stores parse trees keyed by file identity (path + size + mtime) so
// unchanged files can skip the grammar engine on subsequent runs. It is only
// consulted when the user opts in; the pipeline is stateless without it.
type Cache interface {
	// Get returns the cached tree for a file identity, or ok=false on miss.
	Get(path string, size int64, mtimeNanos int64) (tree *ast.Node, ok bool)

	// Put stores the tree for a file identity, replacing any stale entry
	// for the same path.
	Put(path string, size int64, mtimeNanos int64, tree *ast.Node) error

	Close() error
}
