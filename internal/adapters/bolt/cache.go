// Package bolt implements the ports.Cache interface using bbolt (embedded
// B+ tree). One bucket maps file paths to JSON-serialized entries carrying
// the tree plus the size/mtime fingerprint it was parsed from. Writes are
// transactional — a crash mid-write cannot corrupt previously committed
// entries.
package bolt

import (
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/grahambrooks/astgen/internal/ast"
)

var bucketTrees = []byte("trees")

// Cache implements ports.Cache backed by bbolt.
type Cache struct {
	db *bolt.DB
}

// Open opens (or creates) a bbolt database at the given path.
func Open(path string) (*Cache, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketTrees)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("bbolt init: %w", err)
	}
	return &Cache{db: db}, nil
}

// entryJSON is the stored form: the fingerprint the tree was parsed from
// plus the tree itself.
type entryJSON struct {
	Size       int64     `json:"size"`
	MtimeNanos int64     `json:"mtime_nanos"`
	Tree       *ast.Node `json:"tree"`
}

// Get returns the cached tree for a path when the stored fingerprint still
// matches the file's current size and mtime. A stale or missing entry is a
// miss, never an error.
func (c *Cache) Get(path string, size, mtimeNanos int64) (*ast.Node, bool) {
	var entry entryJSON
	found := false
	err := c.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(bucketTrees).Get([]byte(path))
		if raw == nil {
			return nil
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil // treat a corrupt entry as a miss
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return nil, false
	}
	if entry.Size != size || entry.MtimeNanos != mtimeNanos {
		return nil, false
	}
	return entry.Tree, true
}

// Put stores a freshly parsed tree under the path, replacing any previous
// entry for that path.
func (c *Cache) Put(path string, size, mtimeNanos int64, tree *ast.Node) error {
	raw, err := json.Marshal(entryJSON{Size: size, MtimeNanos: mtimeNanos, Tree: tree})
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTrees).Put([]byte(path), raw)
	})
}

// Close closes the underlying bbolt database.
func (c *Cache) Close() error {
	return c.db.Close()
}
