package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/grahambrooks/astgen/internal/config"
)

// skipDirs is the fixed default ignore set: version-control and
// build-artifact directories pruned before descending, so their contents
// cost no I/O.
var skipDirs = map[string]bool{
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

// Candidate is one accepted file with its discovery-order index. The index
// is assigned exactly once and is the sole ordering key for final output.
type Candidate struct {
	Index    int
	Path     string
	Language string
	Size     int64
}

// SkippedFile records a filtered-out path and why it was rejected.
type SkippedFile struct {
	Path   string
	Reason Decision
	Size   int64
}

// Discovery is the result of walking all roots: accepted candidates in
// traversal order with contiguous indexes 0..N-1, the rejected paths, and
// non-fatal diagnostics (bad roots, unreadable entries).
type Discovery struct {
	Candidates []Candidate
	Skips      []SkippedFile
	Diags      []string
}

// Discoverer walks the configured roots and applies the path filter as a
// pre-pass, so only in-scope files enter the worker pool.
//
// Traversal order is lexical by path within each root (fs.WalkDir order),
// roots in the order given. This order is fixed: it defines the sequence
// index and therefore the output order.
type Discoverer struct {
	cfg    *config.Config
	filter *Filter
}

// NewDiscoverer builds a discoverer over a compiled filter.
func NewDiscoverer(cfg *config.Config, filter *Filter) *Discoverer {
	return &Discoverer{cfg: cfg, filter: filter}
}

// Discover walks every root. A root that does not exist is a diagnostic, not
// an abort; the run fails with ErrNoValidRoots only when no root is usable.
func (d *Discoverer) Discover() (*Discovery, error) {
	if len(d.cfg.Roots) == 0 {
		return nil, ErrNoValidRoots
	}

	out := &Discovery{}
	validRoots := 0
	for _, root := range d.cfg.Roots {
		info, err := os.Stat(root)
		if err != nil {
			out.Diags = append(out.Diags, fmt.Sprintf("cannot access %s: %v", root, err))
			continue
		}
		validRoots++
		if info.IsDir() {
			d.walkRoot(root, out)
		} else {
			d.acceptOrSkip(root, info.Size(), out)
		}
	}
	if validRoots == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoValidRoots, strings.Join(out.Diags, "; "))
	}
	return out, nil
}

// walkRoot traverses one directory root, pruning ignored subtrees and
// honoring the depth limit and symlink policy.
func (d *Discoverer) walkRoot(root string, out *Discovery) {
	filter := d.filter.WithIgnoreRules(loadIgnoreFile(root))

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			out.Diags = append(out.Diags, fmt.Sprintf("cannot read %s: %v", path, err))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if filter.PruneDir(entry.Name(), rel) {
				return filepath.SkipDir
			}
			if strings.Count(rel, "/")+1 >= d.cfg.MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}

		size, ok := d.entrySize(path, entry, out)
		if !ok {
			return nil
		}
		d.acceptOrSkipRel(path, rel, size, filter, out)
		return nil
	})
	if err != nil {
		out.Diags = append(out.Diags, fmt.Sprintf("walk %s: %v", root, err))
	}
}

// entrySize resolves the file size from directory metadata. Symlinks are
// skipped unless follow-links is enabled, and then only links to regular
// files are considered.
func (d *Discoverer) entrySize(path string, entry fs.DirEntry, out *Discovery) (int64, bool) {
	if entry.Type()&fs.ModeSymlink != 0 {
		if !d.cfg.FollowLinks {
			return 0, false
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return 0, false
		}
		return info.Size(), true
	}
	if !entry.Type().IsRegular() {
		return 0, false
	}
	info, err := entry.Info()
	if err != nil {
		out.Diags = append(out.Diags, fmt.Sprintf("cannot stat %s: %v", path, err))
		return 0, false
	}
	return info.Size(), true
}

// acceptOrSkip filters a file root given directly on the command line.
func (d *Discoverer) acceptOrSkip(path string, size int64, out *Discovery) {
	d.acceptOrSkipRel(path, filepath.ToSlash(path), size, d.filter, out)
}

func (d *Discoverer) acceptOrSkipRel(path, matchPath string, size int64, filter *Filter, out *Discovery) {
	lang, decision := filter.AcceptPath(matchPath, size)
	if decision != Accept {
		out.Skips = append(out.Skips, SkippedFile{Path: path, Reason: decision, Size: size})
		return
	}
	out.Candidates = append(out.Candidates, Candidate{
		Index:    len(out.Candidates),
		Path:     path,
		Language: lang,
		Size:     size,
	})
}

// loadIgnoreFile compiles the root's ignore file, if present.
func loadIgnoreFile(root string) *ignore.GitIgnore {
	path := filepath.Join(root, config.IgnoreFileName)
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	rules, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return rules
}
