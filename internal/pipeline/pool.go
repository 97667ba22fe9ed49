package pipeline

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/grahambrooks/astgen/internal/ast"
	"github.com/grahambrooks/astgen/internal/ports"
)

// Outcome is the per-file result produced by a worker, tagged with the
// candidate's discovery index. Record always carries either a tree or an
// embedded error — a worker never crashes on a bad file.
type Outcome struct {
	Index    int
	Path     string
	Language string
	Record   *ast.Record
	Err      bool // Record carries an error payload
	CacheHit bool
	Duration time.Duration
}

// Pool is the bounded set of concurrent parse workers. Workers claim
// candidates FIFO from a shared channel (each file processed exactly once)
// and emit completions in whatever order parsing finishes; ordering is the
// aggregator's job.
type Pool struct {
	Workers  int
	Parser   ports.Parser
	Cache    ports.Cache       // nil disables the cache
	Progress *ProgressReporter // nil disables progress events
}

// Run processes the candidates and returns the completion channel. The
// channel closes after the last worker finishes.
func (p *Pool) Run(candidates []Candidate) <-chan Outcome {
	work := make(chan Candidate)
	completions := make(chan Outcome, p.Workers)

	go func() {
		for _, c := range candidates {
			work <- c
		}
		close(work)
	}()

	var g errgroup.Group
	for i := 0; i < p.Workers; i++ {
		g.Go(func() error {
			for c := range work {
				completions <- p.process(c)
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(completions)
	}()
	return completions
}

// process handles one candidate: read, consult the cache, parse. Any failure
// is captured into the record's error field; nothing here aborts the run.
func (p *Pool) process(c Candidate) Outcome {
	p.Progress.Started(c.Path)
	start := time.Now()

	record := &ast.Record{
		Version:  ast.Version,
		Filename: c.Path,
		Language: c.Language,
	}
	out := Outcome{Index: c.Index, Path: c.Path, Language: c.Language, Record: record}

	tree, cacheHit, err := p.parse(c)
	out.Duration = time.Since(start)
	out.CacheHit = cacheHit
	if err != nil {
		record.Error = &ast.RecordError{Kind: errorKind(err), Message: err.Error()}
		out.Err = true
		p.Progress.Finished(c.Path)
		return out
	}
	record.AST = tree
	p.Progress.Finished(c.Path)
	return out
}

// parse reads the file (size already bounded by the filter) and runs the
// grammar engine, short-circuiting through the cache when enabled.
func (p *Pool) parse(c Candidate) (*ast.Node, bool, error) {
	var mtime int64
	if p.Cache != nil {
		if info, err := os.Stat(c.Path); err == nil {
			mtime = info.ModTime().UnixNano()
			if tree, ok := p.Cache.Get(c.Path, c.Size, mtime); ok {
				return tree, true, nil
			}
		}
	}

	source, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, false, err
	}
	tree, err := p.Parser.Parse(c.Language, source)
	if err != nil {
		return nil, false, err
	}
	if p.Cache != nil && mtime != 0 {
		// Best effort: a cache write failure must not fail the file.
		_ = p.Cache.Put(c.Path, c.Size, mtime, tree)
	}
	return tree, false, nil
}

// errorKind classifies a per-file failure for the record's error field.
func errorKind(err error) string {
	switch {
	case errors.Is(err, ports.ErrEncoding):
		return "encoding"
	case errors.Is(err, ports.ErrParse), errors.Is(err, ports.ErrUnknownLanguage):
		return "syntax"
	default:
		return "io"
	}
}
