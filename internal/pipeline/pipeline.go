// Package pipeline implements the concurrent discovery-filter-parse-aggregate
// core: directory traversal with ignore/include/exclude filtering, a bounded
// worker pool, an order-restoring aggregator, and byte-bounded output that
// never splits a record.
//
// Output order always equals discovery order, for any worker count: workers
// complete in arbitrary order and the aggregator re-establishes the sequence,
// so concurrent parsing is observably equivalent to sequential parsing.
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/grahambrooks/astgen/internal/config"
	"github.com/grahambrooks/astgen/internal/encode"
	"github.com/grahambrooks/astgen/internal/ports"
)

// Pipeline wires the stages together for one run. Config is immutable and
// shared by reference; the only concurrently-shared state inside a run is
// the work queue and the completion channel.
type Pipeline struct {
	Config *config.Config
	Parser ports.Parser
	Cache  ports.Cache // nil disables caching
	Stdout io.Writer
	Stderr io.Writer
}

// Summary reports what one run did.
type Summary struct {
	Discovered int // candidates that entered the pool
	Skipped    int // filtered-out files
	Succeeded  int
	Failed     int // per-file errors embedded in records
	CacheHits  int
	Truncated  bool
	Elapsed    time.Duration
	ParseTime  time.Duration // summed per-file parse durations across workers
}

// Run executes the full pipeline. The returned error is fatal (configuration
// or sink); per-file failures land inside records and only count in the
// summary.
func (p *Pipeline) Run() (*Summary, error) {
	start := time.Now()
	cfg := p.Config

	filter := NewFilter(cfg, nil, p.Parser)
	discovery, err := NewDiscoverer(cfg, filter).Discover()
	if err != nil {
		return nil, err
	}

	if !cfg.Quiet {
		for _, diag := range discovery.Diags {
			fmt.Fprintf(p.Stderr, "astgen: %s\n", diag)
		}
	}
	if cfg.Verbose {
		for _, skip := range discovery.Skips {
			fmt.Fprintf(p.Stderr, "astgen: skipped (%s): %s\n", skip.Reason, skip.Path)
		}
	}

	summary := &Summary{
		Discovered: len(discovery.Candidates),
		Skipped:    len(discovery.Skips),
	}

	if cfg.DryRun {
		for _, c := range discovery.Candidates {
			fmt.Fprintf(p.Stdout, "would parse: %s (%s)\n", c.Path, c.Language)
		}
		summary.Elapsed = time.Since(start)
		return summary, nil
	}

	enc, err := encode.For(cfg.Format)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}
	writer, err := NewWriter(enc, cfg.OutputPath, p.Stdout, cfg.Truncate)
	if err != nil {
		return nil, err
	}

	reporter := NewProgressReporter(p.Stderr, len(discovery.Candidates), cfg.Progress && !cfg.Quiet)
	for _, skip := range discovery.Skips {
		reporter.Skipped(skip.Path)
	}

	pool := &Pool{
		Workers:  cfg.Parallel,
		Parser:   p.Parser,
		Cache:    p.Cache,
		Progress: reporter,
	}

	agg := NewAggregator()
	var sinkErr error
	for outcome := range pool.Run(discovery.Candidates) {
		if outcome.Err {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
		if outcome.CacheHit {
			summary.CacheHits++
		}
		summary.ParseTime += outcome.Duration
		for _, ready := range agg.Push(outcome) {
			if sinkErr != nil {
				continue // keep draining so workers can finish
			}
			if err := writer.Write(ready.Record); err != nil {
				sinkErr = err
			}
		}
	}
	reporter.Close()

	if sinkErr != nil {
		_ = writer.Close()
		return nil, sinkErr
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	summary.Truncated = writer.Truncated()
	summary.Elapsed = time.Since(start)

	if cfg.Verbose {
		fmt.Fprintf(p.Stderr, "astgen: processed %d files with %d errors in %s (parse %s)\n",
			summary.Discovered, summary.Failed, summary.Elapsed.Round(time.Millisecond),
			summary.ParseTime.Round(time.Millisecond))
	}
	return summary, nil
}
