package pipeline

import (
	"fmt"
	"io"
	"sync"
)

// progressEvent is one discrete observation from the pipeline.
type progressEvent struct {
	kind string // "started", "finished", "skipped"
	path string
}

// ProgressReporter renders processed-vs-total counts from events sent by
// workers. Events are fire-and-forget: a full channel drops the event rather
// than blocking a worker, so a slow terminal can never stall parsing.
// Purely observational — a nil reporter changes nothing but the rendering.
type ProgressReporter struct {
	events chan progressEvent
	done   chan struct{}
	out    io.Writer
	total  int
	render bool
	once   sync.Once
}

// NewProgressReporter starts the reporter goroutine. When render is false
// the reporter still consumes events (so senders behave identically) but
// draws nothing.
func NewProgressReporter(out io.Writer, total int, render bool) *ProgressReporter {
	r := &ProgressReporter{
		events: make(chan progressEvent, 256),
		done:   make(chan struct{}),
		out:    out,
		total:  total,
		render: render,
	}
	go r.run()
	return r
}

func (r *ProgressReporter) run() {
	defer close(r.done)
	finished, skipped := 0, 0
	for ev := range r.events {
		switch ev.kind {
		case "finished":
			finished++
		case "skipped":
			skipped++
		default:
			continue
		}
		if !r.render {
			continue
		}
		// Skips are shown separately so the counter never exceeds the
		// candidate total.
		if skipped > 0 {
			fmt.Fprintf(r.out, "\r⚡ %d/%d files (%d skipped)", finished, r.total, skipped)
		} else {
			fmt.Fprintf(r.out, "\r⚡ %d/%d files", finished, r.total)
		}
	}
	if r.render && (finished > 0 || skipped > 0) {
		fmt.Fprintln(r.out)
	}
}

// send is non-blocking: progress must never apply backpressure.
func (r *ProgressReporter) send(kind, path string) {
	if r == nil {
		return
	}
	select {
	case r.events <- progressEvent{kind: kind, path: path}:
	default:
	}
}

// Started records that a worker began a file.
func (r *ProgressReporter) Started(path string) { r.send("started", path) }

// Finished records that a worker completed a file (success or error).
func (r *ProgressReporter) Finished(path string) { r.send("finished", path) }

// Skipped records a filtered-out file.
func (r *ProgressReporter) Skipped(path string) { r.send("skipped", path) }

// Close drains remaining events and stops the reporter. Safe to call on nil
// and safe to call twice.
func (r *ProgressReporter) Close() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		close(r.events)
		<-r.done
	})
}
