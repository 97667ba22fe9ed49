package pipeline

import (
	"bufio"
	"io"
	"os"

	"github.com/grahambrooks/astgen/internal/ast"
	"github.com/grahambrooks/astgen/internal/encode"
)

// Writer serializes ordered records to the sink and enforces the cumulative
// byte budget. Truncation acts on whole units: a record that would cross the
// limit is dropped, and so is everything after it, so the emitted stream is
// always a valid prefix of the untruncated output.
type Writer struct {
	enc       encode.Encoder
	buf       *bufio.Writer
	file      *os.File // nil when writing to an injected sink or stdout
	sinkPath  string
	limit     int64
	written   int64
	records   int
	truncated bool
}

// NewWriter opens the sink and binds the encoder. An unopenable output file
// is a SinkError — fatal before any processing begins.
func NewWriter(enc encode.Encoder, outputPath string, stdout io.Writer, limit int64) (*Writer, error) {
	w := &Writer{enc: enc, sinkPath: outputPath, limit: limit}
	if outputPath == "" {
		w.buf = bufio.NewWriter(stdout)
		return w, nil
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return nil, &SinkError{Path: outputPath, Err: err}
	}
	w.file = f
	w.buf = bufio.NewWriter(f)
	return w, nil
}

// Write encodes one record and appends it unless the byte budget is
// exhausted. Returns a SinkError on write failure (fatal).
func (w *Writer) Write(rec *ast.Record) error {
	if w.truncated {
		return nil
	}
	unit, err := w.enc.Encode(rec)
	if err != nil {
		return err
	}
	if w.limit > 0 && w.written+int64(len(unit)) > w.limit {
		w.truncated = true
		return nil
	}
	if _, err := w.buf.Write(unit); err != nil {
		return &SinkError{Path: w.sinkPath, Err: err}
	}
	w.written += int64(len(unit))
	w.records++
	return nil
}

// Truncated reports whether the byte budget cut the stream short.
func (w *Writer) Truncated() bool { return w.truncated }

// BytesWritten returns the cumulative size of all emitted units.
func (w *Writer) BytesWritten() int64 { return w.written }

// Records returns how many whole units were emitted.
func (w *Writer) Records() int { return w.records }

// Close flushes buffered output and closes the file sink if one was opened.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		return &SinkError{Path: w.sinkPath, Err: err}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return &SinkError{Path: w.sinkPath, Err: err}
		}
	}
	return nil
}
