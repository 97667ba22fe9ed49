package ports

import "errors"

// Sentinel errors shared across the parser boundary. The pipeline classifies
// per-file failures with errors.Is against these before embedding them in the
// output record.
var (
	// ErrUnknownLanguage means the language name is not in the registry.
	ErrUnknownLanguage = errors.New("language not registered")

	// ErrEncoding means the source is not valid UTF-8 and the grammar
	// requires text input.
	ErrEncoding = errors.New("source is not valid UTF-8")

	// ErrParse means the grammar engine failed to produce a tree.
	ErrParse = errors.New("parse failed")
)
