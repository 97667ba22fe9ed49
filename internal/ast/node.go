// Package ast defines the output data model: the parse tree node shape and
// the per-file record emitted for every accepted file. The pipeline treats
// trees as opaque — it builds them in the parser adapter and hands them to
// the encoders without inspecting node semantics.
package ast

// Version tags every emitted record so consumers can detect format changes.
const Version = "astgen-0.1"

// Node is one node of a parse tree: kind, byte range, and either leaf text
// or children. Text is only populated on non-empty leaves, matching the
// shape consumers already depend on.
type Node struct {
	Kind      string  `json:"kind" yaml:"kind"`
	StartByte int     `json:"start_byte" yaml:"start_byte"`
	EndByte   int     `json:"end_byte" yaml:"end_byte"`
	Children  []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Text      string  `json:"text,omitempty" yaml:"text,omitempty"`
}

// RecordError carries a per-file failure inside an otherwise-normal record.
// Kind is one of the taxonomy names ("io", "syntax", "encoding").
type RecordError struct {
	Kind    string `json:"kind" yaml:"kind"`
	Message string `json:"message" yaml:"message"`
}

// Record is the unit of output: exactly one per accepted file, in discovery
// order. Exactly one of AST or Error is set.
type Record struct {
	Version  string       `json:"version" yaml:"version"`
	Filename string       `json:"filename" yaml:"filename"`
	Language string       `json:"language" yaml:"language"`
	AST      *Node        `json:"ast,omitempty" yaml:"ast,omitempty"`
	Error    *RecordError `json:"error,omitempty" yaml:"error,omitempty"`
}
