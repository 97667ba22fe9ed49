// Package ports defines the capability interfaces the pipeline consumes.
// Concrete implementations live in internal/adapters.
package ports

import "github.com/grahambrooks/astgen/internal/ast"

// Parser turns source bytes of a known language into a parse tree.
// The concrete implementation (tree-sitter) lives in internal/adapters/treesitter.
type Parser interface {
	// Parse builds the tree for source written in the named language.
	// A grammar-engine failure is returned as an error, never as a panic —
	// this is the isolation boundary that keeps one bad file from killing
	// the batch.
	Parse(language string, source []byte) (*ast.Node, error)

	// DetectLanguage maps a file path to a registered language name.
	// ok is false for unsupported extensions (not an error).
	DetectLanguage(path string) (language string, ok bool)
}
