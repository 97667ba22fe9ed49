// astgen parses source trees with tree-sitter grammars and emits one
// serialized AST record per file, in discovery order.
package main

import (
	"os"

	"github.com/grahambrooks/astgen/cmd/astgen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
