package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/grahambrooks/astgen/internal/adapters/treesitter"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

// printLanguages renders the grammar registry. Colors only when the sink is
// a terminal:
//
//	⚡ 9 languages
//	  C#           .cs             grammar 0.23.1
func printLanguages(out io.Writer, langs []treesitter.LanguageInfo, color bool) {
	reset, bold, cyan, gray := "", "", "", ""
	if color {
		reset, bold, cyan, gray = colorReset, colorBold, colorCyan, colorGray
	}
	fmt.Fprintf(out, "%s⚡ %d languages%s\n", bold, len(langs), reset)
	for _, l := range langs {
		fmt.Fprintf(out, "  %s%-12s%s %-15s %sgrammar %s%s\n",
			cyan, l.Name, reset,
			strings.Join(l.Extensions, " "),
			gray, l.GrammarVersion, reset)
	}
}
