package treesitter

import (
	"unsafe"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	ts_csharp "github.com/tree-sitter/tree-sitter-c-sharp/bindings/go"
	ts_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	ts_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	ts_ruby "github.com/tree-sitter/tree-sitter-ruby/bindings/go"
	ts_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// LanguageInfo describes one registered language for --list-languages.
type LanguageInfo struct {
	Name           string
	Extensions     []string
	GrammarVersion string
}

// langPtr wraps a Language() call that returns unsafe.Pointer.
func langPtr(p unsafe.Pointer) *tree_sitter.Language {
	return tree_sitter.NewLanguage(p)
}

// registerBuiltinLanguages adds every compiled-in grammar to the parser.
// The language set is fixed per build — there is no runtime grammar
// discovery, so record consumers can rely on a closed set of language names.
func (p *Parser) registerBuiltinLanguages() {
	p.addLang("Rust", langPtr(ts_rust.Language()), "0.23.2", ".rs")
	p.addLang("Java", langPtr(ts_java.Language()), "0.23.5", ".java")
	p.addLang("C#", langPtr(ts_csharp.Language()), "0.23.1", ".cs")
	p.addLang("Go", langPtr(ts_go.Language()), "0.23.4", ".go")
	p.addLang("Python", langPtr(ts_python.Language()), "0.23.6", ".py")
	p.addLang("TypeScript", langPtr(ts_typescript.LanguageTypescript()), "0.23.2", ".ts")
	p.addLang("TSX", langPtr(ts_typescript.LanguageTSX()), "0.23.2", ".tsx")
	p.addLang("JavaScript", langPtr(ts_javascript.Language()), "0.23.1", ".js")
	p.addLang("Ruby", langPtr(ts_ruby.Language()), "0.23.1", ".rb")
}
