// Package treesitter implements ports.Parser using tree-sitter grammars.
// It converts source bytes into the ast.Node tree shape the encoders emit.
//
// Nine languages compiled-in from the official tree-sitter org bindings:
// Rust, Java, C#, Go, Python, TypeScript, TSX, JavaScript, Ruby.
package treesitter

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/grahambrooks/astgen/internal/ast"
	"github.com/grahambrooks/astgen/internal/ports"
)

// Parser maps language names to grammars and builds parse trees.
// A Parser is safe for concurrent use: each Parse call creates its own
// tree-sitter parser, only the immutable registry is shared.
type Parser struct {
	languages map[string]*tree_sitter.Language // language name -> grammar
	extToLang map[string]string                // ".rs" -> "Rust"
	info      []LanguageInfo
}

// NewParser creates a parser with all built-in grammars registered.
func NewParser() *Parser {
	p := &Parser{
		languages: make(map[string]*tree_sitter.Language),
		extToLang: make(map[string]string),
	}
	p.registerBuiltinLanguages()
	return p
}

// addLang registers a grammar under a language name with its extensions.
func (p *Parser) addLang(name string, lang *tree_sitter.Language, version string, exts ...string) {
	if lang == nil {
		return
	}
	p.languages[name] = lang
	for _, ext := range exts {
		p.extToLang[ext] = name
	}
	p.info = append(p.info, LanguageInfo{Name: name, Extensions: exts, GrammarVersion: version})
}

// DetectLanguage maps a file path to a registered language by extension.
func (p *Parser) DetectLanguage(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	lang, ok := p.extToLang[ext]
	return lang, ok
}

// Languages returns the registered languages sorted by name.
func (p *Parser) Languages() []LanguageInfo {
	out := make([]LanguageInfo, len(p.info))
	copy(out, p.info)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Parse builds the tree for source written in the named language.
// Panics inside the grammar engine are recovered here and converted to
// ports.ErrParse so a malformed file cannot take down a worker.
func (p *Parser) Parse(language string, source []byte) (node *ast.Node, err error) {
	lang, ok := p.languages[language]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ports.ErrUnknownLanguage, language)
	}
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("%w: convert the file to UTF-8 first", ports.ErrEncoding)
	}

	defer func() {
		if r := recover(); r != nil {
			node = nil
			err = fmt.Errorf("%w: grammar engine panic: %v", ports.ErrParse, r)
		}
	}()

	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(lang); err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrParse, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("%w: engine produced no tree", ports.ErrParse)
	}
	defer tree.Close()

	return toNode(tree.RootNode(), source), nil
}

// toNode converts a tree-sitter node into the serializable tree shape.
// Leaf text is included only when non-empty; tree-sitter is error-tolerant,
// so syntactically broken input still yields a tree containing ERROR nodes.
func toNode(n *tree_sitter.Node, source []byte) *ast.Node {
	out := &ast.Node{
		Kind:      n.Kind(),
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
	count := uint(n.ChildCount())
	if count == 0 {
		if text := source[n.StartByte():n.EndByte()]; len(text) > 0 {
			out.Text = string(text)
		}
		return out
	}
	out.Children = make([]*ast.Node, 0, int(count))
	for i := uint(0); i < count; i++ {
		out.Children = append(out.Children, toNode(n.Child(i), source))
	}
	return out
}
