package treesitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grahambrooks/astgen/internal/ports"
)

func TestParser_DetectLanguage(t *testing.T) {
	p := NewParser()

	cases := []struct {
		path string
		lang string
		ok   bool
	}{
		{"src/main.rs", "Rust", true},
		{"a/b/App.java", "Java", true},
		{"Program.cs", "C#", true},
		{"cmd/main.go", "Go", true},
		{"script.py", "Python", true},
		{"index.ts", "TypeScript", true},
		{"view.tsx", "TSX", true},
		{"app.js", "JavaScript", true},
		{"tool.rb", "Ruby", true},
		{"notes.txt", "", false},
		{"Makefile", "", false},
	}
	for _, tc := range cases {
		lang, ok := p.DetectLanguage(tc.path)
		assert.Equal(t, tc.ok, ok, tc.path)
		assert.Equal(t, tc.lang, lang, tc.path)
	}
}

func TestParser_ParseGo(t *testing.T) {
	p := NewParser()

	source := []byte("package main\n\nfunc main() {}\n")
	tree, err := p.Parse("Go", source)
	require.NoError(t, err)
	require.NotNil(t, tree)

	assert.Equal(t, "source_file", tree.Kind)
	assert.Equal(t, 0, tree.StartByte)
	assert.Equal(t, len(source), tree.EndByte)
	assert.NotEmpty(t, tree.Children)
}

func TestParser_ParsePython(t *testing.T) {
	p := NewParser()

	tree, err := p.Parse("Python", []byte("print('hello')\n"))
	require.NoError(t, err)
	assert.Equal(t, "module", tree.Kind)
}

func TestParser_LeafTextPreserved(t *testing.T) {
	p := NewParser()

	source := []byte("package main\n")
	tree, err := p.Parse("Go", source)
	require.NoError(t, err)

	// The "package" keyword is a leaf; its text must round-trip.
	require.NotEmpty(t, tree.Children)
	pkg := tree.Children[0]
	require.NotEmpty(t, pkg.Children)
	kw := pkg.Children[0]
	assert.Equal(t, "package", kw.Text)
	assert.Equal(t, 0, kw.StartByte)
	assert.Equal(t, 7, kw.EndByte)
}

func TestParser_EmptySource(t *testing.T) {
	p := NewParser()

	tree, err := p.Parse("Rust", []byte{})
	require.NoError(t, err)
	assert.Equal(t, "source_file", tree.Kind)
	assert.Empty(t, tree.Children)
	assert.Empty(t, tree.Text)
}

func TestParser_BrokenInputStillYieldsTree(t *testing.T) {
	// tree-sitter is error-tolerant: syntactically broken input produces a
	// tree containing ERROR nodes rather than a hard failure.
	p := NewParser()

	tree, err := p.Parse("Go", []byte("func func func {{{"))
	require.NoError(t, err)
	require.NotNil(t, tree)
}

func TestParser_UnknownLanguage(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("COBOL", []byte("IDENTIFICATION DIVISION."))
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrUnknownLanguage)
}

func TestParser_InvalidUTF8(t *testing.T) {
	p := NewParser()

	_, err := p.Parse("Go", []byte{0x70, 0x61, 0xff, 0xfe, 0x01})
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrEncoding)
}

func TestParser_LanguagesSorted(t *testing.T) {
	p := NewParser()

	langs := p.Languages()
	require.Len(t, langs, 9)
	for i := 1; i < len(langs); i++ {
		assert.Less(t, langs[i-1].Name, langs[i].Name)
	}
	for _, l := range langs {
		assert.NotEmpty(t, l.Extensions)
		assert.NotEmpty(t, l.GrammarVersion)
	}
}
