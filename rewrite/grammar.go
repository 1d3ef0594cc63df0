package rewrite

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Grammar is a tree-sitter language used for a set of file extensions.
type Grammar struct {
	Name       string
	Extensions []string
	language   func() *sitter.Language
}

// Language returns the tree-sitter language for the grammar.
func (g Grammar) Language() *sitter.Language {
	return g.language()
}

var grammars = []Grammar{
	{Name: "javascript", Extensions: []string{".js", ".mjs", ".cjs", ".jsx"}, language: javascript.GetLanguage},
	{Name: "typescript", Extensions: []string{".ts", ".mts", ".cts"}, language: typescript.GetLanguage},
	{Name: "tsx", Extensions: []string{".tsx"}, language: tsx.GetLanguage},
}

// Grammars returns the supported grammars in display order.
func Grammars() []Grammar {
	out := make([]Grammar, len(grammars))
	copy(out, grammars)
	return out
}

// GrammarFor returns the grammar for a file path based on its extension.
func GrammarFor(path string) (Grammar, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, g := range grammars {
		for _, e := range g.Extensions {
			if e == ext {
				return g, true
			}
		}
	}
	return Grammar{}, false
}

// IsSupportedFile reports whether path has an extension the rewriter can parse.
func IsSupportedFile(path string) bool {
	_, ok := GrammarFor(path)
	return ok
}
