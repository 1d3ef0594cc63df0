package rewrite

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Module is a parsed source file. Close releases the syntax tree.
type Module struct {
	Path    string
	Source  []byte
	Grammar Grammar
	tree    *sitter.Tree
}

// Parse parses source with the grammar matching path's extension.
func Parse(ctx context.Context, path string, source []byte) (*Module, error) {
	grammar, ok := GrammarFor(path)
	if !ok {
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
	return ParseWith(ctx, grammar, path, source)
}

// ParseWith parses source with an explicit grammar.
func ParseWith(ctx context.Context, grammar Grammar, path string, source []byte) (*Module, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(grammar.Language())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s", path)
	}

	return &Module{Path: path, Source: source, Grammar: grammar, tree: tree}, nil
}

// HasErrors reports whether the parser had to recover from syntax errors.
func (m *Module) HasErrors() bool {
	return m.tree.RootNode().HasError()
}

// Close releases the syntax tree.
func (m *Module) Close() {
	if m.tree != nil {
		m.tree.Close()
		m.tree = nil
	}
}

// Candidates returns every specifier-bearing construct in source order.
func (m *Module) Candidates() []Candidate {
	var candidates []Candidate

	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if c := m.candidate(n); c != nil {
			candidates = append(candidates, c)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}

	walk(m.tree.RootNode())
	return candidates
}

func (m *Module) text(n *sitter.Node) string {
	return n.Content(m.Source)
}

func spanOf(n *sitter.Node) Span {
	return Span{Start: n.StartByte(), End: n.EndByte()}
}
