package rewrite

import sitter "github.com/smacker/go-tree-sitter"

// candidate converts a node into one of the candidate variants, or nil when the
// node does not carry a specifier.
func (m *Module) candidate(n *sitter.Node) Candidate {
	switch n.Type() {
	case "import_statement":
		source := n.ChildByFieldName("source")
		if source == nil {
			// import x = require("y")
			source = m.requireClauseSource(n)
		}
		if lit, ok := m.stringLiteral(source); ok {
			return ImportDecl{Source: lit, span: spanOf(n)}
		}
	case "export_statement":
		if lit, ok := m.stringLiteral(n.ChildByFieldName("source")); ok {
			return ReExportDecl{Source: lit, span: spanOf(n)}
		}
	case "call_expression":
		return m.callCandidate(n)
	}
	return nil
}

func (m *Module) requireClauseSource(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "import_require_clause" {
			continue
		}
		if source := child.ChildByFieldName("source"); source != nil {
			return source
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			if c := child.NamedChild(j); c.Type() == "string" {
				return c
			}
		}
	}
	return nil
}

func (m *Module) callCandidate(n *sitter.Node) Candidate {
	callee := n.ChildByFieldName("function")
	args := n.ChildByFieldName("arguments")
	if callee == nil || args == nil || args.Type() != "arguments" {
		return nil
	}

	call := Call{Args: m.arguments(args), span: spanOf(n), args: args}

	switch {
	case callee.Type() == "import":
		return DynamicImport{call}
	case callee.Type() == "identifier" && m.text(callee) == "require":
		return RequireCall{call}
	case m.isRequireResolve(callee):
		return RequireResolveCall{call}
	}
	return nil
}

func (m *Module) isRequireResolve(callee *sitter.Node) bool {
	if callee.Type() != "member_expression" {
		return false
	}
	object := callee.ChildByFieldName("object")
	property := callee.ChildByFieldName("property")
	return object != nil && property != nil &&
		object.Type() == "identifier" && m.text(object) == "require" &&
		property.Type() == "property_identifier" && m.text(property) == "resolve"
}

func (m *Module) arguments(args *sitter.Node) []Expr {
	var exprs []Expr
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		exprs = append(exprs, m.expr(child))
	}
	return exprs
}

func (m *Module) expr(n *sitter.Node) Expr {
	n = unparenthesize(n)
	switch n.Type() {
	case "string":
		if lit, ok := m.stringLiteral(n); ok {
			return lit
		}
	case "binary_expression":
		operator := n.ChildByFieldName("operator")
		left := n.ChildByFieldName("left")
		right := n.ChildByFieldName("right")
		if operator != nil && operator.Type() == "+" && left != nil && right != nil {
			return Concat{Left: m.expr(left), Right: m.expr(right), span: spanOf(n)}
		}
	case "template_string":
		return m.template(n)
	}
	return OtherExpr{Type: n.Type(), span: spanOf(n)}
}

// unparenthesize returns the expression inside any enclosing parentheses.
func unparenthesize(n *sitter.Node) *sitter.Node {
	for n.Type() == "parenthesized_expression" {
		var inner *sitter.Node
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if child := n.NamedChild(i); child.Type() != "comment" {
				inner = child
				break
			}
		}
		if inner == nil {
			return n
		}
		n = inner
	}
	return n
}

func (m *Module) stringLiteral(n *sitter.Node) (StringLiteral, bool) {
	if n == nil || n.Type() != "string" {
		return StringLiteral{}, false
	}
	text := m.text(n)
	if len(text) < 2 {
		return StringLiteral{}, false
	}
	return StringLiteral{
		Value: cook(text[1 : len(text)-1]),
		Quote: text[0],
		span:  spanOf(n),
	}, true
}

// template splits off the static text between the opening backtick and the
// first substitution.
func (m *Module) template(n *sitter.Node) Template {
	headEnd := n.EndByte() - 1
	substitutions := 0
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() != "template_substitution" {
			continue
		}
		if substitutions == 0 {
			headEnd = child.StartByte()
		}
		substitutions++
	}

	headStart := n.StartByte() + 1
	if headEnd < headStart {
		headEnd = headStart
	}
	raw := string(m.Source[headStart:headEnd])

	return Template{
		Head: TemplateElement{
			Cooked: cook(raw),
			Raw:    raw,
			span:   Span{Start: headStart, End: headEnd},
		},
		Substitutions: substitutions,
		span:          spanOf(n),
	}
}
