package rewrite

import sitter "github.com/smacker/go-tree-sitter"

// Span is a half-open byte range in the module source.
type Span struct {
	Start uint32
	End   uint32
}

// Construct names the syntax a specifier appears in.
type Construct int

const (
	ConstructImport Construct = iota
	ConstructReExport
	ConstructDynamicImport
	ConstructRequire
	ConstructRequireResolve
)

func (c Construct) String() string {
	switch c {
	case ConstructImport:
		return "import"
	case ConstructReExport:
		return "export"
	case ConstructDynamicImport:
		return "import()"
	case ConstructRequire:
		return "require"
	case ConstructRequireResolve:
		return "require.resolve"
	default:
		return "unknown"
	}
}

// Candidate is a syntax node that owns one specifier position. The concrete
// types are ImportDecl, ReExportDecl, DynamicImport, RequireCall and
// RequireResolveCall.
type Candidate interface {
	Construct() Construct
	Span() Span
}

// ImportDecl is a static import declaration with a string source.
type ImportDecl struct {
	Source StringLiteral
	span   Span
}

// ReExportDecl is an "export ... from" or "export * from" declaration.
type ReExportDecl struct {
	Source StringLiteral
	span   Span
}

// Call holds the arguments of a call-shaped candidate.
type Call struct {
	Args []Expr
	span Span
	args *sitter.Node
}

// DynamicImport is an import(...) expression.
type DynamicImport struct{ Call }

// RequireCall is a require(...) call.
type RequireCall struct{ Call }

// RequireResolveCall is a require.resolve(...) call.
type RequireResolveCall struct{ Call }

func (d ImportDecl) Construct() Construct         { return ConstructImport }
func (d ReExportDecl) Construct() Construct       { return ConstructReExport }
func (c DynamicImport) Construct() Construct      { return ConstructDynamicImport }
func (c RequireCall) Construct() Construct        { return ConstructRequire }
func (c RequireResolveCall) Construct() Construct { return ConstructRequireResolve }
func (d ImportDecl) Span() Span                   { return d.span }
func (d ReExportDecl) Span() Span                 { return d.span }
func (c Call) Span() Span                         { return c.span }

// Expr is a specifier-bearing argument: StringLiteral, Concat, Template or OtherExpr.
type Expr interface {
	Span() Span
}

// StringLiteral is a quoted string. Value is the decoded text.
type StringLiteral struct {
	Value string
	Quote byte
	span  Span
}

// Concat is a binary "+" expression.
type Concat struct {
	Left  Expr
	Right Expr
	span  Span
}

// Template is a template literal. Head is its leading static segment, before
// the first substitution.
type Template struct {
	Head          TemplateElement
	Substitutions int
	span          Span
}

// TemplateElement is one static segment of a template literal.
type TemplateElement struct {
	Cooked string
	Raw    string
	span   Span
}

// OtherExpr is any expression the rewriter does not recognize.
type OtherExpr struct {
	Type string
	span Span
}

func (s StringLiteral) Span() Span   { return s.span }
func (c Concat) Span() Span          { return c.span }
func (t Template) Span() Span        { return t.span }
func (e TemplateElement) Span() Span { return e.span }
func (o OtherExpr) Span() Span       { return o.span }

// Leading returns the string literal at the end of a left-leaning "+" chain,
// or nil when the chain starts with anything else.
func (c Concat) Leading() *StringLiteral {
	var left Expr = c
	for {
		switch e := left.(type) {
		case Concat:
			left = e.Left
		case StringLiteral:
			return &e
		default:
			return nil
		}
	}
}
