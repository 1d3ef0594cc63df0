package rewrite

import (
	"fmt"
)

// target is the part of a candidate's specifier that may be rewritten.
type target struct {
	value  string
	span   Span
	render func(string) string
	// dynamic targets have no static text to classify.
	dynamic bool
}

// Specifier returns the static specifier text of a candidate: the literal
// itself, the leading literal of a "+" chain, or the head of a template.
func (m *Module) Specifier(c Candidate) (string, error) {
	t, err := m.target(c)
	if err != nil {
		return "", err
	}
	if t.dynamic {
		return "", ErrNoStaticText
	}
	return t.value, nil
}

func (m *Module) target(c Candidate) (target, error) {
	switch c := c.(type) {
	case ImportDecl:
		return literalTarget(c.Source), nil
	case ReExportDecl:
		return literalTarget(c.Source), nil
	case DynamicImport:
		return m.callTarget(c.Construct(), c.Call)
	case RequireCall:
		return m.callTarget(c.Construct(), c.Call)
	case RequireResolveCall:
		return m.callTarget(c.Construct(), c.Call)
	default:
		return target{}, fmt.Errorf("unrecognized candidate %T", c)
	}
}

func (m *Module) callTarget(construct Construct, call Call) (target, error) {
	if len(call.Args) != 1 {
		return target{}, m.invalid(construct, call, fmt.Sprintf("expected 1 argument, got %d", len(call.Args)))
	}

	switch arg := call.Args[0].(type) {
	case StringLiteral:
		return literalTarget(arg), nil
	case Concat:
		leading := arg.Leading()
		if leading == nil {
			return target{}, m.invalid(construct, call, "concatenation does not start with a string literal")
		}
		return literalTarget(*leading), nil
	case Template:
		return target{
			value:   arg.Head.Cooked,
			span:    arg.Head.span,
			render:  escapeTemplate,
			dynamic: arg.Head.Raw == "" && arg.Substitutions > 0,
		}, nil
	case OtherExpr:
		return target{}, m.invalid(construct, call, "unsupported argument "+arg.Type)
	default:
		return target{}, m.invalid(construct, call, fmt.Sprintf("unsupported argument %T", arg))
	}
}

func literalTarget(lit StringLiteral) target {
	return target{
		value: lit.Value,
		span:  lit.span,
		render: func(s string) string {
			return quote(s, lit.Quote)
		},
	}
}

func (m *Module) invalid(construct Construct, call Call, reason string) error {
	return &ClassificationError{
		File:      m.Path,
		Construct: construct,
		Reason:    reason,
		Payload:   m.argumentsPayload(call.args),
	}
}
