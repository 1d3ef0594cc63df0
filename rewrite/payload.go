package rewrite

import sitter "github.com/smacker/go-tree-sitter"

// positionKeys are dropped from error payloads so messages do not change when
// unrelated code moves.
var positionKeys = []string{"start", "end", "loc"}

// FilterKeys returns a deep copy of a map/slice tree without the given keys,
// at any depth. Scalars are returned as is.
func FilterKeys(value any, keys ...string) any {
	excluded := make(map[string]bool, len(keys))
	for _, k := range keys {
		excluded[k] = true
	}
	return filterKeys(value, excluded)
}

func filterKeys(value any, excluded map[string]bool) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, child := range v {
			if excluded[k] {
				continue
			}
			out[k] = filterKeys(child, excluded)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = filterKeys(child, excluded)
		}
		return out
	default:
		return value
	}
}

// describe renders a node as a generic tree, including its positions.
func (m *Module) describe(n *sitter.Node) map[string]any {
	start, end := n.StartPoint(), n.EndPoint()
	desc := map[string]any{
		"type":  n.Type(),
		"start": n.StartByte(),
		"end":   n.EndByte(),
		"loc": map[string]any{
			"start": map[string]any{"line": start.Row + 1, "column": start.Column},
			"end":   map[string]any{"line": end.Row + 1, "column": end.Column},
		},
	}

	if n.NamedChildCount() == 0 {
		desc["text"] = m.text(n)
		return desc
	}

	children := make([]any, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		children = append(children, m.describe(n.NamedChild(i)))
	}
	desc["children"] = children
	return desc
}

// argumentsPayload describes the arguments of a call without position metadata.
func (m *Module) argumentsPayload(args *sitter.Node) []any {
	payload := []any{}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		child := args.NamedChild(i)
		if child.Type() == "comment" {
			continue
		}
		payload = append(payload, FilterKeys(m.describe(child), positionKeys...))
	}
	return payload
}
