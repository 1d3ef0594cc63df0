package rewrite

import "sort"

// Edit replaces a span of the source with new text.
type Edit struct {
	Span
	Original string
	Text     string
}

// Apply returns source with the edits applied. Edits must not overlap.
func Apply(source []byte, edits []Edit) []byte {
	if len(edits) == 0 {
		out := make([]byte, len(source))
		copy(out, source)
		return out
	}

	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	out := make([]byte, 0, len(source))
	var last uint32
	for _, e := range sorted {
		out = append(out, source[last:e.Start]...)
		out = append(out, e.Text...)
		last = e.End
	}
	return append(out, source[last:]...)
}
