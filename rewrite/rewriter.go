package rewrite

import (
	"github.com/LegacyCodeHQ/localize/specifier"
)

// Rewriter replaces eligible specifiers in a module.
type Rewriter struct {
	classifier *specifier.Classifier
	report     func(error)
}

// Output is the rewritten source and the edits that produced it.
type Output struct {
	Code  []byte
	Edits []Edit
}

// New returns a Rewriter. With a nil report the first classification failure
// aborts Rewrite; otherwise failures are reported and the offending call is
// left as written.
func New(classifier *specifier.Classifier, report func(error)) *Rewriter {
	if classifier == nil {
		classifier = specifier.NewClassifier()
	}
	return &Rewriter{classifier: classifier, report: report}
}

// Rewrite visits every candidate in m and replaces eligible specifiers with
// localize(specifier). Only the specifier text changes; everything else in
// the source is preserved byte for byte.
func (r *Rewriter) Rewrite(m *Module, localize func(string) string) (*Output, error) {
	var edits []Edit

	for _, c := range m.Candidates() {
		t, err := m.target(c)
		if err != nil {
			if r.report == nil {
				return nil, err
			}
			r.report(err)
			continue
		}

		if t.dynamic || !r.classifier.NeedsLocalization(t.value) {
			continue
		}

		localized := localize(t.value)
		if localized == t.value {
			continue
		}

		edits = append(edits, Edit{
			Span:     t.span,
			Original: string(m.Source[t.span.Start:t.span.End]),
			Text:     t.render(localized),
		})
	}

	return &Output{Code: Apply(m.Source, edits), Edits: edits}, nil
}
