package transform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/LegacyCodeHQ/localize/localize"
	"github.com/LegacyCodeHQ/localize/rewrite"
	"github.com/LegacyCodeHQ/localize/specifier"
)

// Entry describes one specifier-bearing construct.
type Entry struct {
	File      string         `json:"file"`
	Line      int            `json:"line"`
	Column    int            `json:"column"`
	Construct string         `json:"construct"`
	Specifier string         `json:"specifier"`
	Package   string         `json:"package,omitempty"`
	Kind      specifier.Kind `json:"kind"`
	External  bool           `json:"external,omitempty"`
	// Localized is the rewritten specifier, empty when it is left alone.
	Localized string `json:"localized,omitempty"`
	// Error explains why the construct cannot be rewritten.
	Error string `json:"error,omitempty"`
	// Note marks constructs left alone without an error.
	Note string `json:"note,omitempty"`
}

// Inspect lists every candidate in source with its classification and the
// specifier Transform would write. Failures are recorded on the entry rather
// than reported.
func (t *Transformer) Inspect(ctx context.Context, file string, source []byte) ([]Entry, error) {
	m, err := rewrite.Parse(ctx, file, source)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	externals := make(map[string]bool, len(t.opts.Externals))
	for _, name := range t.opts.Externals {
		externals[name] = true
	}

	var entries []Entry
	for _, c := range m.Candidates() {
		line, column := position(source, c.Span().Start)
		entry := Entry{
			File:      file,
			Line:      line,
			Column:    column,
			Construct: c.Construct().String(),
		}

		value, err := m.Specifier(c)
		if errors.Is(err, rewrite.ErrNoStaticText) {
			entry.Note = "computed at run time"
			entries = append(entries, entry)
			continue
		}
		if err != nil {
			entry.Error = describeError(err)
			entries = append(entries, entry)
			continue
		}

		entry.Specifier = value
		entry.Kind = t.classifier.Classify(value)
		if entry.Kind != specifier.KindRelative {
			entry.Package = specifier.PackageName(value)
		}
		entry.External = externals[entry.Package]

		if entry.Kind == specifier.KindPackage && !entry.External {
			var resolveErr error
			localized := t.localizer.Localize(func(err error) { resolveErr = err }, file, value)
			switch {
			case resolveErr != nil:
				entry.Error = describeError(resolveErr)
			case localized != value:
				entry.Localized = localized
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Resolve returns the specifier Transform would write for input referenced
// from file. The error is the resolution failure, if any, in which case input
// is returned unchanged.
func (t *Transformer) Resolve(file, input string) (string, specifier.Kind, error) {
	kind := t.classifier.Classify(input)
	if kind != specifier.KindPackage {
		return input, kind, nil
	}

	var resolveErr error
	out := localize.Adapt(file, t.opts.Externals, t.localizer, func(err error) { resolveErr = err })(input)
	return out, kind, resolveErr
}

// describeError drops the file name and payload that the full error carries,
// since entries already locate the construct.
func describeError(err error) string {
	var classification *rewrite.ClassificationError
	if errors.As(err, &classification) {
		return fmt.Sprintf("%v (%s)", rewrite.ErrInvalidCall, classification.Reason)
	}
	var resolution *localize.ResolutionError
	if errors.As(err, &resolution) {
		return fmt.Sprintf("%v: %v", localize.ErrUnresolvable, resolution.Err)
	}
	return err.Error()
}

// position converts a byte offset into a 1-based line and column, counting
// columns in characters.
func position(source []byte, offset uint32) (int, int) {
	before := source[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	lineStart := bytes.LastIndexByte(before, '\n') + 1
	return line, utf8.RuneCount(before[lineStart:]) + 1
}
