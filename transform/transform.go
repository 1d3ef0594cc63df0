// Package transform localizes the third-party specifiers of one source file.
// It is the entry point used by bundler integrations and the CLI.
package transform

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/LegacyCodeHQ/localize/internal/sourcemap"
	"github.com/LegacyCodeHQ/localize/localize"
	"github.com/LegacyCodeHQ/localize/rewrite"
	"github.com/LegacyCodeHQ/localize/specifier"
)

// Options configures a Transformer.
type Options struct {
	// Externals are package names left exactly as written.
	Externals []string
	// Report receives classification and resolution failures. When nil, a
	// classification failure aborts the file and resolution failures are
	// logged at warn level.
	Report func(error)
	// Layout selects how localized paths are computed.
	Layout localize.Layout
	// Marker is the dependency directory name. Defaults to node_modules.
	Marker string
	// Resolver finds package roots for LayoutResolved. Defaults to a
	// NodeResolver for Marker.
	Resolver localize.Resolver
	// Builtins are extra module names treated as platform built-ins.
	Builtins []string
	// SourceMap requests a source map in the Result.
	SourceMap bool
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Result is the transformed file.
type Result struct {
	Code  []byte
	Map   *sourcemap.Map
	Edits []rewrite.Edit
}

// Changed reports whether any specifier was rewritten.
func (r *Result) Changed() bool {
	return len(r.Edits) > 0
}

// Transformer applies one set of Options to many files. It is safe for
// concurrent use when Options.Report is.
type Transformer struct {
	opts       Options
	classifier *specifier.Classifier
	localizer  localize.PathLocalizer
	logger     *log.Logger
}

// New returns a Transformer for opts.
func New(opts Options) *Transformer {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	var localizer localize.PathLocalizer
	switch opts.Layout {
	case localize.LayoutFlat:
		localizer = localize.Flat{Marker: opts.Marker}
	default:
		localizer = localize.New(opts.Resolver, opts.Marker)
	}

	return &Transformer{
		opts:       opts,
		classifier: specifier.NewClassifier(opts.Builtins...),
		localizer:  localizer,
		logger:     logger,
	}
}

// Transform is a shorthand for New(opts).Transform.
func Transform(ctx context.Context, file string, source []byte, opts Options) (*Result, error) {
	return New(opts).Transform(ctx, file, source)
}

// Transform parses source as file and rewrites every eligible specifier.
func (t *Transformer) Transform(ctx context.Context, file string, source []byte) (*Result, error) {
	m, err := rewrite.Parse(ctx, file, source)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	if m.HasErrors() {
		t.logger.Warn("source has syntax errors, rewriting what parsed", "file", file)
	}

	localizeFn := localize.Adapt(file, t.opts.Externals, t.localizer, t.resolutionReport(file))
	out, err := rewrite.New(t.classifier, t.opts.Report).Rewrite(m, localizeFn)
	if err != nil {
		return nil, err
	}

	for _, e := range out.Edits {
		t.logger.Debug("rewrote specifier", "file", file, "from", e.Original, "to", e.Text)
	}

	result := &Result{Code: out.Code, Edits: out.Edits}
	if t.opts.SourceMap {
		result.Map, err = sourceMap(file, source, out.Edits)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (t *Transformer) resolutionReport(file string) func(error) {
	if t.opts.Report != nil {
		return t.opts.Report
	}
	return func(err error) {
		var resolution *localize.ResolutionError
		if errors.As(err, &resolution) {
			t.logger.Warn("leaving specifier unchanged", "file", file, "specifier", resolution.Specifier, "err", resolution.Err)
			return
		}
		t.logger.Warn("leaving specifier unchanged", "file", file, "err", err)
	}
}

func sourceMap(file string, source []byte, edits []rewrite.Edit) (*sourcemap.Map, error) {
	replacements := make([]sourcemap.Replacement, len(edits))
	for i, e := range edits {
		replacements[i] = sourcemap.Replacement{Start: int(e.Start), End: int(e.End), Text: e.Text}
	}

	name := filepath.Base(file)
	m, err := sourcemap.Generate(name, name, source, replacements)
	if err != nil {
		return nil, fmt.Errorf("failed to build source map for %s: %w", file, err)
	}
	return m, nil
}
