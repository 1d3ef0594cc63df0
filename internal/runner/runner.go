// Package runner applies the transform to files on disk using the loaded
// configuration.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/LegacyCodeHQ/localize/internal/config"
	"github.com/LegacyCodeHQ/localize/internal/manifest"
	"github.com/LegacyCodeHQ/localize/internal/sourcemap"
	"github.com/LegacyCodeHQ/localize/localize"
	"github.com/LegacyCodeHQ/localize/transform"
)

// Runner hands out transformers whose externals combine the configured list
// with the dependencies of each file's nearest package.json. It is safe for
// concurrent use when report is.
type Runner struct {
	cfg    *config.Config
	logger *log.Logger
	report func(error)

	mu           sync.Mutex
	transformers map[string]*transform.Transformer
}

// New returns a Runner. A nil report selects the transform's default policy.
func New(cfg *config.Config, logger *log.Logger, report func(error)) *Runner {
	return &Runner{
		cfg:          cfg,
		logger:       logger,
		report:       report,
		transformers: make(map[string]*transform.Transformer),
	}
}

// Transformer returns the transformer for file.
func (r *Runner) Transformer(file string) (*transform.Transformer, error) {
	key := ""
	var m *manifest.Manifest
	if r.cfg.Manifest {
		var err error
		m, err = manifest.Nearest(filepath.Dir(file))
		if err != nil {
			return nil, err
		}
		if m != nil {
			key = m.Path
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.transformers[key]; ok {
		return t, nil
	}

	externals := append([]string{}, r.cfg.Externals...)
	externals = append(externals, m.Externals()...)
	if m != nil {
		r.logger.Debug("loaded externals from manifest", "manifest", m.Path, "count", len(m.Externals()))
	}

	t := transform.New(transform.Options{
		Externals: externals,
		Report:    r.report,
		Layout:    r.cfg.LayoutValue(),
		Marker:    r.cfg.Marker,
		Builtins:  r.cfg.Builtins,
		SourceMap: r.cfg.SourceMaps,
		Logger:    r.logger,
	})
	r.transformers[key] = t
	return t, nil
}

// File reads and transforms file.
func (r *Runner) File(ctx context.Context, file string) (*transform.Result, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	t, err := r.Transformer(file)
	if err != nil {
		return nil, err
	}

	result, err := t.Transform(ctx, file, source)
	if err != nil {
		return nil, fmt.Errorf("failed to transform %s: %w", file, err)
	}
	return result, nil
}

// Write stores result at dest, creating parent directories. When the result
// has a source map it is written to dest + ".map" and linked from the code.
func Write(dest string, result *transform.Result) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	code := result.Code
	if result.Map != nil {
		mapFile := dest + ".map"
		data, err := result.Map.Encode()
		if err != nil {
			return err
		}
		if err := os.WriteFile(mapFile, data, 0o644); err != nil {
			return fmt.Errorf("failed to write source map: %w", err)
		}
		code = appendComment(code, sourcemap.Comment(filepath.Base(mapFile)))
	}

	if err := os.WriteFile(dest, code, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}

// Destination maps file to its output path: in place when outDir is empty,
// otherwise mirrored under outDir relative to base.
func Destination(file, base, outDir string) (string, error) {
	if outDir == "" {
		return file, nil
	}
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return "", fmt.Errorf("failed to relate %s to %s: %w", file, base, err)
	}
	return filepath.Join(outDir, rel), nil
}

// KeepGoing returns a reporter that lets every file finish. Resolution
// failures are logged at Warn and the specifier stays as written; any other
// failure is logged at Error and passed to record when it is non-nil.
func KeepGoing(logger *log.Logger, record func(error)) func(error) {
	return func(err error) {
		var resolution *localize.ResolutionError
		if errors.As(err, &resolution) {
			logger.Warn("leaving specifier unchanged", "file", resolution.Reference, "specifier", resolution.Specifier, "err", resolution.Err)
			return
		}
		logger.Error(err.Error())
		if record != nil {
			record(err)
		}
	}
}

// SkipDirs returns the dependency directory names discovery must not enter.
func SkipDirs(cfg *config.Config) []string {
	return []string{cfg.Marker, localize.LocalMarker(cfg.Marker)}
}

func appendComment(code []byte, comment string) []byte {
	out := make([]byte, 0, len(code)+len(comment)+1)
	out = append(out, code...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, comment...)
	return append(out, '\n')
}

// CommonDir returns the deepest directory containing every file.
func CommonDir(files []string) string {
	if len(files) == 0 {
		return ""
	}
	common := filepath.Dir(files[0])
	for _, file := range files[1:] {
		dir := filepath.Dir(file)
		for !within(dir, common) {
			parent := filepath.Dir(common)
			if parent == common {
				break
			}
			common = parent
		}
	}
	return common
}

func within(dir, ancestor string) bool {
	rel, err := filepath.Rel(ancestor, dir)
	return err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
