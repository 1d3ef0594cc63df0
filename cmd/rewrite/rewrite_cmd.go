package rewrite

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/LegacyCodeHQ/localize/internal/cliutil"
	"github.com/LegacyCodeHQ/localize/internal/config"
	"github.com/LegacyCodeHQ/localize/internal/discover"
	"github.com/LegacyCodeHQ/localize/internal/runner"
)

type rewriteOptions struct {
	outDir    string
	write     bool
	keepGoing bool
	changed   bool
}

// NewCommand returns a new rewrite command instance.
func NewCommand() *cobra.Command {
	opts := &rewriteOptions{}

	cmd := &cobra.Command{
		Use:   "rewrite [paths...]",
		Short: "Rewrite third-party imports to point into the localized dependency directory",
		Long: `Rewrite the module specifiers of JavaScript and TypeScript files so that
third-party packages are loaded from local_modules (or local_<marker>) instead
of node_modules. Relative specifiers, built-in modules and externals are left
exactly as written.

Directories are searched recursively, honoring .gitignore. A single file is
printed to stdout unless --out or --write is given.

Examples:
  localize rewrite src/index.js
  localize rewrite src --out dist
  localize rewrite --write --changed
  localize rewrite src --write --external react --source-map`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Write results under this directory, mirroring the input layout")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Report unrewritable calls and continue instead of failing the file")
	cmd.Flags().BoolVar(&opts.changed, "changed", false, "Only rewrite uncommitted files of the git repository")
	cmd.Flags().Bool("source-map", false, "Write a source map next to every output file")
	cmd.Flags().IntP("concurrency", "j", 0, "Files transformed in parallel (default: number of CPUs)")

	return cmd
}

func runRewrite(cmd *cobra.Command, args []string, opts *rewriteOptions) error {
	if opts.write && opts.outDir != "" {
		return fmt.Errorf("--write and --out cannot be used together")
	}

	cfg, logger, err := cliutil.Load(cmd)
	if err != nil {
		return err
	}

	files, err := inputFiles(args, opts, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no JavaScript or TypeScript files found")
	}

	toStdout := opts.outDir == "" && !opts.write
	if toStdout && len(files) > 1 {
		return fmt.Errorf("found %d files: use --out or --write to rewrite more than one file", len(files))
	}

	problems := &problemLog{}
	var report func(error)
	if opts.keepGoing {
		report = runner.KeepGoing(logger, problems.add)
	}
	r := runner.New(cfg, logger, report)

	if toStdout {
		result, err := r.File(cmd.Context(), files[0])
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(result.Code); err != nil {
			return err
		}
		return problems.err()
	}

	base := runner.CommonDir(files)
	var rewritten, edits atomic.Int64

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(concurrency(cfg))
	for _, file := range files {
		g.Go(func() error {
			n, err := rewriteFile(ctx, r, file, base, opts)
			if err != nil {
				if opts.keepGoing {
					problems.add(err)
					logger.Error("skipping file", "file", file, "err", err)
					return nil
				}
				return err
			}
			if n > 0 {
				rewritten.Add(1)
				edits.Add(int64(n))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %d specifiers in %d of %d files\n", edits.Load(), rewritten.Load(), len(files))
	return problems.err()
}

func rewriteFile(ctx context.Context, r *runner.Runner, file, base string, opts *rewriteOptions) (int, error) {
	result, err := r.File(ctx, file)
	if err != nil {
		return 0, err
	}

	// In place, untouched files stay untouched.
	if opts.write && !result.Changed() && result.Map == nil {
		return 0, nil
	}

	dest, err := runner.Destination(file, base, opts.outDir)
	if err != nil {
		return 0, err
	}
	if err := runner.Write(dest, result); err != nil {
		return 0, err
	}
	return len(result.Edits), nil
}

func inputFiles(args []string, opts *rewriteOptions, cfg *config.Config) ([]string, error) {
	discoverOpts := discover.Options{SkipDirs: runner.SkipDirs(cfg)}

	if opts.changed {
		if len(args) > 1 {
			return nil, fmt.Errorf("--changed accepts at most one repository path")
		}
		return discover.Changed(cliutil.PathsOrCurrentDir(args)[0], discoverOpts)
	}
	return discover.Files(cliutil.PathsOrCurrentDir(args), discoverOpts)
}

func concurrency(cfg *config.Config) int {
	if cfg.Concurrency > 0 {
		return cfg.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

type problemLog struct {
	mu   sync.Mutex
	errs []error
}

func (p *problemLog) add(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, err)
}

func (p *problemLog) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.errs) == 0 {
		return nil
	}
	return fmt.Errorf("%d problem(s) reported: %w", len(p.errs), errors.Join(p.errs...))
}
