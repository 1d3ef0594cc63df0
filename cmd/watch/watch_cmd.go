package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/localize/internal/cliutil"
	"github.com/LegacyCodeHQ/localize/internal/discover"
	"github.com/LegacyCodeHQ/localize/internal/runner"
)

// digestCacheSize bounds how many files the watcher remembers.
const digestCacheSize = 4096

type watchOptions struct {
	outDir    string
	write     bool
	keepGoing bool
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Rewrite sources whenever they change",
		Long: `Rewrite every JavaScript and TypeScript file under a directory, then keep
watching it and rewrite files again as they are saved.

Files whose content has not changed since they were last processed are skipped,
so rewriting in place does not trigger itself.

Examples:
  localize watch src --out dist
  localize watch --write`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "Write results under this directory, mirroring the input layout")
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "Rewrite files in place")
	cmd.Flags().BoolVar(&opts.keepGoing, "keep-going", false, "Report unrewritable calls and continue instead of failing the file")
	cmd.Flags().Bool("source-map", false, "Write a source map next to every output file")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string, opts *watchOptions) error {
	if opts.write == (opts.outDir != "") {
		return fmt.Errorf("exactly one of --out or --write is required")
	}

	cfg, logger, err := cliutil.Load(cmd)
	if err != nil {
		return err
	}

	root, err := filepath.Abs(cliutil.PathsOrCurrentDir(args)[0])
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("%s is not a directory", root)
	}

	var report func(error)
	if opts.keepGoing {
		report = runner.KeepGoing(logger, nil)
	}

	w, err := newWatcher(root, opts, cfg, runner.New(cfg, logger, report), logger)
	if err != nil {
		return err
	}

	files, err := discover.Files([]string{root}, discover.Options{SkipDirs: runner.SkipDirs(cfg)})
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	n := w.processAll(ctx, files)
	fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %d of %d files\n", n, len(files))
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", root)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return w.run(ctx)
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
