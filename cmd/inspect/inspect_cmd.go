package inspect

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/localize/internal/cliutil"
	"github.com/LegacyCodeHQ/localize/internal/discover"
	"github.com/LegacyCodeHQ/localize/internal/runner"
	"github.com/LegacyCodeHQ/localize/transform"
)

type fileEntries struct {
	file    string
	entries []transform.Entry
}

// NewCommand returns a new inspect command instance.
func NewCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [paths...]",
		Short: "List module specifiers and how they would be rewritten",
		Long: `List every import, export, dynamic import, require and require.resolve in the
given files together with its classification and the specifier rewrite would
produce. Nothing is written.

Output formats:
  - text: one block per file (default)
  - json: a flat list of entries
  - dot:  Graphviz graph of files and the packages they load

Examples:
  localize inspect src
  localize inspect src/index.ts --format json
  localize inspect src --format dot | dot -Tsvg > deps.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", OutputFormatText.String(), "Output format: text, json or dot")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string, format string) error {
	outputFormat, err := ParseOutputFormat(format)
	if err != nil {
		return err
	}

	cfg, logger, err := cliutil.Load(cmd)
	if err != nil {
		return err
	}

	files, err := discover.Files(cliutil.PathsOrCurrentDir(args), discover.Options{SkipDirs: runner.SkipDirs(cfg)})
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no JavaScript or TypeScript files found")
	}

	r := runner.New(cfg, logger, nil)
	base := runner.CommonDir(files)

	results := make([]fileEntries, 0, len(files))
	for _, file := range files {
		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		t, err := r.Transformer(file)
		if err != nil {
			return err
		}
		entries, err := t.Inspect(cmd.Context(), file, source)
		if err != nil {
			return err
		}

		name := displayName(base, file)
		for i := range entries {
			entries[i].File = name
		}
		results = append(results, fileEntries{file: name, entries: entries})
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case OutputFormatJSON:
		return writeJSON(out, results)
	case OutputFormatDOT:
		return writeDOT(out, results)
	default:
		return writeText(out, results)
	}
}

func displayName(base, file string) string {
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}
