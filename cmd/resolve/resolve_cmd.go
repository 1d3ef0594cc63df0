package resolve

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/localize/internal/cliutil"
	"github.com/LegacyCodeHQ/localize/internal/runner"
	"github.com/LegacyCodeHQ/localize/specifier"
)

// NewCommand returns a new resolve command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <reference-file> <specifier>",
		Short: "Show how one specifier would be rewritten",
		Long: `Show the package name, classification and localized form of a specifier
as if it appeared in the reference file. The reference file does not need to
exist; only its directory is used to find the installed package.

Examples:
  localize resolve src/index.js lodash/get
  localize resolve packages/app/main.ts @scope/util`,
		Args: cobra.ExactArgs(2),
		RunE: runResolve,
	}

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, logger, err := cliutil.Load(cmd)
	if err != nil {
		return err
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve reference file: %w", err)
	}
	input := args[1]

	t, err := runner.New(cfg, logger, nil).Transformer(file)
	if err != nil {
		return err
	}
	localized, kind, resolveErr := t.Resolve(file, input)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "specifier: %s\n", input)
	if kind != specifier.KindRelative {
		fmt.Fprintf(out, "package:   %s\n", specifier.PackageName(input))
	}
	fmt.Fprintf(out, "kind:      %s\n", kind)
	fmt.Fprintf(out, "localized: %s\n", localized)

	if resolveErr != nil {
		return resolveErr
	}
	return nil
}
