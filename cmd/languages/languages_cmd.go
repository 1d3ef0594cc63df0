package languages

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/localize/rewrite"
)

// NewCommand returns a new languages command instance.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List the grammars and file extensions that can be rewritten",
		Long: `List the tree-sitter grammars used to parse sources and the file
extensions mapped to each.

Examples:
  localize languages`,
		RunE: runLanguages,
	}

	return cmd
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	for _, grammar := range rewrite.Grammars() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", grammar.Name, strings.Join(grammar.Extensions, ", ")); err != nil {
			return err
		}
	}

	return nil
}
