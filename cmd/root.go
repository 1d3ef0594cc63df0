package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/localize/cmd/inspect"
	"github.com/LegacyCodeHQ/localize/cmd/languages"
	"github.com/LegacyCodeHQ/localize/cmd/resolve"
	"github.com/LegacyCodeHQ/localize/cmd/rewrite"
	"github.com/LegacyCodeHQ/localize/cmd/watch"
	"github.com/LegacyCodeHQ/localize/internal/config"
	"github.com/LegacyCodeHQ/localize/localize"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand()

// NewRootCommand returns the localize command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "localize",
		Short: "Point third-party imports at a localized copy of node_modules",
		Long: `Localize rewrites the module specifiers of JavaScript and TypeScript sources
so that third-party packages resolve from a renamed dependency directory
(local_modules) next to the output, instead of node_modules.

Relative specifiers and built-in modules are never changed. Packages listed as
externals, including the dependencies of the nearest package.json, are left
exactly as written.

Configuration is read from .localize.{yaml,yml,toml,json} in the working
directory, LOCALIZE_* environment variables (a .env file is loaded first) and
the flags below.

Use 'localize --help' to see all available commands, or 'localize <command> --help'
for detailed information about a specific command.`,
	}

	flags := cmd.PersistentFlags()
	flags.String(config.FlagConfig, "", "Config file (default: .localize.{yaml,yml,toml,json} in the working directory)")
	flags.BoolP("verbose", "v", false, "Log every rewritten specifier")
	flags.String("marker", localize.DefaultMarker, "Dependency directory name; rewrites target local_<marker>")
	flags.String("layout", localize.LayoutResolved.String(), "Path layout: resolved (from installed packages) or flat (../local_<marker>/...)")
	flags.StringSlice("external", nil, "Package names to leave untouched (repeatable)")
	flags.StringSlice("builtin", nil, "Extra module names to treat as platform built-ins (repeatable)")
	flags.Bool("manifest", true, "Treat the dependencies of the nearest package.json as externals")

	cmd.AddCommand(rewrite.NewCommand())
	cmd.AddCommand(watch.NewCommand())
	cmd.AddCommand(inspect.NewCommand())
	cmd.AddCommand(resolve.NewCommand())
	cmd.AddCommand(languages.NewCommand())

	cmd.Annotations = map[string]string{
		"buildDate": buildDate,
		"commit":    commit,
	}
	cmd.Version = version

	return cmd
}

func versionString() string {
	if version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
