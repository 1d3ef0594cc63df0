// Package cliutil holds the setup shared by the CLI subcommands.
package cliutil

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/LegacyCodeHQ/localize/internal/config"
	"github.com/LegacyCodeHQ/localize/internal/logging"
)

// Load reads the configuration for cmd from its flags, the config file and
// the environment, and builds a logger writing to the command's stderr.
func Load(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.FromFlags(cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.Verbose)
	if cfg.File != "" {
		logger.Debug("using config file", "path", cfg.File)
	}
	return cfg, logger, nil
}

// PathsOrCurrentDir returns args, or the current directory when empty.
func PathsOrCurrentDir(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
