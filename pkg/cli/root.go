// Package cli wires configuration, storage and services into the cobra
// commands of the roadside binary.
package cli

import (
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	LogLevel string
	Storage  string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "roadside",
		Short: "Roadside assistance dispatch",
		Long: `Roadside assistance dispatch service.

Drivers report breakdowns, managers assign them to mechanics and mechanics
work them to completion. Configuration is read from the environment and
from an optional .env file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override LOGGER_LEVEL (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", "", "override STORAGE_DRIVER (postgres|memory)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))

	return cmd
}
