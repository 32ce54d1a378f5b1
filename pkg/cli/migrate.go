package cli

import (
	"github.com/spf13/cobra"

	"roadside/pkg/logger"
	"roadside/storage/postgres"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the Postgres schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(rootOpts)
			return postgres.MigrateUp(cfg.PostgresURL(), logger.New(cfg.ServiceName, cfg.LoggerLevel))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(rootOpts)
			return postgres.MigrateDown(cfg.PostgresURL(), logger.New(cfg.ServiceName, cfg.LoggerLevel))
		},
	})

	return cmd
}
