package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every user and assistance request",
		Long:  "Delete every user and assistance request. The problem-type catalog is kept.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			a, err := bootstrap(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.stg.Reset(cmd.Context()); err != nil {
				return err
			}
			a.log.Info("database reset")
			fmt.Fprintln(cmd.OutOrStdout(), "all users and requests deleted")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
