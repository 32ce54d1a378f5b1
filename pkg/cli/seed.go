package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"roadside/service"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Install the problem-type catalog and demo accounts",
		Long: `Install the problem-type catalog and the demo accounts:

  gerente@exemplo.com      MANAGER
  mecanico1@exemplo.com    MECHANIC
  mecanico2@exemplo.com    MECHANIC
  condutor1@exemplo.com    DRIVER
  condutor2@exemplo.com    DRIVER

Existing accounts are left untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.svc.Seed(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seed complete, demo password is %s\n", service.DemoPassword)
			return nil
		},
	}
}
