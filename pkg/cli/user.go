package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"roadside/pkg/models"
)

type UserCreateOptions struct {
	*RootOptions
	Name     string
	Email    string
	Password string
	Role     string
}

func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(NewUserCreateCommand(rootOpts))
	cmd.AddCommand(NewUserSetRoleCommand(rootOpts))
	return cmd
}

func NewUserCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create an account with any role",
		Example: `  roadside user create --name "Ana" --email ana@example.com --password s3cret! --role MECHANIC`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), opts.RootOptions)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.svc.User().Create(cmd.Context(), models.NewUser{
				Name:     opts.Name,
				Email:    opts.Email,
				Password: opts.Password,
				Role:     parseRole(opts.Role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "display name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "initial password (required)")
	cmd.Flags().StringVar(&opts.Role, "role", string(models.RoleDriver), "DRIVER, MECHANIC or MANAGER")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func NewUserSetRoleCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "set-role <email> <role>",
		Short:   "Change the role of an existing account",
		Example: `  roadside user set-role ana@example.com MANAGER`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := bootstrap(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer a.Close()

			user, err := a.svc.User().SetRole(cmd.Context(), args[0], parseRole(args[1]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Email, user.Role)
			return nil
		},
	}
}

func parseRole(s string) models.Role {
	return models.Role(strings.ToUpper(strings.TrimSpace(s)))
}
