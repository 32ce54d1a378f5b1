package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"roadside/pkg/api"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rootOpts)
		},
	}
}

func serve(ctx context.Context, opts *RootOptions) error {
	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.JWTSecret == "change-me" {
		a.log.Warning("JWT_SECRET is the default value, set it before exposing the service")
	}

	srv := api.NewServer(a.svc, a.stg, a.log, api.Options{
		CookieSecure:    a.cfg.CookieSecure,
		ShutdownTimeout: a.cfg.ShutdownTimeout,
	})
	return srv.Run(ctx, a.cfg.HTTPAddr())
}
