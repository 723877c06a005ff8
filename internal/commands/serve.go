package commands

import (
	"os/signal"
	"syscall"

	"github.com/redjax/notedash/internal/config"
	"github.com/redjax/notedash/internal/mockapi"
	"github.com/spf13/cobra"
)

// NewServeCmd runs the in-memory dev Note Service.
func NewServeCmd(getConfig func() *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run an in-memory Note Service for local development",
		Long: `Start a Note Service that keeps accounts and notes in memory. Everything is lost when it stops.
Point the client at it with --api-url or NOTEDASH_API_URL.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()

			ctx, stop := signal.NotifyContext(contextOrBackground(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := mockapi.NewServer(mockapi.NewStore(), mockapi.Options{
				Secret:   cfg.ServeSecret,
				TokenTTL: cfg.TokenTTL,
			})

			return srv.ListenAndServe(ctx, cfg.ServeAddr)
		},
	}

	cmd.Flags().String("serve-addr", "", "Address to listen on (default 127.0.0.1:8000)")

	return cmd
}
