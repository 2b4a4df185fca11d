package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"SearchRerank/internal/app"
)

func newServeCmd(c *cli) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the search and rerank HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := c.cfg
			if cmd.Flags().Changed("listen") {
				cfg.HTTP.Listen = listen
			}

			application, err := app.New(cfg, c.logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return application.Serve(ctx)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "address to listen on, like `localhost:8080`")
	return cmd
}
