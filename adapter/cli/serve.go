package cli

import (
	"context"
	"time"

	"github.com/felixgeelhaar/gymstore/adapter/api"
	"github.com/spf13/cobra"
)

var (
	serveAddr      string
	serveWithRelay bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Long: `Serve the HTTP JSON API until interrupted.

The outbox relay runs in the same process unless --relay=false is given,
in which case run 'gymstore relay' separately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := GetApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		cfg := api.DefaultServerConfig()
		cfg.Addr = c.Config.HTTPAddr
		if serveAddr != "" {
			cfg.Addr = serveAddr
		}
		server := api.NewServer(cfg, c, c.Logger)

		if serveWithRelay {
			if err := c.OutboxProcessor.Start(ctx); err != nil {
				return err
			}
			defer c.OutboxProcessor.Stop()
		}

		errCh := make(chan error, 1)
		go func() { errCh <- server.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to GYMSTORE_HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&serveWithRelay, "relay", true, "run the outbox relay in-process")
	rootCmd.AddCommand(serveCmd)
}
