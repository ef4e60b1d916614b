package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/trackbump/pkg/api"
	"github.com/matzehuels/trackbump/pkg/store"
)

// serveCommand runs the HTTP layout service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Layouts are kept in memory unless [store] selects MongoDB. The service stops
gracefully on interrupt.`,
		Example: `  trackbump serve --addr :9000
  curl -s localhost:9000/v1/modes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("store") {
				cfg.Store.Backend = backend
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			st, err := store.Open(ctx, cfg.Store)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close(context.Background())

			srv := api.NewServer(runner, st,
				api.WithLogger(c.Logger),
				api.WithTrackDefaults(api.TrackDefaults{
					BaseWidth:    cfg.Track.BaseWidth,
					Spacing:      cfg.Track.Spacing,
					DefaultWidth: cfg.Track.DefaultWidth,
				}),
			)
			c.Logger.Info("starting server", "addr", cfg.Server.Addr, "store", cfg.Store.Backend, "cache", c.cacheLocation())
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: from config)")
	cmd.Flags().StringVar(&backend, "store", "", "layout store: memory, mongo (default: from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
