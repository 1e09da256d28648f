package cli

import (
	"github.com/spf13/cobra"

	"github.com/evotree/evotree/pkg/api"
	"github.com/evotree/evotree/pkg/observability"
)

// serveCommand creates the "serve" command, which exposes the workspace
// over HTTP with Prometheus metrics at /metrics.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			a, err := c.open(ctx)
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			metrics := observability.NewMetrics(nil)
			metrics.Install()
			defer observability.Reset()

			srv := api.New(a.runner, a.ws, api.Options{
				Metrics: metrics.Handler(),
				Logger:  c.Logger,
			})
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, \":8080\")")
	return cmd
}
