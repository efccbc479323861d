package cli

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/airvair/stampgraph/internal/server"
	"github.com/airvair/stampgraph/pkg/buildinfo"
	"github.com/airvair/stampgraph/pkg/cache"
	"github.com/airvair/stampgraph/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		backend string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

  POST /v1/layout   model JSON in, positioned diagram JSON out
  POST /v1/dot      model JSON in, DOT (or SVG with ?format=svg) out
  GET  /healthz     liveness
  GET  /metrics     Prometheus metrics

The cache backend defaults to the config; use memory for a single process
and redis to share results between replicas.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("cache") {
				cfg.Cache.Backend = backend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			observability.NewPrometheusHooks(reg).Install()
			defer observability.Reset()

			runner, err := c.newRunner(ctx, cfg, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(nil, buildinfo.Version+":")

			printInfo("Serving on %s (cache: %s)", StyleHighlight.Render(cfg.Server.Addr), cfg.Cache.Backend)
			return server.New(runner, cfg, loggerFromContext(ctx), reg).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: none, memory, file, redis")

	return cmd
}
