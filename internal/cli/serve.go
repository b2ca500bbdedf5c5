package cli

import (

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gravity/internal/api"
	"github.com/matzehuels/gravity/pkg/observability"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout engine over HTTP",
		Long: `Serve the layout engine over HTTP.

Routes:
  POST /v1/layout   tasks → layout (and rendered artifacts)
  POST /v1/angles   weighted tasks → angles
  GET  /healthz     liveness probe
  GET  /metrics     Prometheus metrics

The listen address defaults to [server] addr in the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			hooks := observability.NewPrometheusHooks(reg)
			observability.SetPipelineHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			srv := api.New(runner, api.Options{
				Engine:  cfg.Engine,
				Logger:  c.Logger,
				Metrics: reg,
			})
			printInfo("Serving the layout API")
			printKeyValue("address", "http://"+cfg.Server.Addr)
			printKeyValue("cache", cfg.Cache.Backend)
			printKeyValue("metrics", "http://"+cfg.Server.Addr+"/metrics")
			return srv.ListenAndServe(ctx, cfg.Server.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (host:port)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
