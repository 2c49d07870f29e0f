package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/docroutes/internal/errors"
	"github.com/vango-dev/docroutes/internal/live"
	"github.com/vango-dev/docroutes/pkg/middleware"
	"github.com/vango-dev/docroutes/pkg/router"
	"github.com/vango-dev/docroutes/pkg/server"
	"github.com/vango-dev/docroutes/pkg/source"
)

func serveCmd(c *cli) *cobra.Command {
	var (
		host    string
		port    int
		preview bool
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a route table over HTTP",
		Long: `Start an HTTP API over the route table.

Endpoints:
  GET /healthz                 readiness and current generation
  GET /api/routes?format=      the table as json, js, yaml or toml
  GET /api/resolve?path=       resolve one request path
  GET /api/leaves              every leaf route
  GET /api/stats               table statistics
  GET /api/query?expr=         evaluate a JSONPath expression
  GET /metrics                 Prometheus metrics
  GET /_docroutes/ws           reload notifications

With --watch the table is reloaded when the file changes (or polled for
S3 sources) and WebSocket clients are told about every reload.

Examples:
  docroutes serve
  docroutes serve --watch --port 8080
  docroutes serve -s s3://my-site/routes.json --watch --preview`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("host") {
				c.cfg.Server.Host = host
			}
			if flags.Changed("port") {
				c.cfg.Server.Port = port
			}
			if flags.Changed("preview") {
				c.cfg.Server.Preview = preview
			}
			if flags.Changed("watch") {
				c.cfg.Watch.Enabled = watch
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", "", "listen host (default from config: localhost)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config: 3030)")
	cmd.Flags().BoolVar(&preview, "preview", false, "resolve every non-API path and answer with the match")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the table when the source changes")

	return cmd
}

// serve loads the table, then runs the HTTP server and the optional
// watcher until ctx is canceled or either fails.
func (c *cli) serve(ctx context.Context) error {
	cfg := c.cfg
	logger := c.logger

	uri := cfg.SourcePath()
	if uri == "" || uri == "-" {
		return errors.New("E103").
			WithDetail("serve needs a file or s3:// source it can reload").
			WithSuggestion("Pass --source or set source in docroutes.yaml")
	}
	src, err := source.Parse(uri, c.sourceOptions())
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var collector *middleware.Collector
	if cfg.Metrics.Enabled {
		collector = middleware.NewCollector(
			middleware.WithRegistry(registry),
			middleware.WithNamespace(cfg.Metrics.Namespace),
		)
	}

	holder := live.NewHolder(live.Config{
		Source:    src,
		Format:    c.inputFormat(),
		Validate:  c.validateOptions(),
		Match:     c.matchOptions(),
		Collector: collector,
		Logger:    logger,
	})
	if _, err := holder.Reload(ctx); err != nil {
		return err
	}
	snap := holder.Current()
	logger.Info("route table loaded",
		"source", snap.Source,
		"entries", snap.Table.Stats().Entries,
		"fingerprint", snap.Fingerprint,
	)

	hub := live.NewHub(logger)
	unsubscribe := holder.Subscribe(hub.Notify)
	defer unsubscribe()

	decorators := []middleware.Decorator{middleware.Logging(logger)}
	if collector != nil {
		decorators = append(decorators, collector.Decorator())
	}
	if cfg.Tracing.Enabled {
		decorators = append(decorators, middleware.Tracing(middleware.WithTracerName(cfg.Tracing.TracerName)))
	}

	srvConfig := server.Config{
		Address:         cfg.Address(),
		Holder:          holder,
		Resolver:        middleware.Chain(router.Resolver(holder), decorators...),
		Hub:             hub,
		Preview:         cfg.Server.Preview,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Logger:          logger,
	}
	if cfg.Metrics.Enabled {
		srvConfig.Gatherer = registry
	}
	srv := server.New(srvConfig)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Run(ctx); err != nil {
			return errors.New("E501").WithDetail(err.Error()).Wrap(err)
		}
		return nil
	})
	if cfg.Watch.Enabled {
		w := holder.Watcher(cfg.Watch.Debounce, cfg.Watch.Interval)
		g.Go(func() error {
			if err := w.Run(ctx); err != nil {
				return errors.New("E502").WithDetail(err.Error()).Wrap(err)
			}
			return nil
		})
		logger.Info("watching for changes", "source", src.String())
	}

	return g.Wait()
}
