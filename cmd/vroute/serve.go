package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vroute/internal/config"
	"github.com/vango-dev/vroute/pkg/integration/wsbridge"
	"github.com/vango-dev/vroute/pkg/middleware"
	"github.com/vango-dev/vroute/pkg/router"
)

func serveCmd() *cobra.Command {
	var (
		configPath string
		listen     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve routers to websocket clients",
		Long: `Serve one router per websocket client.

Clients send their location and navigation requests; the server answers
with history commits and route state. Routes, base path and server
settings come from vroute.json, vroute.toml or vroute.yaml.

Endpoints:
  <wsPath>                       websocket bridge (default /ws)
  /api/sessions                  open sessions
  /api/sessions/{id}/navigate    navigate a session (POST)
  <metrics.path>                 Prometheus metrics (default /metrics)

Examples:
  vroute serve
  vroute serve --config deploy/vroute.yaml --listen :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			return runServe(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file (default: vroute.* in the working directory)")
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to bind (default from config)")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Logger(cmd.ErrOrStderr())
	slog.SetDefault(logger)

	bridge, handler := newServer(cfg, logger, prometheus.NewRegistry())
	defer bridge.Close()

	httpServer := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	w := cmd.OutOrStdout()
	printBanner(w)
	success(w, "Listening on http://%s", cfg.Server.Listen)
	info(w, "websocket  %s", cfg.Server.WSPath)
	info(w, "api        /api/sessions")
	if cfg.Metrics.Enabled {
		info(w, "metrics    %s", cfg.Metrics.Path)
	}
	if len(cfg.Routes) == 0 {
		warn(w, "No routes configured; clients only see the base route")
	}

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen %s: %w", cfg.Server.Listen, err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(w, "\n  Shutting down...")
	bridge.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newServer builds the bridge and the HTTP handler serving it.
func newServer(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) (*wsbridge.Bridge, http.Handler) {
	var (
		routerMetrics *router.Metrics
		bridgeMetrics *wsbridge.Metrics
	)
	if cfg.Metrics.Enabled {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		routerMetrics = router.NewMetrics(
			router.WithNamespace(cfg.Metrics.Namespace),
			router.WithRegistry(registry),
		)
		bridgeMetrics = wsbridge.NewMetrics(cfg.Metrics.Namespace, registry)
	}

	bridge := wsbridge.New(wsbridge.Config{
		Base:           cfg.Base,
		Routes:         cfg.Routes,
		PingInterval:   cfg.PingInterval(),
		WriteTimeout:   cfg.WriteTimeout(),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger.With("component", "wsbridge"),
		RouterMetrics:  routerMetrics,
		Metrics:        bridgeMetrics,
	})

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.OpenTelemetry())
	if cfg.Metrics.Enabled {
		r.Use(middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(registry),
		))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle(cfg.Server.WSPath, bridge)
	r.Mount("/api", bridge.API())
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return bridge, r
}
