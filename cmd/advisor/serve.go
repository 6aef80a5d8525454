package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/OldStager01/scaling-advisor/api"
	"github.com/OldStager01/scaling-advisor/internal/logger"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API, the scheduler and the metrics endpoint",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			a.registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)
			a.orchestrator.Start()

			g, gctx := errgroup.WithContext(ctx)
			shutdownTimeout := cfg.App.ShutdownTimeout
			if shutdownTimeout <= 0 {
				shutdownTimeout = 30 * time.Second
			}

			if cfg.API.Enabled {
				server := api.NewServer(cfg.API, api.Options{
					Mode:       cfg.App.Mode,
					Deployment: cfg.Deployment.Ref(),
					Runner:     a.orchestrator,
					Events:     a.orchestrator.SubscribeAllEvents(),
					Users:      a.users,
					Audit:      a.auditQuerier(),
					Store:      a.store,
					Checks:     a.healthChecks(),
					WebSocket:  &cfg.WebSocket,
				})

				g.Go(func() error {
					logger.Infof("API server listening on port %d", cfg.API.Port)
					return server.Start()
				})
				g.Go(func() error {
					<-gctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					return server.Shutdown(shutdownCtx)
				})
			}

			if cfg.Prometheus.Enabled {
				metricsServer := a.metrics.NewServer(cfg.Prometheus.Port)

				g.Go(func() error {
					logger.Infof("Metrics server listening on port %d", cfg.Prometheus.Port)
					if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						return err
					}
					return nil
				})
				g.Go(func() error {
					<-gctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
					defer cancel()
					return metricsServer.Shutdown(shutdownCtx)
				})
			}

			if cfg.Schedule.Enabled {
				g.Go(func() error {
					return a.orchestrator.RunScheduler(gctx)
				})
			}

			err = g.Wait()
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			logger.Info("Advisor stopped gracefully")
			return nil
		},
	}
}
