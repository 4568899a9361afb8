package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/api"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/learning"
	"github.com/sanjeevkumarraob/adaptive-summarizer/internal/observability"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the learning scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()
			if port, _ := cmd.Flags().GetInt("port"); port > 0 {
				cfg.Server.Port = port
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := observability.Setup(ctx, cfg.Tracing, observability.Options{
				Environment: cfg.Env,
				Version:     version,
			}, log)
			if err != nil {
				return fmt.Errorf("failed to set up tracing: %w", err)
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := shutdownTracing(sctx); err != nil {
					log.Warn("tracing shutdown failed", "error", err)
				}
			}()

			a, err := newApp(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.IsProduction() {
				gin.SetMode(gin.ReleaseMode)
			}
			routerCfg := api.RouterConfig{
				AllowedOrigins: cfg.Server.AllowedOrigins,
				MaxUploadBytes: cfg.Server.MaxUploadBytes,
			}
			if cfg.Tracing.Enabled {
				routerCfg.ServiceName = cfg.Tracing.ServiceName
			}
			handler := api.NewHandler(a.pipeline, a.store, a.controller, a.jwt, log)
			server := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
				Handler:      api.NewRouter(handler, routerCfg, log),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
			}

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				log.Info("server starting", "addr", server.Addr, "env", cfg.Env)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			})
			g.Go(func() error {
				<-gctx.Done()
				sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				log.Info("server shutting down")
				return server.Shutdown(sctx)
			})
			if cfg.Learning.Enabled {
				scheduler := &learning.Scheduler{
					InitialDelay: cfg.Learning.InitialDelay,
					Interval:     cfg.Learning.Interval,
					Job: func(ctx context.Context) {
						res := a.controller.Run(ctx)
						log.Debug("scheduled learning cycle finished", "outcome", string(res.Outcome))
					},
				}
				g.Go(func() error { return scheduler.Start(gctx) })
			}
			return g.Wait()
		},
	}
	cmd.Flags().Int("port", 0, "Override the configured server port")
	return cmd
}
