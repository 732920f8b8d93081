package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/datacapflow/core/cmd/api/middleware"
	"github.com/datacapflow/core/internal/config"
	"github.com/datacapflow/core/internal/handlers"
	"github.com/datacapflow/core/internal/observability"
	"github.com/datacapflow/core/internal/parser"
	"github.com/datacapflow/core/internal/upstream"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runServer(ctx, cfg)
	},
}

func graphOptions(cfg config.Config) parser.GraphOptions {
	return parser.GraphOptions{
		FaucetName:        cfg.Graph.FaucetName,
		PlaceholderWeight: cfg.Graph.PlaceholderWeight,
	}
}

func newDeps(cfg config.Config, metrics *observability.Metrics) *handlers.Deps {
	return &handlers.Deps{
		Source: upstream.New(cfg.Upstream,
			upstream.WithLogger(logger.Named("upstream")),
			upstream.WithMetrics(metrics)),
		Graph:          graphOptions(cfg),
		MaxAuditRounds: cfg.Graph.MaxAuditRounds,
		Logger:         logger.Named("handlers"),
		Metrics:        metrics,
	}
}

func setupRouter(cfg config.Config, deps *handlers.Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger.Named("http"), deps.Metrics),
		middleware.Cors(cfg.Server.CorsAllowedOrigin),
	)
	handlers.SetupRoutes(router, deps)
	return router
}

func runServer(ctx context.Context, cfg config.Config) error {
	metrics := observability.NewMetrics()
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           setupRouter(cfg, newDeps(cfg, metrics)),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("addr", cfg.Server.Addr),
			zap.String("allocators_url", cfg.Upstream.AllocatorsURL),
			zap.String("audits_url", cfg.Upstream.AuditsURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
