package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nodetree/infrastructure/di"
	"nodetree/pkg/observability"
)

// startMetrics runs the periodic flush loop. The returned func stops the loop
// and blocks until the final flush has been sent.
func startMetrics(ctx context.Context, metrics *observability.Metrics, interval time.Duration) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		metrics.Run(ctx, interval)
	}()
	return func() {
		cancel()
		<-done
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	logger := container.Logger
	defer func() { _ = logger.Sync() }()

	stopMetrics := startMetrics(ctx, container.Metrics, cfg.MetricsFlushInterval)
	defer stopMetrics()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      container.Router.Setup(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("address", srv.Addr),
			zap.String("environment", cfg.Environment),
			zap.String("store", cfg.StoreDriver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
		return err
	}
	logger.Info("Server stopped")
	return nil
}
