package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/http/api"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/adapters/http/swagger"
	app "github.com/dalmatianosrs/RuneTracker-Pro/internal/app"
	"github.com/dalmatianosrs/RuneTracker-Pro/internal/config"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/logger"
	"github.com/dalmatianosrs/RuneTracker-Pro/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithLevel(cfg.LogLevel)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()

	rt, err := app.Build(cfg, func() {
		log.Info(ctx, "local data reset, clients should reload")
	})
	if err != nil {
		log.Error(ctx, "failed to build service", logger.Error(err))
		os.Exit(1)
	}
	defer func() {
		if err := rt.Close(); err != nil {
			log.Error(context.Background(), "storage close failed", logger.Error(err))
		}
	}()
	svc := rt.Service

	// Swap the relay list and log level when the config file changes.
	if path := os.Getenv(config.EnvFile); path != "" {
		go func() {
			err := config.Watch(ctx, path, func(next *config.Config) {
				if err := rt.Apply(ctx, next); err != nil {
					log.Warn(ctx, "reloaded config not applied", logger.Error(err))
				}
			})
			if err != nil {
				log.Error(ctx, "config watch stopped", logger.Error(err))
			}
		}()
	}

	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	if err := swagger.Register(ctx, mux); err != nil {
		log.Error(ctx, "failed to register api docs", logger.Error(err))
		os.Exit(1)
	}
	api.NewServer(svc, svc).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("storage", cfg.StorageBackend),
			logger.Int("relays", len(cfg.Relays)),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(context.Background(), "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "server shutdown failed", logger.Error(err))
	}

	log.Info(shutdownCtx, "server stopped")
}

// startServiceMetricsUpdater refreshes service gauges until ctx is done.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(metrics.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// GetStats updates the subjects gauge as a side effect.
			_ = svc.GetStats()
		}
	}
}
