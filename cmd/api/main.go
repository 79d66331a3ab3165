// Package main is the entry point for the gas calculator API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pkordes/gas-calc/internal/config"
	"github.com/pkordes/gas-calc/internal/handler"
	"github.com/pkordes/gas-calc/internal/logging"
	"github.com/pkordes/gas-calc/internal/metrics"
	"github.com/pkordes/gas-calc/internal/middleware"
	"github.com/pkordes/gas-calc/internal/service"
	"github.com/pkordes/gas-calc/spec"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A .env file in the working directory fills in anything not already set.
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		// Use the default logger before ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.Setup(os.Stdout, cfg.LogFormat, cfg.LogLevel)

	// --- Store ------------------------------------------------------------
	snapshots, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open snapshot store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("snapshot store ready", "driver", cfg.StoreDriver)

	// --- Services ---------------------------------------------------------
	m := metrics.New()
	trips := service.NewTripService(snapshots, service.TripServiceOptions{
		Key:      cfg.SnapshotKey,
		Observer: m,
		Logger:   logger,
	})
	exports := service.NewExportService(trips, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → Metrics → CORS → RateLimit → MaxBodySize.
	// RealIP must run before RateLimit so limits apply per real client.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	if cfg.RateLimitPerMinute > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
		go sweepLimiter(limiter)
		r.Use(middleware.NewRateLimitHandler(limiter))
	}
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	handler.NewServer(trips, exports).Register(r)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	// --- HTTP Server ------------------------------------------------------
	// Explicit timeouts prevent slowloris and resource exhaustion attacks.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// sweepLimiter drops idle rate-limit entries every ten minutes.
func sweepLimiter(rl *middleware.RateLimiter) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if n := rl.Cleanup(30 * time.Minute); n > 0 {
			slog.Debug("rate limiter sweep", "dropped", n)
		}
	}
}
