// Command api is the Earnings Calendar API server.
//
// Usage:
//
//	earnings-api
//	API_PORT=8080 earnings-api

// @title Earnings Calendar API
// @version 1.0.0
// @description Earnings calendar backend: provider proxy, watchlist, change-detection scheduler, and notification delivery.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/valeriluca/earnings-calendar/internal/api"
	"github.com/valeriluca/earnings-calendar/internal/config"
	"github.com/valeriluca/earnings-calendar/internal/db"
	"github.com/valeriluca/earnings-calendar/internal/dispatch"
	"github.com/valeriluca/earnings-calendar/internal/listener"
	"github.com/valeriluca/earnings-calendar/internal/maintenance"
	"github.com/valeriluca/earnings-calendar/internal/provider"
	"github.com/valeriluca/earnings-calendar/internal/scheduler"
	"github.com/valeriluca/earnings-calendar/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("Database connected",
		"min_conns", cfg.DBPoolMinConns,
		"max_conns", cfg.DBPoolMaxConns)

	// Stores
	watchlist := store.NewWatchlist(pool.Pool)
	settings := store.NewSettings(pool.Pool)
	fingerprints := store.NewFingerprint(pool.Pool)
	subscriptions := store.NewSubscriptions(pool.Pool)
	history := store.NewHistory(pool.Pool)

	// Earnings provider
	fetcher, err := provider.New(cfg, logger)
	if err != nil {
		logger.Error("Failed to create earnings provider", "error", err)
		os.Exit(1)
	}
	logger.Info("Earnings provider ready", "provider", cfg.EarningsProvider)

	// Notification surfaces: the local dispatcher always runs; Web Push
	// joins when VAPID keys are configured.
	dispatchers := dispatch.Multi{dispatch.NewLocal(history, logger)}
	if wp := dispatch.NewWebPush(subscriptions, cfg.VAPIDSubscriber,
		cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, logger); wp != nil {
		dispatchers = append(dispatchers, wp)
		logger.Info("Web Push dispatcher enabled")
	} else {
		logger.Info("Web Push dispatcher disabled (no VAPID keys)")
	}

	// Notification scheduler: daily reminders + change-detection polling
	sched := scheduler.New(fetcher, watchlist, settings, fingerprints, dispatchers, logger,
		scheduler.Options{
			PollInterval: cfg.PollInterval,
			WindowDays:   cfg.FetchWindowDays,
		})
	if err := sched.Start(ctx); err != nil {
		logger.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Start LISTEN/NOTIFY consumer so watchlist edits trigger a re-poll
	go listener.Start(ctx, cfg.DatabaseURL, sched, logger)

	// Start maintenance tickers (history cleanup, catch-up sweep)
	maintCfg := maintenance.DefaultConfig(cfg.PollInterval)
	maintCfg.CleanupInterval = cfg.MaintenanceInterval
	go maintenance.Start(ctx, history, fingerprints, sched, maintCfg, logger)

	// Create router
	router := api.NewRouter(pool, cfg, fetcher, sched, dispatchers,
		watchlist, settings, history, subscriptions)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Earnings Calendar API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
