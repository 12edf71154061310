// Package handler provides HTTP handlers for all API endpoints.
package handler

import (
	"net/http"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/api/respond"
	"github.com/valeriluca/earnings-calendar/internal/config"
	"github.com/valeriluca/earnings-calendar/internal/db"
	"github.com/valeriluca/earnings-calendar/internal/dispatch"
	"github.com/valeriluca/earnings-calendar/internal/provider"
	"github.com/valeriluca/earnings-calendar/internal/scheduler"
	"github.com/valeriluca/earnings-calendar/internal/store"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool          *db.Pool
	cfg           *config.Config
	fetcher       provider.Fetcher
	sched         *scheduler.Scheduler
	dispatcher    dispatch.Dispatcher
	watchlist     *store.Watchlist
	settings      *store.Settings
	history       *store.History
	subscriptions *store.Subscriptions
}

// New creates a Handler with shared dependencies.
func New(pool *db.Pool, cfg *config.Config, fetcher provider.Fetcher, sched *scheduler.Scheduler,
	dispatcher dispatch.Dispatcher, watchlist *store.Watchlist, settings *store.Settings,
	history *store.History, subscriptions *store.Subscriptions) *Handler {
	return &Handler{
		pool:          pool,
		cfg:           cfg,
		fetcher:       fetcher,
		sched:         sched,
		dispatcher:    dispatcher,
		watchlist:     watchlist,
		settings:      settings,
		history:       history,
		subscriptions: subscriptions,
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"name":     "Earnings Calendar API",
		"version":  "1.0.0",
		"status":   "running",
		"docs":     "/docs",
		"provider": h.cfg.EarningsProvider,
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"scheduler": h.sched.Enabled(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if err := h.pool.HealthCheck(r.Context()); err != nil {
		respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
