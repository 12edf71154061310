// Package api wires the HTTP surface: router, middleware, and handlers.
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/valeriluca/earnings-calendar/internal/api/handler"
	"github.com/valeriluca/earnings-calendar/internal/config"
	"github.com/valeriluca/earnings-calendar/internal/db"
	"github.com/valeriluca/earnings-calendar/internal/dispatch"
	"github.com/valeriluca/earnings-calendar/internal/provider"
	"github.com/valeriluca/earnings-calendar/internal/scheduler"
	"github.com/valeriluca/earnings-calendar/internal/store"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(pool *db.Pool, cfg *config.Config, fetcher provider.Fetcher,
	sched *scheduler.Scheduler, dispatcher dispatch.Dispatcher,
	watchlist *store.Watchlist, settings *store.Settings,
	history *store.History, subscriptions *store.Subscriptions) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "Link", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Handler dependencies ---
	h := handler.New(pool, cfg, fetcher, sched, dispatcher, watchlist, settings, history, subscriptions)

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Earnings proxy
		r.Get("/earnings", h.GetEarnings)

		// Market holidays
		r.Get("/holidays", h.GetHolidays)

		// Watchlist
		r.Route("/watchlist", func(r chi.Router) {
			r.Get("/", h.GetWatchlist)
			r.Post("/", h.AddToWatchlist)
			r.Post("/reset", h.ResetWatchlist)
			r.Delete("/{symbol}", h.RemoveFromWatchlist)
		})

		// Notification settings
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
			r.Post("/reset", h.ResetSettings)
		})

		// Notifications
		r.Route("/notifications", func(r chi.Router) {
			r.Post("/test", h.SendTestNotification)
			r.Get("/history", h.GetNotificationHistory)
			r.Get("/vapid-public-key", h.GetVAPIDPublicKey)
			r.Post("/subscriptions", h.Subscribe)
			r.Delete("/subscriptions", h.Unsubscribe)
		})
	})

	return r
}
