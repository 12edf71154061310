// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valeriluca/earnings-calendar/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API, scheduler,
// and CLI use. Prepared statements eliminate parse overhead per request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Watchlist
		"watchlist_all":     "SELECT symbol, name, added_at FROM watchlist ORDER BY added_at, symbol",
		"watchlist_symbols": "SELECT symbol FROM watchlist ORDER BY added_at, symbol",
		"watchlist_add": `INSERT INTO watchlist (symbol, name, added_at)
			VALUES ($1, $2, NOW()) ON CONFLICT (symbol) DO NOTHING`,
		"watchlist_remove": "DELETE FROM watchlist WHERE symbol = $1",
		"watchlist_clear":  "DELETE FROM watchlist",
		"watchlist_notify": "SELECT pg_notify('watchlist_changed', $1)",

		// Notification settings (single row, id always true)
		"settings_get": `SELECT enabled, notification_time, timezone,
			daily_reminder_enabled, change_detection_enabled
			FROM notification_settings WHERE singleton`,
		"settings_save": `INSERT INTO notification_settings
			(singleton, enabled, notification_time, timezone,
			 daily_reminder_enabled, change_detection_enabled, updated_at)
			VALUES (true, $1, $2, $3, $4, $5, NOW())
			ON CONFLICT (singleton) DO UPDATE SET
			 enabled = EXCLUDED.enabled,
			 notification_time = EXCLUDED.notification_time,
			 timezone = EXCLUDED.timezone,
			 daily_reminder_enabled = EXCLUDED.daily_reminder_enabled,
			 change_detection_enabled = EXCLUDED.change_detection_enabled,
			 updated_at = NOW()`,

		// Earnings fingerprint (single persisted scalar)
		"fingerprint_get": "SELECT value, updated_at FROM earnings_fingerprint WHERE singleton",
		"fingerprint_save": `INSERT INTO earnings_fingerprint (singleton, value, updated_at)
			VALUES (true, $1, NOW())
			ON CONFLICT (singleton) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,

		// Push subscriptions
		"subscriptions_all": "SELECT id, endpoint, p256dh, auth FROM push_subscriptions",
		"subscription_add": `INSERT INTO push_subscriptions (id, endpoint, p256dh, auth, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (endpoint) DO UPDATE SET p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth`,
		"subscription_remove": "DELETE FROM push_subscriptions WHERE endpoint = $1",

		// Notification history
		"history_insert": `INSERT INTO notification_history (title, body, tag, sent_at)
			VALUES ($1, $2, $3, NOW())`,
		"history_recent": `SELECT id, title, body, tag, sent_at
			FROM notification_history ORDER BY sent_at DESC LIMIT $1`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
