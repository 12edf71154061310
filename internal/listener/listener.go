// Package listener provides a Postgres LISTEN/NOTIFY consumer for watchlist
// changes. It holds a dedicated pgx connection (not from the pool)
// listening on the `watchlist_changed` channel.
//
// The watchlist store publishes on every write; each event makes the
// scheduler re-derive its symbol set with an immediate change-detection
// poll instead of waiting for the next six-hour tick.
package listener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/valeriluca/earnings-calendar/internal/store"
)

const (
	channel          = "watchlist_changed"
	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// Poller receives watchlist change events. Satisfied by *scheduler.Scheduler.
type Poller interface {
	PollNow()
}

// Start opens a dedicated connection and listens on the watchlist_changed
// channel. It reconnects automatically on connection loss. Blocks until
// ctx is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, poller Poller, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, poller, logger)
		if ctx.Err() != nil {
			logger.Info("Watchlist listener stopped (context cancelled)")
			return
		}

		logger.Error("Watchlist listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection
// drops or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, poller Poller, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	_, err = conn.Exec(ctx, "LISTEN "+channel)
	if err != nil {
		return fmt.Errorf("LISTEN %s: %w", channel, err)
	}
	logger.Info("Watchlist listener connected", "channel", channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		var event store.WatchlistEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			logger.Warn("Failed to parse watchlist event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Watchlist changed",
			"action", event.Action, "symbol", event.Symbol)

		// The scheduler serializes polls itself; fire and move on.
		poller.PollNow()
	}
}
