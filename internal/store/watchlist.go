// Package store provides the pgx-backed persistence layer: watchlist,
// notification settings, earnings fingerprint, push subscriptions, and
// notification history. All queries go through prepared statements
// registered in internal/db.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

// watchlistChannel is the Postgres NOTIFY channel fired after every write,
// consumed by internal/listener so the scheduler re-derives its symbol set.
const watchlistChannel = "watchlist_changed"

// WatchlistEvent is the JSON payload published on watchlist writes.
type WatchlistEvent struct {
	Action string `json:"action"` // "add" | "remove" | "reset"
	Symbol string `json:"symbol,omitempty"`
	TS     int64  `json:"ts"`
}

// Watchlist persists the set of tracked symbols. Symbol uniqueness is
// enforced by the primary key; insertion order is preserved for display.
type Watchlist struct {
	pool *pgxpool.Pool
}

// NewWatchlist creates a watchlist store.
func NewWatchlist(pool *pgxpool.Pool) *Watchlist {
	return &Watchlist{pool: pool}
}

// All returns every tracked entry in insertion order.
func (w *Watchlist) All(ctx context.Context) ([]model.WatchlistEntry, error) {
	rows, err := w.pool.Query(ctx, "watchlist_all")
	if err != nil {
		return nil, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []model.WatchlistEntry
	for rows.Next() {
		var e model.WatchlistEntry
		if err := rows.Scan(&e.Symbol, &e.Name, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("scan watchlist entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Symbols returns the tracked symbols in insertion order.
func (w *Watchlist) Symbols(ctx context.Context) ([]string, error) {
	rows, err := w.pool.Query(ctx, "watchlist_symbols")
	if err != nil {
		return nil, fmt.Errorf("query watchlist symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}

// Add inserts a symbol. Adding an already-tracked symbol is a no-op.
func (w *Watchlist) Add(ctx context.Context, symbol, name string) error {
	tag, err := w.pool.Exec(ctx, "watchlist_add", symbol, name)
	if err != nil {
		return fmt.Errorf("add %s to watchlist: %w", symbol, err)
	}
	if tag.RowsAffected() > 0 {
		w.notify(ctx, WatchlistEvent{Action: "add", Symbol: symbol, TS: time.Now().Unix()})
	}
	return nil
}

// Remove deletes a symbol. Removing an untracked symbol is a no-op.
func (w *Watchlist) Remove(ctx context.Context, symbol string) error {
	tag, err := w.pool.Exec(ctx, "watchlist_remove", symbol)
	if err != nil {
		return fmt.Errorf("remove %s from watchlist: %w", symbol, err)
	}
	if tag.RowsAffected() > 0 {
		w.notify(ctx, WatchlistEvent{Action: "remove", Symbol: symbol, TS: time.Now().Unix()})
	}
	return nil
}

// Reset replaces the watchlist with the default starter set.
func (w *Watchlist) Reset(ctx context.Context) error {
	if _, err := w.pool.Exec(ctx, "watchlist_clear"); err != nil {
		return fmt.Errorf("clear watchlist: %w", err)
	}
	for _, e := range model.DefaultWatchlist() {
		if _, err := w.pool.Exec(ctx, "watchlist_add", e.Symbol, e.Name); err != nil {
			return fmt.Errorf("seed default %s: %w", e.Symbol, err)
		}
	}
	w.notify(ctx, WatchlistEvent{Action: "reset", TS: time.Now().Unix()})
	return nil
}

// notify publishes a change event. Delivery is best-effort: a NOTIFY
// failure never fails the write that triggered it.
func (w *Watchlist) notify(ctx context.Context, event WatchlistEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_, _ = w.pool.Exec(ctx, "watchlist_notify", string(payload))
}
