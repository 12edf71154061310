package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// HistoryEntry is one delivered notification, kept for the in-app
// notification center.
type HistoryEntry struct {
	ID     int64     `json:"id"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	Tag    string    `json:"tag"`
	SentAt time.Time `json:"sentAt"`
}

// History records delivered notifications.
type History struct {
	pool *pgxpool.Pool
}

// NewHistory creates a history store.
func NewHistory(pool *pgxpool.Pool) *History {
	return &History{pool: pool}
}

// Record appends a delivered notification.
func (h *History) Record(ctx context.Context, title, body, tag string) error {
	if _, err := h.pool.Exec(ctx, "history_insert", title, body, tag); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}
	return nil
}

// Recent returns the most recently delivered notifications, newest first.
func (h *History) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := h.pool.Query(ctx, "history_recent", limit)
	if err != nil {
		return nil, fmt.Errorf("query notification history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.Title, &e.Body, &e.Tag, &e.SentAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the cutoff and returns the count removed.
func (h *History) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := h.pool.Exec(ctx,
		"DELETE FROM notification_history WHERE sent_at < NOW() - $1::interval",
		fmt.Sprintf("%d seconds", int64(olderThan.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("prune notification history: %w", err)
	}
	return tag.RowsAffected(), nil
}
