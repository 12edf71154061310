package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Subscription is a stored Web Push subscription: the browser endpoint plus
// the client key pair the push service encrypts against.
type Subscription struct {
	ID       uuid.UUID `json:"id"`
	Endpoint string    `json:"endpoint"`
	P256dh   string    `json:"p256dh"`
	Auth     string    `json:"auth"`
}

// Subscriptions persists Web Push subscriptions, keyed by endpoint.
type Subscriptions struct {
	pool *pgxpool.Pool
}

// NewSubscriptions creates a subscription store.
func NewSubscriptions(pool *pgxpool.Pool) *Subscriptions {
	return &Subscriptions{pool: pool}
}

// All returns every stored subscription.
func (s *Subscriptions) All(ctx context.Context) ([]Subscription, error) {
	rows, err := s.pool.Query(ctx, "subscriptions_all")
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []Subscription
	for rows.Next() {
		var sub Subscription
		if err := rows.Scan(&sub.ID, &sub.Endpoint, &sub.P256dh, &sub.Auth); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// Add upserts a subscription by endpoint; re-subscribing refreshes keys.
func (s *Subscriptions) Add(ctx context.Context, endpoint, p256dh, auth string) error {
	_, err := s.pool.Exec(ctx, "subscription_add", uuid.New(), endpoint, p256dh, auth)
	if err != nil {
		return fmt.Errorf("add subscription: %w", err)
	}
	return nil
}

// Remove deletes a subscription. Used when the push service reports the
// endpoint gone (404/410).
func (s *Subscriptions) Remove(ctx context.Context, endpoint string) error {
	if _, err := s.pool.Exec(ctx, "subscription_remove", endpoint); err != nil {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

// Count returns the number of stored subscriptions.
func (s *Subscriptions) Count(ctx context.Context) (int, error) {
	subs, err := s.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(subs), nil
}
