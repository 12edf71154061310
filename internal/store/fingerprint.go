package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Fingerprint persists the single last-known earnings fingerprint scalar.
type Fingerprint struct {
	pool *pgxpool.Pool
}

// NewFingerprint creates a fingerprint store.
func NewFingerprint(pool *pgxpool.Pool) *Fingerprint {
	return &Fingerprint{pool: pool}
}

// Get returns the stored fingerprint. ok is false when no poll has ever
// persisted one (first run).
func (f *Fingerprint) Get(ctx context.Context) (value string, ok bool, err error) {
	var updatedAt time.Time
	err = f.pool.QueryRow(ctx, "fingerprint_get").Scan(&value, &updatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get fingerprint: %w", err)
	}
	return value, true, nil
}

// UpdatedAt returns when the fingerprint was last written. ok is false on
// first run.
func (f *Fingerprint) UpdatedAt(ctx context.Context) (t time.Time, ok bool, err error) {
	var value string
	err = f.pool.QueryRow(ctx, "fingerprint_get").Scan(&value, &t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get fingerprint timestamp: %w", err)
	}
	return t, true, nil
}

// Save overwrites the stored fingerprint.
func (f *Fingerprint) Save(ctx context.Context, value string) error {
	if _, err := f.pool.Exec(ctx, "fingerprint_save", value); err != nil {
		return fmt.Errorf("save fingerprint: %w", err)
	}
	return nil
}
