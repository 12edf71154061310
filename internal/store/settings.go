package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

// Settings persists the single notification settings row.
type Settings struct {
	pool *pgxpool.Pool
}

// NewSettings creates a settings store.
func NewSettings(pool *pgxpool.Pool) *Settings {
	return &Settings{pool: pool}
}

// Get returns the stored settings, or the first-run defaults when no row
// exists yet.
func (s *Settings) Get(ctx context.Context) (model.NotificationSettings, error) {
	var out model.NotificationSettings
	err := s.pool.QueryRow(ctx, "settings_get").Scan(
		&out.Enabled, &out.NotificationTime, &out.Timezone,
		&out.DailyReminderEnabled, &out.ChangeDetectionEnabled,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.DefaultSettings(), nil
	}
	if err != nil {
		return model.NotificationSettings{}, fmt.Errorf("get settings: %w", err)
	}
	return out, nil
}

// Save upserts the settings row.
func (s *Settings) Save(ctx context.Context, settings model.NotificationSettings) error {
	_, err := s.pool.Exec(ctx, "settings_save",
		settings.Enabled, settings.NotificationTime, settings.Timezone,
		settings.DailyReminderEnabled, settings.ChangeDetectionEnabled,
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Reset restores the first-run defaults.
func (s *Settings) Reset(ctx context.Context) error {
	return s.Save(ctx, model.DefaultSettings())
}
