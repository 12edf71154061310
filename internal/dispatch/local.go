package dispatch

import (
	"context"
	"fmt"
	"log/slog"
)

// HistoryRecorder persists delivered notifications for the in-app
// notification center.
type HistoryRecorder interface {
	Record(ctx context.Context, title, body, tag string) error
}

// Local delivers notifications to the notification history table and the
// log. Permission is always granted; the in-app surface has no OS gate.
type Local struct {
	history HistoryRecorder
	logger  *slog.Logger
}

// NewLocal creates a local dispatcher. history may be nil, in which case
// notifications are only logged.
func NewLocal(history HistoryRecorder, logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{history: history, logger: logger}
}

// RequestPermission always grants.
func (l *Local) RequestPermission(ctx context.Context) (bool, error) {
	return true, nil
}

// Show logs the notification and records it in history.
func (l *Local) Show(ctx context.Context, title, body, tag string) error {
	l.logger.Info("Notification", "title", title, "body", body, "tag", tag)
	if l.history == nil {
		return nil
	}
	if err := l.history.Record(ctx, title, body, tag); err != nil {
		return fmt.Errorf("record notification history: %w", err)
	}
	return nil
}
