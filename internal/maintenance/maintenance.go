// Package maintenance runs periodic background tasks as Go tickers:
// pruning old notification history and sweeping for change-detection
// ticks missed during downtime.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/store"
)

// historyRetention is how long delivered notifications stay queryable.
const historyRetention = 30 * 24 * time.Hour

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	CleanupInterval time.Duration // notification history pruning
	CatchUpInterval time.Duration // sweep for missed poll ticks
	PollInterval    time.Duration // the scheduler's change-detection period
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig(pollInterval time.Duration) Config {
	return Config{
		CleanupInterval: 30 * time.Minute,
		CatchUpInterval: 15 * time.Minute,
		PollInterval:    pollInterval,
	}
}

// Poller triggers an immediate change-detection poll.
// Satisfied by *scheduler.Scheduler.
type Poller interface {
	PollNow()
}

// Start launches all configured maintenance tickers. Blocks until ctx is
// cancelled. Intended to be called with `go`.
func Start(ctx context.Context, history *store.History, fingerprints *store.Fingerprint,
	poller Poller, cfg Config, logger *slog.Logger) {
	logger.Info("Maintenance tickers started",
		"cleanup", cfg.CleanupInterval,
		"catchup", cfg.CatchUpInterval)

	tickers := make([]*time.Ticker, 0, 2)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	// Cleanup: prune delivered notifications past retention
	if cfg.CleanupInterval > 0 {
		t := time.NewTicker(cfg.CleanupInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { cleanup(ctx, history, logger) })
	}

	// Catch-up: re-trigger change detection when ticks were missed
	if cfg.CatchUpInterval > 0 && cfg.PollInterval > 0 {
		t := time.NewTicker(cfg.CatchUpInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { catchUpSweep(ctx, fingerprints, poller, cfg.PollInterval, logger) })
	}

	<-ctx.Done()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// cleanup removes notification history entries older than the retention
// window.
func cleanup(ctx context.Context, history *store.History, logger *slog.Logger) {
	n, err := history.Prune(ctx, historyRetention)
	if err != nil {
		logger.Warn("Cleanup: failed to prune notification history", "error", err)
	} else if n > 0 {
		logger.Info("Cleanup: pruned notification history", "count", n)
	}
}

// catchUpSweep checks whether the stored fingerprint has gone stale: when
// the process was down (or asleep) across poll ticks, the fingerprint's
// updated_at lags more than two poll intervals behind. One immediate poll
// closes the gap; PollNow is a no-op when change detection is disarmed.
func catchUpSweep(ctx context.Context, fingerprints *store.Fingerprint, poller Poller,
	pollInterval time.Duration, logger *slog.Logger) {
	updatedAt, ok, err := fingerprints.UpdatedAt(ctx)
	if err != nil {
		logger.Warn("Catch-up sweep: fingerprint timestamp read failed", "error", err)
		return
	}
	if !ok {
		// First run; the scheduler's own immediate poll covers it.
		return
	}
	if age := time.Since(updatedAt); age > 2*pollInterval {
		logger.Info("Catch-up sweep: fingerprint stale, triggering poll", "age", age.Round(time.Minute))
		poller.PollNow()
	}
}
