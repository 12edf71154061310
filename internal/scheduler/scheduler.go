// Package scheduler owns the notification state machine: a daily reminder
// timer and a periodic change-detection poll, reconciled against user
// settings and the notification surface's permission state.
//
// One Scheduler instance exists per process. Both timers are private
// fields with explicit arm/disarm paths; at most one timer of each kind is
// ever pending, and re-arming first retires the old one. A generation
// counter guards every timer callback so the result of a fetch that was
// in flight when its timer was cancelled is discarded instead of acted on.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

// ErrPermissionDenied is returned when enabling notifications is rolled
// back because the surface declined the permission request.
var ErrPermissionDenied = errors.New("notification permission denied")

// --------------------------------------------------------------------------
// Collaborator interfaces
// --------------------------------------------------------------------------

// EarningsFetcher returns earnings events for symbols within a date window.
// Implementations tolerate per-symbol failure.
type EarningsFetcher interface {
	Fetch(ctx context.Context, symbols []string, from, to time.Time) ([]model.EarningsEvent, error)
}

// WatchlistSource reads the tracked symbol set.
type WatchlistSource interface {
	Symbols(ctx context.Context) ([]string, error)
}

// SettingsStore persists notification settings.
type SettingsStore interface {
	Get(ctx context.Context) (model.NotificationSettings, error)
	Save(ctx context.Context, settings model.NotificationSettings) error
}

// FingerprintStore persists the single last-known fingerprint scalar.
// ok is false when no fingerprint has ever been stored.
type FingerprintStore interface {
	Get(ctx context.Context) (value string, ok bool, err error)
	Save(ctx context.Context, value string) error
}

// Dispatcher is the boundary to the notification surface.
type Dispatcher interface {
	RequestPermission(ctx context.Context) (bool, error)
	Show(ctx context.Context, title, body, tag string) error
}

// --------------------------------------------------------------------------
// Scheduler
// --------------------------------------------------------------------------

// Options configures a Scheduler.
type Options struct {
	PollInterval time.Duration // change-detection period; default 6h
	WindowDays   int           // change-detection look-ahead; default 7
}

// Scheduler drives the daily reminder and change-detection sub-machines.
type Scheduler struct {
	fetcher       EarningsFetcher
	watchlist     WatchlistSource
	settingsStore SettingsStore
	fingerprints  FingerprintStore
	dispatcher    Dispatcher
	logger        *slog.Logger

	pollInterval time.Duration
	windowDays   int
	now          func() time.Time // injected for tests

	mu       sync.Mutex
	baseCtx  context.Context
	settings model.NotificationSettings
	enabled  bool // top-level gate: settings.Enabled AND permission granted

	dailyTimer *time.Timer
	dailyGen   uint64

	pollStop chan struct{}
	pollGen  uint64

	// pollMu serializes poll cycles: within one cycle, fetch → fingerprint
	// → compare → persist runs without interleaving another cycle.
	pollMu sync.Mutex
}

// New creates a Scheduler. Timers are not armed until Start.
func New(fetcher EarningsFetcher, watchlist WatchlistSource, settings SettingsStore,
	fingerprints FingerprintStore, dispatcher Dispatcher, logger *slog.Logger, opts Options) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = 6 * time.Hour
	}
	if opts.WindowDays <= 0 {
		opts.WindowDays = 7
	}
	return &Scheduler{
		fetcher:       fetcher,
		watchlist:     watchlist,
		settingsStore: settings,
		fingerprints:  fingerprints,
		dispatcher:    dispatcher,
		logger:        logger,
		pollInterval:  opts.PollInterval,
		windowDays:    opts.WindowDays,
		now:           time.Now,
	}
}

// Start loads persisted settings and arms the sub-machines accordingly.
// ctx bounds all background work; Stop (or ctx cancellation) retires the
// timers.
func (s *Scheduler) Start(ctx context.Context) error {
	stored, err := s.settingsStore.Get(ctx)
	if err != nil {
		return fmt.Errorf("load notification settings: %w", err)
	}

	s.mu.Lock()
	s.baseCtx = ctx
	s.mu.Unlock()

	if _, err := s.ApplySettings(ctx, stored); err != nil && !errors.Is(err, ErrPermissionDenied) {
		return err
	}

	go func() {
		<-ctx.Done()
		s.Stop()
	}()
	return nil
}

// Stop cancels both timers. Idempotent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmDailyLocked()
	s.disarmPollingLocked()
	s.enabled = false
}

// Settings returns the scheduler's current view of the settings.
func (s *Scheduler) Settings() model.NotificationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Enabled reports whether the top-level gate is open.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// ApplySettings reconciles the state machine with new settings, persists
// them, and returns the effective settings. Enabling requests permission
// from the dispatcher; on denial the enable is rolled back, Enabled is
// forced to false in the persisted settings, and ErrPermissionDenied is
// returned. Disabling cancels both timers before any other effect.
func (s *Scheduler) ApplySettings(ctx context.Context, next model.NotificationSettings) (model.NotificationSettings, error) {
	s.mu.Lock()
	wasEnabled := s.enabled
	if !next.Enabled && wasEnabled {
		// Gate closes: timers die first, unconditionally.
		s.disarmDailyLocked()
		s.disarmPollingLocked()
		s.enabled = false
	}
	s.mu.Unlock()

	if next.Enabled && !wasEnabled {
		granted, err := s.dispatcher.RequestPermission(ctx)
		if err != nil || !granted {
			if err != nil {
				s.logger.Warn("Permission request failed", "error", err)
			}
			next.Enabled = false
			s.storeSettings(ctx, next)
			return next, ErrPermissionDenied
		}
	}

	s.mu.Lock()
	s.settings = next
	s.enabled = next.Enabled
	if s.enabled {
		s.reconcileLocked()
	} else {
		s.disarmDailyLocked()
		s.disarmPollingLocked()
	}
	s.mu.Unlock()

	s.storeSettings(ctx, next)
	return next, nil
}

// storeSettings persists settings, logging rather than failing: the state
// machine has already transitioned and a storage hiccup must not wedge it.
func (s *Scheduler) storeSettings(ctx context.Context, settings model.NotificationSettings) {
	if err := s.settingsStore.Save(ctx, settings); err != nil {
		s.logger.Warn("Failed to persist notification settings", "error", err)
	}
}

// reconcileLocked arms or disarms both sub-machines to match the current
// settings. Caller holds mu; the top gate is open.
func (s *Scheduler) reconcileLocked() {
	if s.settings.DailyReminderEnabled {
		s.armDailyLocked()
	} else {
		s.disarmDailyLocked()
	}
	if s.settings.ChangeDetectionEnabled {
		s.armPollingLocked()
	} else {
		s.disarmPollingLocked()
	}
}

// background returns the context bounding timer-driven work.
func (s *Scheduler) background() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseCtx != nil {
		return s.baseCtx
	}
	return context.Background()
}
