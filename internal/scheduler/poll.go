package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/dispatch"
	"github.com/valeriluca/earnings-calendar/internal/fingerprint"
)

// armPollingLocked starts change detection: one immediate poll, then a
// recurring poll at the configured interval. Re-entrant: an existing loop
// is retired first so at most one is ever running. Caller holds mu.
func (s *Scheduler) armPollingLocked() {
	s.disarmPollingLocked()

	s.pollGen++
	gen := s.pollGen
	stop := make(chan struct{})
	s.pollStop = stop

	go func() {
		ctx := s.background()
		s.pollGuarded(ctx, gen)

		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.pollGuarded(ctx, gen)
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	s.logger.Info("Change detection armed", "interval", s.pollInterval)
}

// disarmPollingLocked stops the recurring poll. Idempotent. Caller holds mu.
func (s *Scheduler) disarmPollingLocked() {
	if s.pollStop != nil {
		close(s.pollStop)
		s.pollStop = nil
	}
	s.pollGen++ // invalidates any in-flight poll
}

// pollingArmed reports whether the change-detection loop is running.
func (s *Scheduler) pollingArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pollStop != nil
}

// PollNow triggers an immediate change-detection poll outside the regular
// cadence, used when the watchlist changes or a catch-up sweep finds
// missed ticks. No-op unless the gate is open and change detection is
// enabled; the recurring timer keeps its own schedule.
func (s *Scheduler) PollNow() {
	s.mu.Lock()
	armed := s.pollStop != nil
	gen := s.pollGen
	s.mu.Unlock()
	if !armed {
		return
	}
	go s.pollGuarded(s.background(), gen)
}

// pollGuarded runs one poll and drops the result if the loop that started
// it has since been retired.
func (s *Scheduler) pollGuarded(ctx context.Context, gen uint64) {
	live := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.enabled && gen == s.pollGen
	}
	if !live() {
		return
	}
	if err := s.poll(ctx, live); err != nil {
		s.logger.Warn("Change-detection poll failed", "error", err)
	}
}

// PollOnce runs a single synchronous change-detection cycle, outside any
// timer. Used by the CLI.
func (s *Scheduler) PollOnce(ctx context.Context) error {
	return s.poll(ctx, nil)
}

// poll is one change-detection cycle: read watchlist → fetch the
// look-ahead window → fingerprint → compare → dispatch on change →
// persist. live, when non-nil, is checked after the fetch resolves; a
// false return discards the result without persisting or notifying.
func (s *Scheduler) poll(ctx context.Context, live func() bool) error {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	symbols, err := s.watchlist.Symbols(ctx)
	if err != nil {
		return fmt.Errorf("read watchlist: %w", err)
	}
	if len(symbols) == 0 {
		// Nothing to watch this cycle; the timer keeps running.
		return nil
	}

	loc := s.Settings().Location()
	from := startOfDay(s.now().In(loc))
	to := from.AddDate(0, 0, s.windowDays)

	events, err := s.fetcher.Fetch(ctx, symbols, from, to)
	if err != nil {
		// Recovered locally: the stored fingerprint stays untouched and
		// the next scheduled tick retries naturally.
		return fmt.Errorf("fetch earnings: %w", err)
	}
	if live != nil && !live() {
		return nil
	}

	current := fingerprint.Compute(events)

	prev, ok, err := s.fingerprints.Get(ctx)
	if err != nil {
		// A read failure means no usable prior state; treat as first run
		// rather than as "everything changed".
		s.logger.Warn("Fingerprint read failed, treating as first run", "error", err)
		ok = false
	}

	switch {
	case !ok:
		s.logger.Info("First change-detection poll, baseline stored", "events", len(events))
	case prev != current:
		title, body := changeMessage(events)
		if err := s.dispatcher.Show(ctx, title, body, dispatch.TagEarningsChange); err != nil {
			s.logger.Warn("Change notification dispatch failed", "error", err)
		} else {
			s.logger.Info("Earnings schedule change detected", "events", len(events))
		}
	}

	if err := s.fingerprints.Save(ctx, current); err != nil {
		return fmt.Errorf("save fingerprint: %w", err)
	}
	return nil
}
