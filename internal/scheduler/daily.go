package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/dispatch"
)

// armDailyLocked schedules the next daily reminder as a one-shot. A native
// recurring timer would freeze the message body at arm time; the one-shot
// re-fetches live data at every fire and then re-arms itself, reading the
// notification time setting fresh so a mid-cycle change takes effect on
// the next tick. Caller holds mu.
func (s *Scheduler) armDailyLocked() {
	s.disarmDailyLocked()

	next, err := nextOccurrence(s.now().In(s.settings.Location()), s.settings.NotificationTime)
	if err != nil {
		s.logger.Warn("Invalid notification time, daily reminder not armed",
			"time", s.settings.NotificationTime, "error", err)
		return
	}

	s.dailyGen++
	gen := s.dailyGen
	s.dailyTimer = time.AfterFunc(next.Sub(s.now()), func() {
		s.fireDaily(gen)
	})
	s.logger.Info("Daily reminder armed", "at", next.Format(time.RFC3339))
}

// disarmDailyLocked cancels the pending one-shot. Idempotent: disarming
// when nothing is scheduled is a no-op. Caller holds mu.
func (s *Scheduler) disarmDailyLocked() {
	if s.dailyTimer != nil {
		s.dailyTimer.Stop()
		s.dailyTimer = nil
	}
	s.dailyGen++ // invalidates any in-flight fire
}

// dailyArmed reports whether a daily one-shot is pending.
func (s *Scheduler) dailyArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dailyTimer != nil
}

// fireDaily runs one daily reminder: fetch today's earnings for the
// watchlist, dispatch a summary, re-arm for tomorrow. Any failure is
// logged and the chain re-arms regardless; a stale generation means the
// timer was retired while this fire was pending, so the result is
// discarded and no re-arm happens (the new chain owns scheduling).
func (s *Scheduler) fireDaily(gen uint64) {
	ctx := s.background()

	live := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.enabled && gen == s.dailyGen
	}
	if !live() {
		return
	}

	rearm := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.enabled && gen == s.dailyGen && s.settings.DailyReminderEnabled {
			s.armDailyLocked()
		}
	}
	defer rearm()

	symbols, err := s.watchlist.Symbols(ctx)
	if err != nil {
		s.logger.Warn("Daily reminder: watchlist read failed", "error", err)
		return
	}
	if len(symbols) == 0 {
		return
	}

	loc := s.Settings().Location()
	today := startOfDay(s.now().In(loc))
	events, err := s.fetcher.Fetch(ctx, symbols, today, today.AddDate(0, 0, 1))
	if err != nil {
		s.logger.Warn("Daily reminder: earnings fetch failed", "error", err)
		return
	}
	if !live() {
		return
	}

	title, body := dailyMessage(events)
	if err := s.dispatcher.Show(ctx, title, body, dispatch.TagDailyEarnings); err != nil {
		s.logger.Warn("Daily reminder: dispatch failed", "error", err)
	}
}

// nextOccurrence returns the next future instant of the HH:MM wall-clock
// time relative to now. When today's instance has already passed (or is
// exactly now), tomorrow's is used.
func nextOccurrence(now time.Time, hhmm string) (time.Time, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("malformed time %q", hhmm)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("malformed hour in %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, fmt.Errorf("malformed minute in %q", hhmm)
	}

	candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}

// startOfDay truncates t to local midnight.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
