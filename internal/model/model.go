// Package model defines the shared domain types: earnings events, the
// watchlist, and notification settings.
package model

import (
	"time"
)

// --------------------------------------------------------------------------
// Earnings time buckets
// --------------------------------------------------------------------------

// EarningsTime is the time-of-day bucket for an earnings report.
type EarningsTime string

const (
	TimeBeforeOpen   EarningsTime = "bmo" // before market open
	TimeAfterClose   EarningsTime = "amc" // after market close
	TimeDuringMarket EarningsTime = "dmt" // during market hours
	TimeUnknown      EarningsTime = ""    // not reported by the provider
)

// Label returns the human-readable label for a time bucket.
func (t EarningsTime) Label() string {
	switch t {
	case TimeBeforeOpen:
		return "Before Open"
	case TimeAfterClose:
		return "After Close"
	case TimeDuringMarket:
		return "During Market"
	default:
		return "Time TBD"
	}
}

// --------------------------------------------------------------------------
// Earnings events
// --------------------------------------------------------------------------

// DateLayout is the wire format for earnings dates. No time zone; an
// earnings date is a calendar day, and lexical comparison of this layout
// matches chronological order.
const DateLayout = "2006-01-02"

// EarningsEvent is a single upcoming earnings report for a symbol.
// Immutable once fetched; each fetch produces a fresh slice.
type EarningsEvent struct {
	Symbol      string       `json:"symbol"`
	Name        string       `json:"name,omitempty"`
	Date        string       `json:"date"` // YYYY-MM-DD
	Time        EarningsTime `json:"time"`
	EPSEstimate *float64     `json:"epsEstimated,omitempty"`
	FullDate    *time.Time   `json:"fullDate,omitempty"`
}

// --------------------------------------------------------------------------
// Watchlist
// --------------------------------------------------------------------------

// WatchlistEntry is a tracked symbol. AddedAt preserves insertion order
// for display; the notification subsystem only cares about Symbol.
type WatchlistEntry struct {
	Symbol  string    `json:"symbol"`
	Name    string    `json:"name,omitempty"`
	AddedAt time.Time `json:"addedAt"`
}

// DefaultWatchlist is seeded on first run, matching the app's starter set.
func DefaultWatchlist() []WatchlistEntry {
	now := time.Now().UTC()
	symbols := []struct{ symbol, name string }{
		{"AAPL", "Apple Inc."},
		{"MSFT", "Microsoft Corporation"},
		{"GOOGL", "Alphabet Inc."},
		{"AMZN", "Amazon.com Inc."},
		{"NVDA", "NVIDIA Corporation"},
	}
	entries := make([]WatchlistEntry, 0, len(symbols))
	for _, s := range symbols {
		entries = append(entries, WatchlistEntry{Symbol: s.symbol, Name: s.name, AddedAt: now})
	}
	return entries
}

// --------------------------------------------------------------------------
// Notification settings
// --------------------------------------------------------------------------

// NotificationSettings is the user-owned notification configuration.
// Created with defaults on first run, mutated by user action, reset to
// defaults on explicit user reset — never deleted.
type NotificationSettings struct {
	Enabled                bool   `json:"enabled"`
	NotificationTime       string `json:"notificationTime"` // HH:MM wall clock
	Timezone               string `json:"timezone"`
	DailyReminderEnabled   bool   `json:"dailyReminderEnabled"`
	ChangeDetectionEnabled bool   `json:"changeDetectionEnabled"`
}

// DefaultSettings returns the first-run notification settings.
func DefaultSettings() NotificationSettings {
	return NotificationSettings{
		Enabled:                true,
		NotificationTime:       "06:00",
		Timezone:               "UTC",
		DailyReminderEnabled:   true,
		ChangeDetectionEnabled: true,
	}
}

// Location resolves the settings time zone, falling back to UTC for
// missing or unknown names.
func (s NotificationSettings) Location() *time.Location {
	if s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
