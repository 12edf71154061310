package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEarningsTimeLabel(t *testing.T) {
	assert.Equal(t, "Before Open", TimeBeforeOpen.Label())
	assert.Equal(t, "After Close", TimeAfterClose.Label())
	assert.Equal(t, "During Market", TimeDuringMarket.Label())
	assert.Equal(t, "Time TBD", TimeUnknown.Label())
	assert.Equal(t, "Time TBD", EarningsTime("garbage").Label())
}

func TestSettingsLocationFallsBackToUTC(t *testing.T) {
	s := NotificationSettings{Timezone: "America/New_York"}
	loc := s.Location()
	assert.Equal(t, "America/New_York", loc.String())

	s.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, s.Location())

	s.Timezone = ""
	assert.Equal(t, time.UTC, s.Location())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.Enabled)
	assert.Equal(t, "06:00", s.NotificationTime)
	assert.True(t, s.DailyReminderEnabled)
	assert.True(t, s.ChangeDetectionEnabled)
}
