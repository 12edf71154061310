package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valeriluca/earnings-calendar/internal/model"
	"github.com/valeriluca/earnings-calendar/internal/scheduler"
)

type stubWatchlist struct{}

func (stubWatchlist) Symbols(ctx context.Context) ([]string, error) { return nil, nil }

type stubSettingsStore struct {
	saved []model.NotificationSettings
}

func (s *stubSettingsStore) Get(ctx context.Context) (model.NotificationSettings, error) {
	return model.DefaultSettings(), nil
}

func (s *stubSettingsStore) Save(ctx context.Context, settings model.NotificationSettings) error {
	s.saved = append(s.saved, settings)
	return nil
}

type stubFingerprints struct{}

func (stubFingerprints) Get(ctx context.Context) (string, bool, error) { return "", false, nil }
func (stubFingerprints) Save(ctx context.Context, value string) error  { return nil }

type stubDispatcher struct {
	granted bool
}

func (d *stubDispatcher) RequestPermission(ctx context.Context) (bool, error) {
	return d.granted, nil
}

func (d *stubDispatcher) Show(ctx context.Context, title, body, tag string) error { return nil }

func newSettingsHandler(t *testing.T, granted bool) (*Handler, *stubSettingsStore) {
	t.Helper()
	settings := &stubSettingsStore{}
	sched := scheduler.New(&fakeFetcher{}, stubWatchlist{}, settings, stubFingerprints{},
		&stubDispatcher{granted: granted}, nil,
		scheduler.Options{PollInterval: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, sched.Start(ctx))
	t.Cleanup(func() {
		cancel()
		sched.Stop()
	})
	return &Handler{sched: sched}, settings
}

func TestGetSettingsReturnsDefaults(t *testing.T) {
	h, _ := newSettingsHandler(t, true)

	rec := httptest.NewRecorder()
	h.GetSettings(rec, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.NotificationSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, model.DefaultSettings(), got)
}

func TestUpdateSettingsApplies(t *testing.T) {
	h, store := newSettingsHandler(t, true)

	body := `{"enabled": true, "notificationTime": "07:30", "timezone": "UTC",
		"dailyReminderEnabled": true, "changeDetectionEnabled": false}`
	rec := httptest.NewRecorder()
	h.UpdateSettings(rec, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got model.NotificationSettings
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "07:30", got.NotificationTime)
	assert.False(t, got.ChangeDetectionEnabled)

	require.NotEmpty(t, store.saved)
	assert.Equal(t, got, store.saved[len(store.saved)-1])
}

func TestUpdateSettingsRejectsBadBody(t *testing.T) {
	h, _ := newSettingsHandler(t, true)

	rec := httptest.NewRecorder()
	h.UpdateSettings(rec, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateSettingsPermissionDenied(t *testing.T) {
	h, store := newSettingsHandler(t, false)

	body := `{"enabled": true, "notificationTime": "06:00", "timezone": "UTC",
		"dailyReminderEnabled": true, "changeDetectionEnabled": true}`
	rec := httptest.NewRecorder()
	h.UpdateSettings(rec, httptest.NewRequest(http.MethodPut, "/api/v1/settings", strings.NewReader(body)))

	assert.Equal(t, http.StatusForbidden, rec.Code)

	// the rollback is persisted: stored settings have enabled=false
	require.NotEmpty(t, store.saved)
	assert.False(t, store.saved[len(store.saved)-1].Enabled)
}
