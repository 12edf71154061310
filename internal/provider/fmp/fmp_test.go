package fmp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valeriluca/earnings-calendar/internal/model"
)

const calendarBody = `[
	{"symbol": "AAPL", "date": "2025-12-10", "time": "amc", "epsEstimated": 2.35},
	{"symbol": "msft", "date": "2025-12-11", "time": "bmo", "epsEstimated": null},
	{"symbol": "TSLA", "date": "2025-12-12", "time": "", "epsEstimated": 0.72},
	{"symbol": "XOM",  "date": "2025-12-12", "time": "amc", "epsEstimated": 1.9}
]`

func TestFetchFiltersToRequestedSymbols(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/earning_calendar", r.URL.Path)
		assert.Equal(t, "2025-12-08", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-12-15", r.URL.Query().Get("to"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		fmt.Fprint(w, calendarBody)
	}))
	defer srv.Close()

	p := New(srv.URL, "test-key", 600, nil)
	from := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC)

	events, err := p.Fetch(context.Background(), []string{"aapl", "MSFT", "TSLA"}, from, to)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "AAPL", events[0].Symbol)
	assert.Equal(t, model.TimeAfterClose, events[0].Time)
	require.NotNil(t, events[0].EPSEstimate)
	assert.InDelta(t, 2.35, *events[0].EPSEstimate, 1e-9)

	// symbol matching is case-insensitive, output is normalized upper
	assert.Equal(t, "MSFT", events[1].Symbol)
	assert.Equal(t, model.TimeBeforeOpen, events[1].Time)
	assert.Nil(t, events[1].EPSEstimate)

	// empty time field maps to unknown
	assert.Equal(t, "TSLA", events[2].Symbol)
	assert.Equal(t, model.TimeUnknown, events[2].Time)
}

func TestFetchErrorsOnUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := New(srv.URL, "bad-key", 600, nil)
	_, err := p.Fetch(context.Background(), []string{"AAPL"}, time.Now(), time.Now().AddDate(0, 0, 7))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, model.TimeBeforeOpen, parseTime("bmo"))
	assert.Equal(t, model.TimeAfterClose, parseTime("AMC"))
	assert.Equal(t, model.TimeDuringMarket, parseTime("dmt"))
	assert.Equal(t, model.TimeUnknown, parseTime(""))
	assert.Equal(t, model.TimeUnknown, parseTime("--"))
}
