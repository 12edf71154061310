package yahoo

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

func quoteSummaryBody(epoch int64, epsEstimate float64) string {
	return fmt.Sprintf(`{
		"quoteSummary": {
			"result": [{
				"calendarEvents": {"earnings": {"earningsDate": [{"raw": %d, "fmt": "ignored"}]}},
				"earningsHistory": {"history": [{"epsEstimate": {"raw": %g}}]}
			}],
			"error": null
		}
	}`, epoch, epsEstimate)
}

func TestFetchParsesQuoteSummary(t *testing.T) {
	// hour 21 buckets as after close
	earningsAt := time.Date(2025, 12, 10, 21, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v10/finance/quoteSummary/AAPL", r.URL.Path)
		assert.Equal(t, "calendarEvents,earningsHistory", r.URL.Query().Get("modules"))
		fmt.Fprint(w, quoteSummaryBody(earningsAt.Unix(), 2.35))
	}))
	defer srv.Close()

	p := New(srv.URL, 600, nil)
	from := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 30)

	events, err := p.Fetch(context.Background(), []string{"AAPL"}, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "AAPL", e.Symbol)
	assert.Equal(t, "2025-12-10", e.Date)
	assert.Equal(t, model.TimeAfterClose, e.Time)
	require.NotNil(t, e.EPSEstimate)
	assert.InDelta(t, 2.35, *e.EPSEstimate, 1e-9)
	require.NotNil(t, e.FullDate)
	assert.True(t, e.FullDate.Equal(earningsAt))
}

func TestFetchSkipsDatesOutsideWindow(t *testing.T) {
	far := time.Now().UTC().AddDate(0, 6, 0)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, quoteSummaryBody(far.Unix(), 1.0))
	}))
	defer srv.Close()

	p := New(srv.URL, 600, nil)
	from := time.Now().UTC()
	to := from.AddDate(0, 0, 7)

	events, err := p.Fetch(context.Background(), []string{"MSFT"}, from, to)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFetchSkipsFailedSymbols(t *testing.T) {
	earningsAt := time.Date(2025, 12, 10, 12, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v10/finance/quoteSummary/BAD" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		fmt.Fprint(w, quoteSummaryBody(earningsAt.Unix(), 0))
	}))
	defer srv.Close()

	p := New(srv.URL, 600, nil)
	from := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 30)

	events, err := p.Fetch(context.Background(), []string{"BAD", "NVDA"}, from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "NVDA", events[0].Symbol)
	assert.Nil(t, events[0].EPSEstimate) // zero estimate means none reported
}

func TestFetchAbortsOnCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := New(srv.URL, 600, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx, []string{"AAPL", "MSFT"}, time.Now(), time.Now().AddDate(0, 0, 7))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGuessEarningsTime(t *testing.T) {
	cases := []struct {
		hour, minute int
		want         model.EarningsTime
	}{
		{7, 0, model.TimeBeforeOpen},
		{9, 29, model.TimeBeforeOpen},
		{9, 30, model.TimeDuringMarket},
		{12, 0, model.TimeDuringMarket},
		{15, 59, model.TimeDuringMarket},
		{16, 0, model.TimeAfterClose},
		{21, 30, model.TimeAfterClose},
	}
	for _, tc := range cases {
		ts := time.Date(2025, 12, 10, tc.hour, tc.minute, 0, 0, time.UTC)
		assert.Equal(t, tc.want, guessEarningsTime(ts), "hour=%d minute=%d", tc.hour, tc.minute)
	}
}
