package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valeriluca/earnings-calendar/internal/holidays"
)

func TestGetHolidaysRequiresYear(t *testing.T) {
	h := &Handler{}

	for _, q := range []string{"", "year=25", "year=soon"} {
		rec := httptest.NewRecorder()
		h.GetHolidays(rec, httptest.NewRequest(http.MethodGet, "/api/v1/holidays?"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "query %q", q)
	}
}

func TestGetHolidaysFiltersByMarket(t *testing.T) {
	h := &Handler{}

	rec := httptest.NewRecorder()
	h.GetHolidays(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/holidays?year=2025&market=NYSE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var list []holidays.Holiday
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.NotEmpty(t, list)
	for _, day := range list {
		assert.Equal(t, "2025", day.Date[:4])
		assert.Contains(t, day.Markets, "NYSE")
	}
}

func TestGetHolidaysUnknownMarketIsEmptyArray(t *testing.T) {
	h := &Handler{}

	rec := httptest.NewRecorder()
	h.GetHolidays(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/holidays?year=2025&market=NOPE", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
