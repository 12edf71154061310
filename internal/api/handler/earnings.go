package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/valeriluca/earnings-calendar/internal/api/respond"
	"github.com/valeriluca/earnings-calendar/internal/model"
)

// defaultWindowDays is the look-ahead when the caller omits `to`.
const defaultWindowDays = 60

// GetEarnings proxies the upstream earnings provider, shielding its API
// key from clients.
// @Summary Upcoming earnings for symbols
// @Description Returns earnings events for the comma-separated symbols within [from, to]. Defaults: from=today, to=from+60d.
// @Tags earnings
// @Produce json
// @Param symbols query string true "Comma-separated ticker symbols"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {array} model.EarningsEvent
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /earnings [get]
func (h *Handler) GetEarnings(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("symbols")
	if raw == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_PARAMETER",
			"Missing required parameter: symbols")
		return
	}

	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if trimmed := strings.ToUpper(strings.TrimSpace(s)); trimmed != "" {
			symbols = append(symbols, trimmed)
		}
	}
	if len(symbols) == 0 {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_PARAMETER",
			"Missing required parameter: symbols")
		return
	}

	from, err := parseDateOr(r.URL.Query().Get("from"), time.Now().UTC())
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMETER",
			"from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateOr(r.URL.Query().Get("to"), from.AddDate(0, 0, defaultWindowDays))
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMETER",
			"to must be YYYY-MM-DD")
		return
	}

	events, err := h.fetcher.Fetch(r.Context(), symbols, from, to)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "UPSTREAM_ERROR",
			"Failed to fetch earnings data", err.Error())
		return
	}
	if events == nil {
		events = []model.EarningsEvent{}
	}
	respond.WriteJSON(w, http.StatusOK, events)
}

func parseDateOr(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	return time.Parse(model.DateLayout, s)
}
