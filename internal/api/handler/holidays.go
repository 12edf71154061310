package handler

import (
	"net/http"
	"strconv"

	"github.com/valeriluca/earnings-calendar/internal/api/respond"
	"github.com/valeriluca/earnings-calendar/internal/holidays"
)

// GetHolidays lists market closures for a year, optionally filtered by
// market code.
// @Summary Market holidays
// @Tags holidays
// @Produce json
// @Param year query string true "Four-digit year"
// @Param market query string false "Market code (NYSE, NASDAQ, LSE, ...)"
// @Success 200 {array} holidays.Holiday
// @Failure 400 {object} respond.ErrorResponse
// @Router /holidays [get]
func (h *Handler) GetHolidays(w http.ResponseWriter, r *http.Request) {
	year := r.URL.Query().Get("year")
	if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMETER",
			"year must be a four-digit year")
		return
	}
	market := r.URL.Query().Get("market")

	list := holidays.ForYear(year, market)
	if list == nil {
		list = []holidays.Holiday{}
	}
	respond.WriteJSON(w, http.StatusOK, list)
}
