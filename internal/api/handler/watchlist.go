package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/valeriluca/earnings-calendar/internal/api/respond"
	"github.com/valeriluca/earnings-calendar/internal/model"
)

type addSymbolRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name,omitempty"`
}

// GetWatchlist lists tracked symbols.
// @Summary Get watchlist
// @Tags watchlist
// @Produce json
// @Success 200 {array} model.WatchlistEntry
// @Failure 500 {object} respond.ErrorResponse
// @Router /watchlist [get]
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	entries, err := h.watchlist.All(r.Context())
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to load watchlist", err.Error())
		return
	}
	if entries == nil {
		entries = []model.WatchlistEntry{}
	}
	respond.WriteJSON(w, http.StatusOK, entries)
}

// AddToWatchlist adds a symbol to the watchlist.
// @Summary Add symbol
// @Tags watchlist
// @Accept json
// @Produce json
// @Param request body addSymbolRequest true "Symbol to track"
// @Success 201 {object} map[string]string
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /watchlist [post]
func (h *Handler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	var req addSymbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_PARAMETER",
			"Missing required field: symbol")
		return
	}
	if err := h.watchlist.Add(r.Context(), symbol, req.Name); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to add symbol", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]string{"symbol": symbol, "status": "added"})
}

// RemoveFromWatchlist removes a symbol from the watchlist.
// @Summary Remove symbol
// @Tags watchlist
// @Produce json
// @Param symbol path string true "Ticker symbol"
// @Success 200 {object} map[string]string
// @Failure 500 {object} respond.ErrorResponse
// @Router /watchlist/{symbol} [delete]
func (h *Handler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	if err := h.watchlist.Remove(r.Context(), symbol); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to remove symbol", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"symbol": symbol, "status": "removed"})
}

// ResetWatchlist restores the default starter watchlist.
// @Summary Reset watchlist
// @Tags watchlist
// @Produce json
// @Success 200 {array} model.WatchlistEntry
// @Failure 500 {object} respond.ErrorResponse
// @Router /watchlist/reset [post]
func (h *Handler) ResetWatchlist(w http.ResponseWriter, r *http.Request) {
	if err := h.watchlist.Reset(r.Context()); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to reset watchlist", err.Error())
		return
	}
	entries, err := h.watchlist.All(r.Context())
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to load watchlist", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, entries)
}
