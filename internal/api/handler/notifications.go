package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/valeriluca/earnings-calendar/internal/api/respond"
	"github.com/valeriluca/earnings-calendar/internal/dispatch"
	"github.com/valeriluca/earnings-calendar/internal/store"
)

type subscribeRequest struct {
	Endpoint string `json:"endpoint"`
	Keys     struct {
		P256dh string `json:"p256dh"`
		Auth   string `json:"auth"`
	} `json:"keys"`
}

// SendTestNotification dispatches a test notification to every surface.
// @Summary Send test notification
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 502 {object} respond.ErrorResponse
// @Router /notifications/test [post]
func (h *Handler) SendTestNotification(w http.ResponseWriter, r *http.Request) {
	err := h.dispatcher.Show(r.Context(), "Test Notification",
		"Notifications are working correctly", dispatch.TagTest)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadGateway, "DISPATCH_FAILED",
			"Failed to deliver test notification", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

// GetNotificationHistory returns recent delivered notifications.
// @Summary Notification history
// @Tags notifications
// @Produce json
// @Param limit query int false "Max entries (default 50)"
// @Success 200 {array} store.HistoryEntry
// @Failure 500 {object} respond.ErrorResponse
// @Router /notifications/history [get]
func (h *Handler) GetNotificationHistory(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_PARAMETER",
				"limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}
	entries, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to load notification history", err.Error())
		return
	}
	if entries == nil {
		entries = []store.HistoryEntry{}
	}
	respond.WriteJSON(w, http.StatusOK, entries)
}

// Subscribe stores a Web Push subscription.
// @Summary Register push subscription
// @Tags notifications
// @Accept json
// @Produce json
// @Param request body subscribeRequest true "Push subscription"
// @Success 201 {object} map[string]string
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /notifications/subscriptions [post]
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_PARAMETER",
			"endpoint, keys.p256dh, and keys.auth are required")
		return
	}
	if err := h.subscriptions.Add(r.Context(), req.Endpoint, req.Keys.P256dh, req.Keys.Auth); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to store subscription", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

// Unsubscribe removes a Web Push subscription by endpoint.
// @Summary Remove push subscription
// @Tags notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /notifications/subscriptions [delete]
func (h *Handler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Endpoint string `json:"endpoint"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Endpoint) == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_PARAMETER",
			"Missing required field: endpoint")
		return
	}
	if err := h.subscriptions.Remove(r.Context(), req.Endpoint); err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to remove subscription", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "unsubscribed"})
}

// GetVAPIDPublicKey returns the server's VAPID public key so browsers can
// subscribe.
// @Summary VAPID public key
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]string
// @Router /notifications/vapid-public-key [get]
func (h *Handler) GetVAPIDPublicKey(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, map[string]string{
		"publicKey": h.cfg.VAPIDPublicKey,
	})
}
