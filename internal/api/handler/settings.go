package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/valeriluca/earnings-calendar/internal/api/respond"
	"github.com/valeriluca/earnings-calendar/internal/model"
	"github.com/valeriluca/earnings-calendar/internal/scheduler"
)

// GetSettings returns the scheduler's live notification settings.
// @Summary Get notification settings
// @Tags settings
// @Produce json
// @Success 200 {object} model.NotificationSettings
// @Router /settings [get]
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSON(w, http.StatusOK, h.sched.Settings())
}

// UpdateSettings applies and persists new notification settings. The
// scheduler re-arms or cancels its timers to match before this returns.
// @Summary Update notification settings
// @Tags settings
// @Accept json
// @Produce json
// @Param request body model.NotificationSettings true "New settings"
// @Success 200 {object} model.NotificationSettings
// @Failure 400 {object} respond.ErrorResponse
// @Failure 403 {object} respond.ErrorResponse
// @Router /settings [put]
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var next model.NotificationSettings
	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", "Invalid JSON body")
		return
	}

	applied, err := h.sched.ApplySettings(r.Context(), next)
	if err != nil {
		if errors.Is(err, scheduler.ErrPermissionDenied) {
			// The scheduler has already rolled back to disabled; return
			// the applied state so clients can reflect it.
			respond.WriteJSON(w, http.StatusForbidden, map[string]interface{}{
				"error":    "PERMISSION_DENIED",
				"message":  "Notification permission was not granted",
				"settings": applied,
			})
			return
		}
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_SETTINGS",
			"Failed to apply settings", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, applied)
}

// ResetSettings restores default notification settings.
// @Summary Reset notification settings
// @Tags settings
// @Produce json
// @Success 200 {object} model.NotificationSettings
// @Failure 500 {object} respond.ErrorResponse
// @Router /settings/reset [post]
func (h *Handler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	applied, err := h.sched.ApplySettings(r.Context(), model.DefaultSettings())
	if err != nil && !errors.Is(err, scheduler.ErrPermissionDenied) {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "DB_ERROR",
			"Failed to reset settings", err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, applied)
}
