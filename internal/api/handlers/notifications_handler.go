package handlers

import (
	"net/http"

	"github.com/projectflow/engine/internal/api/types"
	"github.com/projectflow/engine/internal/repository"
)

type NotificationsHandler struct {
	notifications repository.NotificationRepository
}

func NewNotificationsHandler(notifications repository.NotificationRepository) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}
	items, err := h.notifications.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: items})
}
