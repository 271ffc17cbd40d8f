package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sakif/pitchhub/internal/service"
)

// NotificationHandler lets a user read and dismiss their notifications.
// Creation is internal: nothing here writes a new notification.
type NotificationHandler struct {
	unread *service.UnreadService
	logger *slog.Logger
}

func NewNotificationHandler(unread *service.UnreadService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{unread: unread, logger: logger}
}

// HandleList returns the caller's notifications newest first.
//
// HTTP: GET /api/notifications?unread=true&limit=20&offset=0
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	limit, offset := pagination(r)

	list, err := h.unread.ListNotifications(r.Context(), userID, unreadOnly, limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleMarkRead marks one notification read. Always 204.
//
// HTTP: POST /api/notifications/{id}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.unread.MarkNotificationRead(r.Context(), id, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMarkAllRead marks every unread notification of the caller read.
//
// HTTP: POST /api/notifications/read-all
// RESPONSE: {"updated": 3}
func (h *NotificationHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	n, err := h.unread.MarkAllNotificationsRead(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

// HandleDelete removes one notification. Always 204.
//
// HTTP: DELETE /api/notifications/{id}
func (h *NotificationHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.unread.DeleteNotification(r.Context(), id, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
