package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pitchhub/internal/service"
)

// MessageHandler serves direct messages.
type MessageHandler struct {
	messaging *service.MessagingService
	logger    *slog.Logger
}

func NewMessageHandler(messaging *service.MessagingService, logger *slog.Logger) *MessageHandler {
	return &MessageHandler{messaging: messaging, logger: logger}
}

type sendMessageRequest struct {
	ReceiverID int64  `json:"receiverId"`
	Subject    string `json:"subject"`
	Body       string `json:"body"`
}

// HandleList returns the caller's inbox and outbox.
//
// HTTP: GET /api/messages
// RESPONSE: {"received": [...], "sent": [...]}
func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	box, err := h.messaging.ListForUser(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, box)
}

// HandleSend stores a message and notifies the receiver.
//
// HTTP: POST /api/messages
// REQUEST BODY: {"receiverId": 2, "subject": "optional", "body": "hello"}
func (h *MessageHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	msg, err := h.messaging.Send(r.Context(), userID, req.ReceiverID, req.Subject, req.Body)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// HandleGet returns one message to its sender or receiver.
//
// HTTP: GET /api/messages/{id}
func (h *MessageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	msg, err := h.messaging.Get(r.Context(), id, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// HandleMarkRead marks a received message read. Always 204.
//
// HTTP: POST /api/messages/{id}/read
func (h *MessageHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.messaging.MarkRead(r.Context(), id, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
