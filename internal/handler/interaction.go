package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pitchhub/internal/service"
)

// InteractionHandler serves likes and comments.
type InteractionHandler struct {
	interactions *service.InteractionService
	logger       *slog.Logger
}

func NewInteractionHandler(interactions *service.InteractionService, logger *slog.Logger) *InteractionHandler {
	return &InteractionHandler{interactions: interactions, logger: logger}
}

// HandleToggleLike flips the caller's like on a pitch.
//
// HTTP: POST /api/pitches/{id}/like
// RESPONSE: {"liked": true, "likeCount": 3}
func (h *InteractionHandler) HandleToggleLike(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	pitchID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.interactions.ToggleLike(r.Context(), pitchID, userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type commentRequest struct {
	Body string `json:"body"`
}

// HandleAddComment posts a comment on a pitch.
//
// HTTP: POST /api/pitches/{id}/comments
// REQUEST BODY: {"body": "great idea"}
func (h *InteractionHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	pitchID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	c, err := h.interactions.AddComment(r.Context(), pitchID, userID, req.Body)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// HandleListComments returns a pitch's comments, oldest first.
//
// HTTP: GET /api/pitches/{id}/comments
func (h *InteractionHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	pitchID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	list, err := h.interactions.ListComments(r.Context(), pitchID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// HandleDeleteComment deletes the caller's own comment. Anyone else's, or a
// missing one, is still a 204.
//
// HTTP: DELETE /api/comments/{id}
func (h *InteractionHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.interactions.DeleteComment(r.Context(), id, userID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
