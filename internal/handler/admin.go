package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/service"
)

// AdminHandler serves the moderation endpoints. The role check lives in
// AdminService, so a non-admin gets 403 from every method here.
type AdminHandler struct {
	admin  *service.AdminService
	logger *slog.Logger
}

func NewAdminHandler(admin *service.AdminService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

// HandleListUsers
//
// HTTP: GET /api/admin/users?limit=20&offset=0
func (h *AdminHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, offset := pagination(r)
	users, err := h.admin.ListUsers(r.Context(), userID, limit, offset)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

type roleRequest struct {
	Role model.Role `json:"role"`
}

// HandleSetRole
//
// HTTP: PUT /api/admin/users/{id}/role
// REQUEST BODY: {"role": "verified"}
func (h *AdminHandler) HandleSetRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	targetID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.admin.SetRole(r.Context(), userID, targetID, req.Role); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteUser
//
// HTTP: DELETE /api/admin/users/{id}
func (h *AdminHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	targetID, err := pathID(r, "id")
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.admin.DeleteUser(r.Context(), userID, targetID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleStats
//
// HTTP: GET /api/admin/stats
func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stats, err := h.admin.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
