package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/pitchhub/internal/auth"
	"github.com/sakif/pitchhub/internal/model"
	"github.com/sakif/pitchhub/internal/service"
)

// AuthHandler manages registration, login and session cookies.
//
// HANDLER RESPONSIBILITIES:
//   - HandleRegister → create an account
//   - HandleLogin    → check credentials, issue the JWT cookie
//   - HandleLogout   → clear the JWT cookie
//   - HandleMe       → return the logged-in user's profile
//   - HandleCounts   → unread messages and notifications for the header
type AuthHandler struct {
	auth   *service.AuthService
	unread *service.UnreadService
	ttl    time.Duration
	secure bool
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. ttl is the cookie lifetime and
// should match the token TTL; secure marks the cookie HTTPS-only.
func NewAuthHandler(
	authService *service.AuthService,
	unread *service.UnreadService,
	ttl time.Duration,
	secure bool,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		unread: unread,
		ttl:    ttl,
		secure: secure,
		logger: logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// HandleRegister creates an account with role "user".
//
// HTTP: POST /api/auth/register
// REQUEST BODY: {"username": "alice", "password": "at-least-8"}
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	user, err := h.auth.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleLogin verifies credentials and sets the token cookie. The token is
// also returned in the body for API clients that send it as a Bearer header.
//
// HTTP: POST /api/auth/login
//
// The cookie is HttpOnly (no JavaScript access) and SameSite=Lax (not sent
// on cross-site POSTs).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.logger, err)
		return
	}

	res, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    res.Token,
		Path:     "/",
		MaxAge:   int(h.ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{User: res.User, Token: res.Token})
}

// HandleLogout clears the JWT cookie.
//
// HTTP: POST /api/auth/logout
//
// Since we're stateless (JWT), "logout" just deletes the client-side cookie.
// The token itself stays valid until it expires.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// HandleMe returns the currently authenticated user's profile.
//
// HTTP: GET /api/me
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleCounts returns the unread message and notification counts.
//
// HTTP: GET /api/me/counts
func (h *AuthHandler) HandleCounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	counts, err := h.unread.Counts(r.Context(), userID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
