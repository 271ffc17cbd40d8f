package auth

import (
	"context"
	"net/http"
	"strings"
)

// CookieName is the HttpOnly cookie that carries the JWT.
const CookieName = "token"

// contextKey is an unexported type so no other package can read or shadow
// the values this package stores in a request context.
type contextKey string

const userIDKey contextKey = "userID"

// RequireAuth rejects the request with 401 unless it carries a valid token.
// On success the user id is available through UserIDFromContext.
//
// Chi applies middlewares in a chain: req → M1 → M2 → Handler → M2 → M1 → resp
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}` + "\n"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth identifies the caller when a valid token is present and lets
// anonymous requests through untouched. Public pages use it to compute
// "likedByMe" for signed-in viewers.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil {
				r = r.WithContext(WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUserID returns a copy of ctx carrying userID. Handler tests use it to
// skip token minting.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns (id, true) for an authenticated request and
// (0, false) for an anonymous one.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok && id > 0
}

// extractUserID looks for the token in the cookie first, then in an
// "Authorization: Bearer <jwt>" header.
func extractUserID(r *http.Request, tokens *TokenService) (int64, error) {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return tokens.Validate(cookie.Value)
	}

	header := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return tokens.Validate(strings.TrimSpace(token))
	}
	return 0, ErrInvalidToken
}
