package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pitchhub/internal/auth"
	"github.com/sakif/pitchhub/internal/config"
	"github.com/sakif/pitchhub/internal/model"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		Addr:      ":0",
		DBPath:    ":memory:",
		JWTSecret: "server-test-secret-0123456789",
		TokenTTL:  time.Hour,
		Env:       "development",
		Log:       config.LogConfig{Level: "info", Format: "text"},
		Admin:     config.AdminConfig{Username: "root", Password: "rootpassword"},
	}

	s, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func send(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	if body != "" {
		rdr = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func login(t *testing.T, h http.Handler, username, password string) string {
	t.Helper()
	rr := send(t, h, http.MethodPost, "/api/auth/login", "",
		`{"username":"`+username+`","password":"`+password+`"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	return res.Token
}

func TestHealthAndMetrics(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := send(t, h, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())

	rr = send(t, h, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pitchhub_http_request_duration_seconds")
}

func TestRoutes_AuthBoundaries(t *testing.T) {
	h := newTestServer(t).Handler()

	// public reads work anonymously
	assert.Equal(t, http.StatusOK, send(t, h, http.MethodGet, "/api/pitches", "", "").Code)

	// everything private needs a token
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/me"},
		{http.MethodGet, "/api/me/counts"},
		{http.MethodPost, "/api/pitches"},
		{http.MethodPost, "/api/pitches/1/like"},
		{http.MethodGet, "/api/messages"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodGet, "/api/admin/stats"},
	} {
		rr := send(t, h, tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}

	rr := send(t, h, http.MethodGet, "/api/me", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestEndToEnd_LikeNotifiesAuthor(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	for _, name := range []string{"author", "fan"} {
		rr := send(t, h, http.MethodPost, "/api/auth/register", "",
			`{"username":"`+name+`","password":"password123"}`)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	}
	authorToken := login(t, h, "author", "password123")
	fanToken := login(t, h, "fan", "password123")

	rr := send(t, h, http.MethodPost, "/api/pitches", authorToken, `{"title":"Tiny homes","body":"Modular builds"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var p model.Pitch
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&p))

	rr = send(t, h, http.MethodPost, "/api/pitches/"+strconv.FormatInt(p.ID, 10)+"/like", fanToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"liked":true,"likeCount":1}`, rr.Body.String())

	// a signed-in viewer sees their own like on the public read
	rr = send(t, h, http.MethodGet, "/api/pitches/"+strconv.FormatInt(p.ID, 10), fanToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var view model.PitchView
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&view))
	assert.True(t, view.LikedByMe)

	rr = send(t, h, http.MethodGet, "/api/me/counts", authorToken, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"messages":0,"notifications":1}`, rr.Body.String())
}

func TestBootstrapAdmin(t *testing.T) {
	h := newTestServer(t).Handler()
	token := login(t, h, "root", "rootpassword")

	rr := send(t, h, http.MethodGet, "/api/admin/stats", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"users":1,"pitches":0,"likes":0,"comments":0,"messages":0,"notifications":0}`, rr.Body.String())

	rr = send(t, h, http.MethodGet, "/api/me", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var me model.User
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&me))
	assert.Equal(t, model.RoleAdmin, me.Role)
}

func TestCookieAuth(t *testing.T) {
	h := newTestServer(t).Handler()

	rr := send(t, h, http.MethodPost, "/api/auth/login", "", `{"username":"root","password":"rootpassword"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.False(t, cookies[0].Secure, "development cookies work over plain HTTP")

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookies[0].Value})
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}
