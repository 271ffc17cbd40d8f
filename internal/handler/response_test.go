package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/pitchhub/internal/apperror"
)

func TestWriteError_Mapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"validation", apperror.ValidationFailed("title", "title is required"), http.StatusBadRequest, "validation_error"},
		{"unauthorized", apperror.Unauthorized("invalid credentials"), http.StatusUnauthorized, "unauthorized"},
		{"forbidden", apperror.Forbidden("nope"), http.StatusForbidden, "forbidden"},
		{"not found, wrapped", fmt.Errorf("service/pitch: %w", apperror.NotFound("pitch", 7)), http.StatusNotFound, "not_found"},
		{"conflict", apperror.Conflict("user", "alice"), http.StatusConflict, "conflict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, slog.New(slog.NewTextHandler(io.Discard, nil)), tt.err)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var res ErrorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
			assert.Equal(t, tt.wantType, res.Error)
		})
	}
}

func TestWriteError_InternalDetailsStayInLog(t *testing.T) {
	var logs bytes.Buffer
	rr := httptest.NewRecorder()

	writeError(rr, slog.New(slog.NewTextHandler(&logs, nil)), errors.New("sqlite: no such table: pitches"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "no such table")
	assert.Contains(t, logs.String(), "no such table")
}

func TestPathID(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-3", ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = withURLParam(req, "id", raw)
		_, err := pathID(req, "id")
		assert.ErrorIs(t, err, apperror.ErrValidation, "raw %q", raw)
	}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", "42")
	id, err := pathID(req, "id")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)
}

func TestPagination(t *testing.T) {
	limit, offset := pagination(httptest.NewRequest(http.MethodGet, "/?limit=5&offset=10", nil))
	assert.Equal(t, 5, limit)
	assert.Equal(t, 10, offset)

	limit, offset = pagination(httptest.NewRequest(http.MethodGet, "/?limit=lots", nil))
	assert.Zero(t, limit)
	assert.Zero(t, offset)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}
