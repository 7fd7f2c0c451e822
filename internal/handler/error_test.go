package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ranklens/ranklens/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.ELIMIT, http.StatusForbidden},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EUNAVAILABLE, http.StatusServiceUnavailable},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"something_else", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCodeToHTTPStatus(tt.code))
		})
	}
}

func TestErrorResponse_DomainError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/projects", nil)

	ErrorResponse(w, r, discardLogger(), domain.Invalid("project.create", "Project name is required"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, domain.EINVALID, body.Error.Code)
	assert.Equal(t, "Project name is required", body.Error.Message)
}

func TestErrorResponse_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/usage", nil)

	inner := errors.New("pq: connection refused")
	ErrorResponse(w, r, discardLogger(), domain.Internal(inner, "usage.stats", "query failed"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), "An internal error occurred")
}

func TestErrorResponse_LimitError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/projects", nil)

	err := domain.LimitExceeded("usage.track", domain.CategoryProjects, 3, 3)
	ErrorResponse(w, r, discardLogger(), err)

	// Plan denials are 403 with the structured payload, not a bare message.
	assert.Equal(t, http.StatusForbidden, w.Code)

	var body struct {
		Error struct {
			Code         string `json:"code"`
			Message      string `json:"message"`
			LimitType    string `json:"limitType"`
			CurrentUsage int64  `json:"currentUsage"`
			Limit        int64  `json:"limit"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, domain.ELIMIT, body.Error.Code)
	assert.Equal(t, string(domain.CategoryProjects), body.Error.LimitType)
	assert.Equal(t, int64(3), body.Error.CurrentUsage)
	assert.Equal(t, int64(3), body.Error.Limit)
	assert.Contains(t, body.Error.Message, "plan limit")
}

func TestErrorResponse_WrappedLimitError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)

	wrapped := domain.DailyLimitExceeded("analysis.run", domain.CategorySEOTools, 5, 5)
	ErrorResponse(w, r, discardLogger(), wrapped)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "daily limit")
	assert.Contains(t, w.Body.String(), `"limitType":"seoTools"`)
}

func TestDecodeJSON_InvalidBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/projects", nil)

	var dst struct{}
	err := decodeJSON(r, &dst)
	require.Error(t, err)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}
