package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteJSON(w, http.StatusCreated, map[string]string{"userId": "user-1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"userId":"user-1"}`, w.Body.String())
}

func TestErrorWriters(t *testing.T) {
	tests := []struct {
		name       string
		write      func(w http.ResponseWriter, message string)
		wantStatus int
		wantCode   string
	}{
		{"bad request", pkghttp.WriteBadRequest, http.StatusBadRequest, "bad_request"},
		{"unauthorized", pkghttp.WriteUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", pkghttp.WriteForbidden, http.StatusForbidden, "forbidden"},
		{"not found", pkghttp.WriteNotFound, http.StatusNotFound, "not_found"},
		{"conflict", pkghttp.WriteConflict, http.StatusConflict, "conflict"},
		{"too many requests", pkghttp.WriteTooManyRequests, http.StatusTooManyRequests, "rate_limit_exceeded"},
		{"internal", pkghttp.WriteInternalError, http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w, "some message")

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

			var resp pkghttp.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error)
			assert.Equal(t, "some message", resp.Message)
			assert.Empty(t, resp.Details)
		})
	}
}

func TestWriteErrorWithDetails(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteErrorWithDetails(w, http.StatusBadRequest, "bad_request", "Validation failed", "otp: must be exactly 6 characters")

	var resp pkghttp.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "bad_request", resp.Error)
	assert.Equal(t, "Validation failed", resp.Message)
	assert.Equal(t, "otp: must be exactly 6 characters", resp.Details)
}
