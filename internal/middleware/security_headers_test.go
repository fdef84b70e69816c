package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func securedResponse(t *testing.T, env string, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	handler := SecurityHeaders(SecurityHeadersConfig{Env: env})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSecurityHeaders_Basics(t *testing.T) {
	rec := securedResponse(t, "development", nil)

	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestSecurityHeaders_HSTSOnlyInProductionOverTLS(t *testing.T) {
	plain := securedResponse(t, "production", nil)
	assert.Empty(t, plain.Header().Get("Strict-Transport-Security"))

	forwarded := securedResponse(t, "production", func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
	})
	assert.Contains(t, forwarded.Header().Get("Strict-Transport-Security"), "max-age=31536000")

	dev := securedResponse(t, "development", func(r *http.Request) {
		r.Header.Set("X-Forwarded-Proto", "https")
	})
	assert.Empty(t, dev.Header().Get("Strict-Transport-Security"))
}
