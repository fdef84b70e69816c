package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGate struct {
	enabled    bool
	checkErr   error
	valid      bool
	validErr   error
	validToken string
}

func (g *fakeGate) Check(ctx context.Context, userID string) (bool, error) {
	return g.enabled, g.checkErr
}

func (g *fakeGate) Validate(ctx context.Context, userID, token string) (bool, error) {
	if g.validErr != nil {
		return false, g.validErr
	}
	if g.validToken != "" {
		return token == g.validToken, nil
	}
	return g.valid, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	handler := RequireAuth(tm)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	handler := RequireAuth(tm)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	handler := RequireAuth(tm)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_ValidToken_InjectsIdentity(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")

	token, err := tm.Generate("user-1", "user@example.com", time.Minute)
	require.NoError(t, err)

	var seen *http.Request
	handler := RequireAuth(tm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	identity := GetIdentityFromContext(seen)
	require.NotNil(t, identity)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "user@example.com", identity.Email)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")

	token, err := tm.Generate("user-1", "user@example.com", -time.Minute)
	require.NoError(t, err)

	handler := RequireAuth(tm)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func withIdentity(tm *TokenManager, t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	token, err := tm.Generate("user-1", "user@example.com", time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRequireMFA_DisabledPassesThrough(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	gate := &fakeGate{enabled: false}

	handler := RequireAuth(tm)(RequireMFA(gate, slog.Default())(okHandler()))

	req := withIdentity(tm, t, httptest.NewRequest(http.MethodPost, "/", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireMFA_EnabledMissingToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	gate := &fakeGate{enabled: true, validToken: "123456"}

	handler := RequireAuth(tm)(RequireMFA(gate, slog.Default())(okHandler()))

	req := withIdentity(tm, t, httptest.NewRequest(http.MethodPost, "/", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireMFA_EnabledWrongToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	gate := &fakeGate{enabled: true, validToken: "123456"}

	handler := RequireAuth(tm)(RequireMFA(gate, slog.Default())(okHandler()))

	req := withIdentity(tm, t, httptest.NewRequest(http.MethodPost, "/", nil))
	req.Header.Set(MFATokenHeader, "654321")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireMFA_EnabledCorrectToken(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	gate := &fakeGate{enabled: true, validToken: "123456"}

	handler := RequireAuth(tm)(RequireMFA(gate, slog.Default())(okHandler()))

	req := withIdentity(tm, t, httptest.NewRequest(http.MethodPost, "/", nil))
	req.Header.Set(MFATokenHeader, "123456")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireMFA_ValidateErrorFailsClosed(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	gate := &fakeGate{enabled: true, validErr: assert.AnError}

	handler := RequireAuth(tm)(RequireMFA(gate, slog.Default())(okHandler()))

	req := withIdentity(tm, t, httptest.NewRequest(http.MethodPost, "/", nil))
	req.Header.Set(MFATokenHeader, "123456")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireMFA_CheckErrorFailsClosed(t *testing.T) {
	tm := NewTokenManager("test-secret-32-characters-long!!")
	gate := &fakeGate{checkErr: assert.AnError}

	handler := RequireAuth(tm)(RequireMFA(gate, slog.Default())(okHandler()))

	req := withIdentity(tm, t, httptest.NewRequest(http.MethodPost, "/", nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
