package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/identity"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authHarness struct {
	handler  *AuthHandler
	provider *services.MockProvider
	lastCode *string
}

func newAuthHarness(provider *services.MockProvider) *authHarness {
	h := &authHarness{provider: provider}

	var lastCode string
	h.lastCode = &lastCode

	repo := &services.MockOTPChallengeRepository{
		ReplaceFunc: func(ctx context.Context, challenge *models.EmailOTPChallenge) error {
			lastCode = challenge.Code
			return nil
		},
		ConsumeFunc: func(ctx context.Context, email, code string, purpose models.OTPPurpose) (bool, error) {
			if lastCode != "" && code == lastCode {
				lastCode = ""
				return true, nil
			}
			return false, nil
		},
	}

	timing := auth.NewTimingDelay(auth.TimingConfig{})
	otpSvc := services.NewOTPService(repo, &services.MockEmailSender{}, timing, slog.Default(), 10*time.Minute)
	authSvc := services.NewAuthService(provider, otpSvc, slog.Default())
	h.handler = NewAuthHandler(authSvc, slog.Default())
	return h
}

func postJSON(t *testing.T, handler http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := newAuthHarness(&services.MockProvider{
		PasswordGrantFunc: func(ctx context.Context, email, password string) (*models.Session, error) {
			return nil, models.ErrInvalidCredentials
		},
	})

	rec := postJSON(t, h.handler.Login, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := newAuthHarness(&services.MockProvider{})

	rec := postJSON(t, h.handler.Login, "/api/auth/login", map[string]string{"email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_LoginFlow_EndToEnd(t *testing.T) {
	grants := 0
	h := newAuthHarness(&services.MockProvider{
		PasswordGrantFunc: func(ctx context.Context, email, password string) (*models.Session, error) {
			grants++
			return &models.Session{AccessToken: "token", TokenType: "bearer", ExpiresIn: 3600}, nil
		},
	})

	rec := postJSON(t, h.handler.Login, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "Str0ng!Passw0rd",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, *h.lastCode)

	rec = postJSON(t, h.handler.CompleteLogin, "/api/auth/login/complete", map[string]string{
		"email":    "user@example.com",
		"password": "Str0ng!Passw0rd",
		"otp":      *h.lastCode,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "token", resp.AccessToken)
	assert.Equal(t, 2, grants)
}

func TestAuthHandler_CompleteLogin_WrongCode(t *testing.T) {
	h := newAuthHarness(&services.MockProvider{
		PasswordGrantFunc: func(ctx context.Context, email, password string) (*models.Session, error) {
			return &models.Session{AccessToken: "token"}, nil
		},
	})

	rec := postJSON(t, h.handler.Login, "/api/auth/login", map[string]string{
		"email":    "user@example.com",
		"password": "Str0ng!Passw0rd",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.handler.CompleteLogin, "/api/auth/login/complete", map[string]string{
		"email":    "user@example.com",
		"password": "Str0ng!Passw0rd",
		"otp":      "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_SignupFlow_EndToEnd(t *testing.T) {
	var created identity.NewAccount
	h := newAuthHarness(&services.MockProvider{
		CreateAccountFunc: func(ctx context.Context, account identity.NewAccount) (string, error) {
			created = account
			return "user_new_123", nil
		},
	})

	rec := postJSON(t, h.handler.StartSignup, "/api/auth/signup/start", map[string]string{
		"email": "new@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, *h.lastCode)

	rec = postJSON(t, h.handler.CompleteSignup, "/api/auth/signup/complete", map[string]string{
		"email":       "new@example.com",
		"password":    "Str0ngPassw0rd",
		"fullName":    "New User",
		"phone":       "+15551234567",
		"dateOfBirth": "1990-04-01",
		"otp":         *h.lastCode,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SignupCompleteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "user_new_123", resp.UserID)
	assert.Equal(t, "new@example.com", created.Email)
}

func TestAuthHandler_CompleteSignup_RejectsBadProfile(t *testing.T) {
	createCalled := false
	h := newAuthHarness(&services.MockProvider{
		CreateAccountFunc: func(ctx context.Context, account identity.NewAccount) (string, error) {
			createCalled = true
			return "id", nil
		},
	})

	tests := []struct {
		name string
		body map[string]string
	}{
		{
			name: "weak password",
			body: map[string]string{
				"email": "new@example.com", "password": "password",
				"fullName": "New User", "phone": "+15551234567",
				"dateOfBirth": "1990-04-01", "otp": "123456",
			},
		},
		{
			name: "bad phone",
			body: map[string]string{
				"email": "new@example.com", "password": "Str0ngPassw0rd",
				"fullName": "New User", "phone": "555-1234",
				"dateOfBirth": "1990-04-01", "otp": "123456",
			},
		},
		{
			name: "bad name",
			body: map[string]string{
				"email": "new@example.com", "password": "Str0ngPassw0rd",
				"fullName": "x9$!", "phone": "+15551234567",
				"dateOfBirth": "1990-04-01", "otp": "123456",
			},
		},
		{
			name: "implausible birthdate",
			body: map[string]string{
				"email": "new@example.com", "password": "Str0ngPassw0rd",
				"fullName": "New User", "phone": "+15551234567",
				"dateOfBirth": "2025-01-01", "otp": "123456",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, h.handler.CompleteSignup, "/api/auth/signup/complete", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	assert.False(t, createCalled, "invalid profiles must not reach the provider")
}

func TestAuthHandler_CompleteSignup_Conflict(t *testing.T) {
	h := newAuthHarness(&services.MockProvider{
		CreateAccountFunc: func(ctx context.Context, account identity.NewAccount) (string, error) {
			return "", models.ErrConflict
		},
	})

	rec := postJSON(t, h.handler.StartSignup, "/api/auth/signup/start", map[string]string{
		"email": "taken@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, h.handler.CompleteSignup, "/api/auth/signup/complete", map[string]string{
		"email":       "taken@example.com",
		"password":    "Str0ngPassw0rd",
		"fullName":    "New User",
		"phone":       "+15551234567",
		"dateOfBirth": "1990-04-01",
		"otp":         *h.lastCode,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}
