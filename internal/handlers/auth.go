package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/identity"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/services"
	pkghttp "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/http"
)

// AuthHandler handles the multi-step login and signup endpoints
type AuthHandler struct {
	authService *services.AuthService
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles POST /api/auth/login: credential pre-check plus OTP issue.
// No session is returned here.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.authService.BeginLogin(r.Context(), req.Email, req.Password); err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Invalid email or password")
		case errors.Is(err, models.ErrDeliveryFailed):
			pkghttp.WriteInternalError(w, "Failed to send verification code")
		default:
			h.logger.Error("login begin failed", slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// CompleteLogin handles POST /api/auth/login/complete: OTP consumption and
// the real session grant.
func (h *AuthHandler) CompleteLogin(w http.ResponseWriter, r *http.Request) {
	var req CompleteLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	session, err := h.authService.CompleteLogin(r.Context(), req.Email, req.Password, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOTPInvalid):
			pkghttp.WriteUnauthorized(w, "Invalid or expired code")
		case errors.Is(err, models.ErrInvalidCredentials):
			pkghttp.WriteUnauthorized(w, "Invalid email or password")
		default:
			h.logger.Error("login complete failed", slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		TokenType:    session.TokenType,
		ExpiresIn:    session.ExpiresIn,
	})
}

// StartSignup handles POST /api/auth/signup/start: email collection and
// OTP issue. The response is identical whether or not the address already
// has an account.
func (h *AuthHandler) StartSignup(w http.ResponseWriter, r *http.Request) {
	var req StartSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.authService.BeginSignup(r.Context(), req.Email); err != nil {
		if errors.Is(err, models.ErrDeliveryFailed) {
			pkghttp.WriteInternalError(w, "Failed to send verification code")
			return
		}
		h.logger.Error("signup start failed", slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// CompleteSignup handles POST /api/auth/signup/complete: profile payload
// validation, OTP consumption, and account creation.
func (h *AuthHandler) CompleteSignup(w http.ResponseWriter, r *http.Request) {
	var req CompleteSignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	account := identity.NewAccount{
		Email:       req.Email,
		Password:    req.Password,
		FullName:    req.FullName,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
	}

	userID, err := h.authService.CompleteSignup(r.Context(), account, req.OTP)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOTPInvalid):
			pkghttp.WriteUnauthorized(w, "Invalid or expired code")
		case errors.Is(err, models.ErrConflict):
			pkghttp.WriteConflict(w, "An account with this email already exists")
		case errors.Is(err, models.ErrBadRequest):
			pkghttp.WriteBadRequest(w, "Invalid signup details")
		default:
			h.logger.Error("signup complete failed", slog.Any("error", err))
			pkghttp.WriteInternalError(w, "Internal error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, SignupCompleteResponse{UserID: userID})
}
