package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/services"
	pkghttp "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/http"
)

// OTPHandler handles email OTP issue and verification requests
type OTPHandler struct {
	otpService *services.OTPService
	logger     *slog.Logger
}

// NewOTPHandler creates a new OTP handler
func NewOTPHandler(otpService *services.OTPService, logger *slog.Logger) *OTPHandler {
	return &OTPHandler{
		otpService: otpService,
		logger:     logger,
	}
}

// Send handles POST /api/otp/send. The response does not reveal whether
// the address belongs to an account.
func (h *OTPHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	purpose := models.OTPPurpose(req.Type)
	if err := h.otpService.Issue(r.Context(), req.Email, purpose); err != nil {
		if errors.Is(err, models.ErrDeliveryFailed) {
			pkghttp.WriteInternalError(w, "Failed to send verification code")
			return
		}
		pkghttp.WriteInternalError(w, "Internal error")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// Verify handles POST /api/otp/verify. Wrong code, expired code, and
// unknown email all produce the same 400.
func (h *OTPHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	matched, err := h.otpService.Verify(r.Context(), req.Email, req.OTP, models.OTPPurpose(req.Type))
	if err != nil {
		pkghttp.WriteInternalError(w, "Internal error")
		return
	}

	if !matched {
		pkghttp.WriteBadRequest(w, "Invalid or expired code")
		return
	}

	writeJSON(w, http.StatusOK, struct{}{})
}
