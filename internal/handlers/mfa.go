package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/services"
	pkghttp "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/http"
	pkglogger "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/logger"
)

// MFAHandler handles MFA-related HTTP requests
type MFAHandler struct {
	mfaService *services.MFAService
	logger     *slog.Logger
	audit      *pkglogger.AuditLogger
}

// NewMFAHandler creates a new MFA handler
func NewMFAHandler(mfaService *services.MFAService, logger *slog.Logger) *MFAHandler {
	return &MFAHandler{
		mfaService: mfaService,
		logger:     logger,
		audit:      pkglogger.NewAuditLogger(logger),
	}
}

// Handle dispatches POST /api/mfa on the action discriminant.
func (h *MFAHandler) Handle(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentityFromContext(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req MFAActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	switch req.Action {
	case "setup":
		h.setup(w, r, identity)
	case "verify":
		h.verify(w, r, identity, req.Token)
	case "check":
		h.check(w, r, identity)
	case "validate":
		h.validate(w, r, identity, req.Token)
	}
}

func (h *MFAHandler) setup(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	setup, err := h.mfaService.Setup(r.Context(), identity.UserID, identity.Email)
	if err != nil {
		if errors.Is(err, models.ErrMFAAlreadyActive) {
			pkghttp.WriteConflict(w, "MFA is already enabled")
			return
		}
		h.logger.Error("mfa setup failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Setup failed")
		return
	}

	writeJSON(w, http.StatusOK, MFASetupResponse{
		Secret:    setup.Secret,
		QRCodeURL: setup.OtpauthURL,
		QRCodePNG: setup.QRCodePNG,
	})
}

func (h *MFAHandler) verify(w http.ResponseWriter, r *http.Request, identity *models.Identity, token string) {
	valid, err := h.mfaService.Verify(r.Context(), identity.UserID, token)
	if err != nil {
		if errors.Is(err, models.ErrMFANotConfigured) {
			pkghttp.WriteBadRequest(w, "MFA not set up")
			return
		}
		h.logger.Error("mfa verify failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Verification failed")
		return
	}

	h.audit.LogMFAEvent("mfa_verify", identity.UserID, valid)
	writeJSON(w, http.StatusOK, MFAValidResponse{Valid: valid})
}

func (h *MFAHandler) check(w http.ResponseWriter, r *http.Request, identity *models.Identity) {
	enabled, err := h.mfaService.Check(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("mfa check failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Check failed")
		return
	}

	writeJSON(w, http.StatusOK, MFAEnabledResponse{Enabled: enabled})
}

func (h *MFAHandler) validate(w http.ResponseWriter, r *http.Request, identity *models.Identity, token string) {
	valid, err := h.mfaService.Validate(r.Context(), identity.UserID, token)
	if err != nil {
		h.logger.Error("mfa validate failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Validation failed")
		return
	}

	h.audit.LogMFAEvent("mfa_validate", identity.UserID, valid)
	writeJSON(w, http.StatusOK, MFAValidResponse{Valid: valid})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	pkghttp.WriteJSON(w, status, body)
}
