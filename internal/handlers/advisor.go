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
)

// AdvisorHandler handles the MFA-gated advisor endpoints. The gating
// middleware runs before these, so reaching a handler means the caller
// either has MFA disabled or presented a valid code.
type AdvisorHandler struct {
	advisorService *services.AdvisorService
	logger         *slog.Logger
}

// NewAdvisorHandler creates a new advisor handler
func NewAdvisorHandler(advisorService *services.AdvisorService, logger *slog.Logger) *AdvisorHandler {
	return &AdvisorHandler{
		advisorService: advisorService,
		logger:         logger,
	}
}

// Chat handles POST /api/advisor/chat
func (h *AdvisorHandler) Chat(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentityFromContext(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request")
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	reply, err := h.advisorService.Chat(r.Context(), identity.UserID, req.Message)
	if err != nil {
		if errors.Is(err, models.ErrBadRequest) {
			pkghttp.WriteBadRequest(w, "Message is required")
			return
		}
		h.logger.Error("advisor chat failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Advisor unavailable")
		return
	}

	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply})
}

// Recommendations handles POST /api/advisor/recommendations
func (h *AdvisorHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	identity := auth.GetIdentityFromContext(r)
	if identity == nil {
		pkghttp.WriteUnauthorized(w, "Unauthorized")
		return
	}

	recs, err := h.advisorService.Recommendations(r.Context(), identity.UserID)
	if err != nil {
		h.logger.Error("advisor recommendations failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
		pkghttp.WriteInternalError(w, "Advisor unavailable")
		return
	}

	writeJSON(w, http.StatusOK, RecommendationsResponse{Recommendations: recs})
}
