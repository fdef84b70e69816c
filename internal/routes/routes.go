package routes

import (
	"log/slog"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/handlers"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	mfaHandler *handlers.MFAHandler,
	otpHandler *handlers.OTPHandler,
	authHandler *handlers.AuthHandler,
	advisorHandler *handlers.AdvisorHandler,
	tokenManager *auth.TokenManager,
	mfaGate auth.MFAGate,
	logger *slog.Logger,
) {
	// Rate limiting config for the unauthenticated auth/OTP surface
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimitConfig))

		r.Post("/otp/send", otpHandler.Send)
		r.Post("/otp/verify", otpHandler.Verify)

		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/login/complete", authHandler.CompleteLogin)
		r.Post("/auth/signup/start", authHandler.StartSignup)
		r.Post("/auth/signup/complete", authHandler.CompleteSignup)
	})

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokenManager))

		r.Post("/mfa", mfaHandler.Handle)

		// Privileged actions additionally pass the MFA gate
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireMFA(mfaGate, logger))
			r.Post("/advisor/chat", advisorHandler.Chat)
			r.Post("/advisor/recommendations", advisorHandler.Recommendations)
		})
	})
}
