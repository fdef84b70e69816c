package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
)

// contextKey is a custom type for context keys
type contextKey string

const (
	// IdentityContextKey is the key for storing the resolved caller identity
	IdentityContextKey contextKey = "identity"
)

// MFATokenHeader carries the TOTP code on MFA-gated requests.
const MFATokenHeader = "X-MFA-Token"

// MFAGate is the read-only gating view of the enrollment state machine.
type MFAGate interface {
	Check(ctx context.Context, userID string) (bool, error)
	Validate(ctx context.Context, userID, token string) (bool, error)
}

// RequireAuth validates the bearer token and injects the caller identity
// into the request context.
func RequireAuth(tm *TokenManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := tm.ValidateToken(parts[1])
			if err != nil || claims.UserID == "" {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			identity := &models.Identity{UserID: claims.UserID, Email: claims.Email}
			ctx := context.WithValue(r.Context(), IdentityContextKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentityFromContext returns the caller identity set by RequireAuth,
// or nil when the request is unauthenticated.
func GetIdentityFromContext(r *http.Request) *models.Identity {
	identity, ok := r.Context().Value(IdentityContextKey).(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}

// RequireMFA guards privileged actions. When the caller has MFA enabled it
// demands a valid code in the X-MFA-Token header; callers without MFA pass
// through. Gate errors fail closed. Must run after RequireAuth.
func RequireMFA(gate MFAGate, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentityFromContext(r)
			if identity == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			enabled, err := gate.Check(r.Context(), identity.UserID)
			if err != nil {
				logger.Error("mfa check failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
				http.Error(w, "unable to verify mfa status", http.StatusInternalServerError)
				return
			}

			if enabled {
				token := r.Header.Get(MFATokenHeader)
				if token == "" {
					http.Error(w, "mfa token required", http.StatusForbidden)
					return
				}

				valid, err := gate.Validate(r.Context(), identity.UserID, token)
				if err != nil {
					logger.Error("mfa validation failed", slog.String("user_id", identity.UserID), slog.Any("error", err))
					http.Error(w, "unable to verify mfa token", http.StatusInternalServerError)
					return
				}
				if !valid {
					http.Error(w, "invalid mfa token", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
