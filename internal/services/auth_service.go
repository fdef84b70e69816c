package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/identity"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/pkg/logger"
)

// AuthService sequences the multi-step login and signup flows around the
// external identity provider and the email OTP service. It never stores
// credentials or sessions itself.
type AuthService struct {
	provider   identity.Provider
	otpService *OTPService
	logger     *slog.Logger
	audit      *logger.AuditLogger
}

func NewAuthService(provider identity.Provider, otpService *OTPService, log *slog.Logger) *AuthService {
	return &AuthService{
		provider:   provider,
		otpService: otpService,
		logger:     log,
		audit:      logger.NewAuditLogger(log),
	}
}

// BeginLogin verifies the credentials against the identity provider, then
// immediately discards the interim session and sends a login OTP. No usable
// session exists until CompleteLogin passes the second factor.
func (s *AuthService) BeginLogin(ctx context.Context, email, password string) error {
	email = NormalizeEmail(email)

	session, err := s.provider.PasswordGrant(ctx, email, password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			s.audit.LogAuthAttempt(logger.AuditEvent{
				EventType:     "login_precheck",
				Email:         email,
				Success:       false,
				FailureReason: "invalid_credentials",
			})
			return models.ErrInvalidCredentials
		}
		return fmt.Errorf("login pre-check: %w", err)
	}

	// The pre-check session must not leak to the caller. Revocation failure
	// is logged but does not abort the flow; the token is never returned.
	if err := s.provider.RevokeSession(ctx, session.AccessToken); err != nil {
		s.logger.Warn("failed to revoke interim session",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.Any("error", err))
	}

	if err := s.otpService.Issue(ctx, email, models.OTPPurposeLogin); err != nil {
		return fmt.Errorf("issue login otp: %w", err)
	}

	s.logger.Info("login challenge issued",
		slog.String("email", logger.SanitizedEmail(email)))
	return nil
}

// CompleteLogin consumes the login OTP and, only then, re-runs the password
// grant to obtain the session actually handed to the caller.
func (s *AuthService) CompleteLogin(ctx context.Context, email, password, code string) (*models.Session, error) {
	email = NormalizeEmail(email)

	ok, err := s.otpService.Verify(ctx, email, code, models.OTPPurposeLogin)
	if err != nil {
		return nil, fmt.Errorf("verify login otp: %w", err)
	}
	if !ok {
		s.audit.LogAuthAttempt(logger.AuditEvent{
			EventType:     "login_complete",
			Email:         email,
			Success:       false,
			FailureReason: "otp_mismatch",
		})
		return nil, models.ErrOTPInvalid
	}

	session, err := s.provider.PasswordGrant(ctx, email, password)
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("acquire session: %w", err)
	}

	s.audit.LogAuthAttempt(logger.AuditEvent{
		EventType: "login_complete",
		Email:     email,
		Success:   true,
	})
	return session, nil
}

// BeginSignup sends a signup OTP to the address. It does not reveal whether
// an account already exists; conflicts surface at CompleteSignup.
func (s *AuthService) BeginSignup(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	if err := s.otpService.Issue(ctx, email, models.OTPPurposeSignup); err != nil {
		return fmt.Errorf("issue signup otp: %w", err)
	}

	s.logger.Info("signup challenge issued",
		slog.String("email", logger.SanitizedEmail(email)))
	return nil
}

// CompleteSignup consumes the signup OTP and creates the account with the
// identity provider. The returned value is the provider's user ID.
func (s *AuthService) CompleteSignup(ctx context.Context, account identity.NewAccount, code string) (string, error) {
	account.Email = NormalizeEmail(account.Email)

	ok, err := s.otpService.Verify(ctx, account.Email, code, models.OTPPurposeSignup)
	if err != nil {
		return "", fmt.Errorf("verify signup otp: %w", err)
	}
	if !ok {
		return "", models.ErrOTPInvalid
	}

	userID, err := s.provider.CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return "", models.ErrConflict
		}
		return "", fmt.Errorf("create account: %w", err)
	}

	s.audit.LogAuthAttempt(logger.AuditEvent{
		EventType: "signup_complete",
		UserID:    userID,
		Email:     account.Email,
		Success:   true,
	})
	return userID, nil
}
