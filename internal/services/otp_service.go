package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/repositories"
	"github.com/SUGALIRAHUL/adapti-finance-pal/pkg/logger"
	"github.com/google/uuid"
)

// EmailSender delivers OTP codes through the transactional-email
// collaborator.
type EmailSender interface {
	SendOTPEmail(ctx context.Context, email, code string, purpose models.OTPPurpose, expiresAt time.Time) error
}

// OTPService issues and verifies emailed one-time codes for the login and
// signup flows. Codes are uniform over 100000-999999, expire after a fixed
// window, and are consumed on first successful verification.
type OTPService struct {
	challengeRepo repositories.OTPChallengeRepository
	emailSender   EmailSender
	timing        *auth.TimingDelay
	logger        *slog.Logger
	expiry        time.Duration
}

// NewOTPService creates a new OTP service
func NewOTPService(
	challengeRepo repositories.OTPChallengeRepository,
	emailSender EmailSender,
	timing *auth.TimingDelay,
	logger *slog.Logger,
	expiry time.Duration,
) *OTPService {
	return &OTPService{
		challengeRepo: challengeRepo,
		emailSender:   emailSender,
		timing:        timing,
		logger:        logger,
		expiry:        expiry,
	}
}

// generateCode draws uniformly from the full six-digit range, so codes are
// always six digits without zero-padding.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", fmt.Errorf("failed to generate otp code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+100000), nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Issue creates a challenge for (email, purpose), superseding any prior
// one, and emails the code. A send failure surfaces as ErrDeliveryFailed;
// the stale row is harmless since a retried Issue replaces it.
func (s *OTPService) Issue(ctx context.Context, email string, purpose models.OTPPurpose) error {
	email = NormalizeEmail(email)

	code, err := generateCode()
	if err != nil {
		s.logger.Error("failed to generate otp code", slog.Any("error", err))
		return models.ErrInternalServer
	}

	challenge := &models.EmailOTPChallenge{
		ID:        uuid.New().String(),
		Email:     email,
		Code:      code,
		Purpose:   purpose,
		ExpiresAt: time.Now().Add(s.expiry),
	}

	if err := s.challengeRepo.Replace(ctx, challenge); err != nil {
		s.logger.Error("failed to persist otp challenge",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.emailSender.SendOTPEmail(ctx, email, code, purpose, challenge.ExpiresAt); err != nil {
		s.logger.Error("failed to send otp email",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.String("purpose", string(purpose)),
			slog.Any("error", err))
		return models.ErrDeliveryFailed
	}

	s.logger.Info("otp challenge issued",
		slog.String("email", logger.SanitizedEmail(email)),
		slog.String("purpose", string(purpose)))

	return nil
}

// Verify consumes the matching unexpired challenge. It answers plain false
// for wrong code, expired, superseded, or unknown email, with an evened-out
// response time, so callers learn nothing about which case they hit.
func (s *OTPService) Verify(ctx context.Context, email, code string, purpose models.OTPPurpose) (bool, error) {
	email = NormalizeEmail(email)

	matched, err := s.challengeRepo.Consume(ctx, email, code, purpose)
	if err != nil {
		s.logger.Error("failed to consume otp challenge",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.Any("error", err))
		return false, models.ErrInternalServer
	}

	s.timing.Wait(matched)

	if matched {
		s.logger.Info("otp challenge verified",
			slog.String("email", logger.SanitizedEmail(email)),
			slog.String("purpose", string(purpose)))
	}

	return matched, nil
}
