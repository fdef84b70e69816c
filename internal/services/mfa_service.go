package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/auth"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/repositories"
)

// totpWindow is the accepted clock-skew tolerance in time steps.
const totpWindow = 1

// MFAService drives the enrollment state machine. Setup stores a pending
// secret, the first verified code activates it, and there is no
// transition out of active.
type MFAService struct {
	secretRepo repositories.MFASecretRepository
	cipher     *auth.SecretCipher
	totp       *auth.TOTPEngine
	logger     *slog.Logger
}

// NewMFAService creates a new MFA service
func NewMFAService(
	secretRepo repositories.MFASecretRepository,
	cipher *auth.SecretCipher,
	totp *auth.TOTPEngine,
	logger *slog.Logger,
) *MFAService {
	return &MFAService{
		secretRepo: secretRepo,
		cipher:     cipher,
		totp:       totp,
		logger:     logger,
	}
}

// Setup generates a fresh secret, stores it encrypted with enabled=false,
// and returns the plaintext seed and provisioning material exactly once.
// Re-running setup replaces an unfinished enrollment; once enrollment is
// active the secret is immutable and setup is rejected.
func (s *MFAService) Setup(ctx context.Context, userID, email string) (*models.MFASetup, error) {
	existing, err := s.secretRepo.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to load mfa secret", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if existing.State() == models.MFAStateActive {
		return nil, models.ErrMFAAlreadyActive
	}

	secret, err := s.totp.GenerateSecret()
	if err != nil {
		s.logger.Error("failed to generate totp secret", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	encrypted, err := s.cipher.Encrypt(secret)
	if err != nil {
		s.logger.Error("failed to encrypt totp secret", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if _, err := s.secretRepo.Upsert(ctx, userID, encrypted); err != nil {
		s.logger.Error("failed to store mfa secret", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	uri := s.totp.ProvisioningURI(secret, email)

	qr, err := s.totp.QRCodePNG(uri)
	if err != nil {
		s.logger.Error("failed to render qr code", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("mfa setup initiated", slog.String("user_id", userID))

	return &models.MFASetup{
		Secret:     secret,
		OtpauthURL: uri,
		QRCodePNG:  qr,
	}, nil
}

// Verify checks the submitted code against the stored pending secret and
// activates enrollment on a match. Returns ErrMFANotConfigured when no
// record exists.
func (s *MFAService) Verify(ctx context.Context, userID, token string) (bool, error) {
	record, err := s.secretRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, models.ErrMFANotConfigured
		}
		s.logger.Error("failed to load mfa secret", slog.String("user_id", userID), slog.Any("error", err))
		return false, models.ErrInternalServer
	}

	secret, err := s.cipher.Decrypt(record.Secret)
	if err != nil {
		// Misconfiguration or corruption. Answer false outward; detail
		// stays server-side.
		s.logger.Error("failed to decrypt mfa secret", slog.String("user_id", userID), slog.Any("error", err))
		return false, models.ErrDecryptionFailed
	}

	if !s.totp.Validate(secret, token, time.Now(), totpWindow) {
		return false, nil
	}

	if err := s.secretRepo.Enable(ctx, userID); err != nil {
		s.logger.Error("failed to enable mfa", slog.String("user_id", userID), slog.Any("error", err))
		return false, models.ErrInternalServer
	}

	s.logger.Info("mfa enrollment activated", slog.String("user_id", userID))
	return true, nil
}

// Check reports whether MFA is enabled for the user. No record means
// "not configured", not an error.
func (s *MFAService) Check(ctx context.Context, userID string) (bool, error) {
	record, err := s.secretRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return false, nil
		}
		s.logger.Error("failed to load mfa secret", slog.String("user_id", userID), slog.Any("error", err))
		return false, models.ErrInternalServer
	}

	return record.State() == models.MFAStateActive, nil
}

// Validate is the read-only gate for privileged operations. Callers
// without MFA enabled pass trivially; enabled callers must present a
// matching code. No state changes on either outcome, and decrypt failures
// fail closed.
func (s *MFAService) Validate(ctx context.Context, userID, token string) (bool, error) {
	record, err := s.secretRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return true, nil
		}
		s.logger.Error("failed to load mfa secret", slog.String("user_id", userID), slog.Any("error", err))
		return false, models.ErrInternalServer
	}

	if record.State() != models.MFAStateActive {
		return true, nil
	}

	secret, err := s.cipher.Decrypt(record.Secret)
	if err != nil {
		s.logger.Error("failed to decrypt mfa secret", slog.String("user_id", userID), slog.Any("error", err))
		return false, nil
	}

	return s.totp.Validate(secret, token, time.Now(), totpWindow), nil
}
