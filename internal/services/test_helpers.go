package services

import (
	"context"
	"time"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/identity"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
)

// MockMFASecretRepository implements MFASecretRepository for testing
type MockMFASecretRepository struct {
	UpsertFunc      func(ctx context.Context, userID, encryptedSecret string) (*models.MFASecret, error)
	GetByUserIDFunc func(ctx context.Context, userID string) (*models.MFASecret, error)
	EnableFunc      func(ctx context.Context, userID string) error
}

func (m *MockMFASecretRepository) Upsert(ctx context.Context, userID, encryptedSecret string) (*models.MFASecret, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, userID, encryptedSecret)
	}
	return nil, models.ErrInternalServer
}

func (m *MockMFASecretRepository) GetByUserID(ctx context.Context, userID string) (*models.MFASecret, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

func (m *MockMFASecretRepository) Enable(ctx context.Context, userID string) error {
	if m.EnableFunc != nil {
		return m.EnableFunc(ctx, userID)
	}
	return nil
}

// MockOTPChallengeRepository implements OTPChallengeRepository for testing
type MockOTPChallengeRepository struct {
	ReplaceFunc       func(ctx context.Context, challenge *models.EmailOTPChallenge) error
	ConsumeFunc       func(ctx context.Context, email, code string, purpose models.OTPPurpose) (bool, error)
	GetActiveFunc     func(ctx context.Context, email string, purpose models.OTPPurpose) (*models.EmailOTPChallenge, error)
	DeleteExpiredFunc func(ctx context.Context) (int64, error)
}

func (m *MockOTPChallengeRepository) Replace(ctx context.Context, challenge *models.EmailOTPChallenge) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, challenge)
	}
	return nil
}

func (m *MockOTPChallengeRepository) Consume(ctx context.Context, email, code string, purpose models.OTPPurpose) (bool, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, email, code, purpose)
	}
	return false, nil
}

func (m *MockOTPChallengeRepository) GetActive(ctx context.Context, email string, purpose models.OTPPurpose) (*models.EmailOTPChallenge, error) {
	if m.GetActiveFunc != nil {
		return m.GetActiveFunc(ctx, email, purpose)
	}
	return nil, models.ErrNotFound
}

func (m *MockOTPChallengeRepository) DeleteExpired(ctx context.Context) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx)
	}
	return 0, nil
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendOTPEmailFunc func(ctx context.Context, email, code string, purpose models.OTPPurpose, expiresAt time.Time) error
}

func (m *MockEmailSender) SendOTPEmail(ctx context.Context, email, code string, purpose models.OTPPurpose, expiresAt time.Time) error {
	if m.SendOTPEmailFunc != nil {
		return m.SendOTPEmailFunc(ctx, email, code, purpose, expiresAt)
	}
	return nil
}

// MockProfileRepository implements ProfileRepository for testing
type MockProfileRepository struct {
	GetByUserIDFunc func(ctx context.Context, userID string) (*models.Profile, error)
}

func (m *MockProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	return nil, models.ErrNotFound
}

// MockProvider implements identity.Provider for testing
type MockProvider struct {
	PasswordGrantFunc func(ctx context.Context, email, password string) (*models.Session, error)
	RevokeSessionFunc func(ctx context.Context, accessToken string) error
	CreateAccountFunc func(ctx context.Context, account identity.NewAccount) (string, error)
}

func (m *MockProvider) PasswordGrant(ctx context.Context, email, password string) (*models.Session, error) {
	if m.PasswordGrantFunc != nil {
		return m.PasswordGrantFunc(ctx, email, password)
	}
	return nil, models.ErrInvalidCredentials
}

func (m *MockProvider) RevokeSession(ctx context.Context, accessToken string) error {
	if m.RevokeSessionFunc != nil {
		return m.RevokeSessionFunc(ctx, accessToken)
	}
	return nil
}

func (m *MockProvider) CreateAccount(ctx context.Context, account identity.NewAccount) (string, error) {
	if m.CreateAccountFunc != nil {
		return m.CreateAccountFunc(ctx, account)
	}
	return "", models.ErrInternalServer
}

// MockCompletionClient implements CompletionClient for testing
type MockCompletionClient struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *MockCompletionClient) Complete(ctx context.Context, prompt string) (string, error) {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "", models.ErrInternalServer
}
