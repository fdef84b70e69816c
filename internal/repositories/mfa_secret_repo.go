package repositories

import (
	"context"
	"fmt"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/database"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// rowScanner abstracts pgx.Row / pgx.Rows for shared scan helpers
type rowScanner interface {
	Scan(dest ...any) error
}

// MFASecretRepository defines MFA enrollment persistence operations
type MFASecretRepository interface {
	Upsert(ctx context.Context, userID, encryptedSecret string) (*models.MFASecret, error)
	GetByUserID(ctx context.Context, userID string) (*models.MFASecret, error)
	Enable(ctx context.Context, userID string) error
}

type mfaSecretRepoImpl struct {
	pool *pgxpool.Pool
}

// NewMFASecretRepository creates a new MFA secret repository
func NewMFASecretRepository(db *database.DB) MFASecretRepository {
	return &mfaSecretRepoImpl{pool: db.Pool}
}

func scanSecretRow(row rowScanner) (*models.MFASecret, error) {
	var secret models.MFASecret

	err := row.Scan(
		&secret.UserID, &secret.Secret, &secret.Enabled,
		&secret.CreatedAt, &secret.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &secret, nil
}

// Upsert stores a freshly encrypted secret for the user with enabled reset
// to false, replacing any unfinished enrollment.
func (r *mfaSecretRepoImpl) Upsert(ctx context.Context, userID, encryptedSecret string) (*models.MFASecret, error) {
	query := `
		INSERT INTO mfa_secrets (user_id, secret, enabled)
		VALUES ($1, $2, FALSE)
		ON CONFLICT (user_id) DO UPDATE
		SET secret = EXCLUDED.secret, enabled = FALSE, updated_at = NOW()
		RETURNING user_id, secret, enabled, created_at, updated_at
	`

	secret, err := scanSecretRow(r.pool.QueryRow(ctx, query, userID, encryptedSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert mfa secret: %w", err)
	}

	return secret, nil
}

// GetByUserID retrieves the user's enrollment record
func (r *mfaSecretRepoImpl) GetByUserID(ctx context.Context, userID string) (*models.MFASecret, error) {
	query := `
		SELECT user_id, secret, enabled, created_at, updated_at
		FROM mfa_secrets
		WHERE user_id = $1
	`

	secret, err := scanSecretRow(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		return nil, err
	}

	return secret, nil
}

// Enable flips the record to active after a successful verification
func (r *mfaSecretRepoImpl) Enable(ctx context.Context, userID string) error {
	query := `
		UPDATE mfa_secrets
		SET enabled = TRUE, updated_at = NOW()
		WHERE user_id = $1
	`

	result, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to enable mfa: %w", err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
