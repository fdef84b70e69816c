package repositories

import (
	"context"
	"fmt"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/database"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OTPChallengeRepository defines email OTP challenge persistence operations
type OTPChallengeRepository interface {
	// Replace deletes any prior challenge for the (email, purpose) pair and
	// inserts the new one, keeping at most one active challenge per pair.
	Replace(ctx context.Context, challenge *models.EmailOTPChallenge) error
	// Consume atomically removes the matching unexpired challenge. It
	// returns false when nothing matched: wrong code, expired, superseded,
	// or already consumed by a concurrent verify.
	Consume(ctx context.Context, email, code string, purpose models.OTPPurpose) (bool, error)
	GetActive(ctx context.Context, email string, purpose models.OTPPurpose) (*models.EmailOTPChallenge, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type otpChallengeRepoImpl struct {
	db   *database.DB
	pool *pgxpool.Pool
}

// NewOTPChallengeRepository creates a new OTP challenge repository
func NewOTPChallengeRepository(db *database.DB) OTPChallengeRepository {
	return &otpChallengeRepoImpl{db: db, pool: db.Pool}
}

// Replace supersedes any outstanding challenge for the pair in one
// transaction, so a concurrent verify cannot observe two active rows.
func (r *otpChallengeRepoImpl) Replace(ctx context.Context, challenge *models.EmailOTPChallenge) error {
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		deleteQuery := `
			DELETE FROM email_otp_challenges
			WHERE email = $1 AND purpose = $2
		`
		if _, err := tx.Exec(ctx, deleteQuery, challenge.Email, challenge.Purpose); err != nil {
			return fmt.Errorf("failed to delete prior challenges: %w", err)
		}

		insertQuery := `
			INSERT INTO email_otp_challenges (id, email, code, purpose, expires_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING created_at
		`
		if err := tx.QueryRow(ctx, insertQuery,
			challenge.ID,
			challenge.Email,
			challenge.Code,
			challenge.Purpose,
			challenge.ExpiresAt,
		).Scan(&challenge.CreatedAt); err != nil {
			return fmt.Errorf("failed to insert challenge: %w", err)
		}

		return nil
	})
	if err != nil {
		return database.MapPostgresError(err)
	}

	return nil
}

// Consume is the single-use verification step. The conditional delete means
// a double-submit races to one winner; the loser sees zero rows.
func (r *otpChallengeRepoImpl) Consume(ctx context.Context, email, code string, purpose models.OTPPurpose) (bool, error) {
	query := `
		DELETE FROM email_otp_challenges
		WHERE email = $1 AND code = $2 AND purpose = $3
		  AND verified = FALSE AND expires_at > NOW()
	`

	result, err := r.pool.Exec(ctx, query, email, code, purpose)
	if err != nil {
		return false, fmt.Errorf("failed to consume challenge: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// GetActive returns the current unexpired, unverified challenge for the pair
func (r *otpChallengeRepoImpl) GetActive(ctx context.Context, email string, purpose models.OTPPurpose) (*models.EmailOTPChallenge, error) {
	query := `
		SELECT id, email, code, purpose, expires_at, verified, created_at
		FROM email_otp_challenges
		WHERE email = $1 AND purpose = $2 AND verified = FALSE AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	var challenge models.EmailOTPChallenge
	err := r.pool.QueryRow(ctx, query, email, purpose).Scan(
		&challenge.ID, &challenge.Email, &challenge.Code, &challenge.Purpose,
		&challenge.ExpiresAt, &challenge.Verified, &challenge.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &challenge, nil
}

// DeleteExpired garbage-collects challenges past their expiry
func (r *otpChallengeRepoImpl) DeleteExpired(ctx context.Context) (int64, error) {
	query := `
		DELETE FROM email_otp_challenges
		WHERE expires_at < NOW()
	`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired challenges: %w", err)
	}

	return result.RowsAffected(), nil
}
