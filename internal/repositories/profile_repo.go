package repositories

import (
	"context"

	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/database"
	"github.com/SUGALIRAHUL/adapti-finance-pal/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository reads the finance app's owner-keyed profile rows. The
// table belongs to the frontend's schema; this service never writes it.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.Profile, error)
}

type profileRepoImpl struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepoImpl{pool: db.Pool}
}

func (r *profileRepoImpl) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, full_name, knowledge_level, created_at, updated_at
		FROM profiles
		WHERE user_id = $1
	`

	var profile models.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.UserID, &profile.FullName, &profile.KnowledgeLevel,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &profile, nil
}
