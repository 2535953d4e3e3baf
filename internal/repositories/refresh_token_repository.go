package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
)

type RefreshTokenRepository interface {
	Upsert(ctx context.Context, userID, deviceID, hashedToken string, expiresAt time.Time) error
	FindByUserAndDevice(ctx context.Context, userID, deviceID string) (*models.RefreshToken, error)
	DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) error
}

type refreshTokenRepository struct {
	db *sqlx.DB
}

func NewRefreshTokenRepository(db *sqlx.DB) RefreshTokenRepository {
	return &refreshTokenRepository{db: db}
}

// Upsert replaces the stored token for the (user, device) pair so each device
// holds at most one active refresh token.
func (r *refreshTokenRepository) Upsert(ctx context.Context, userID, deviceID, hashedToken string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO refresh_tokens (id, user_id, device_id, hashed_token, expires_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (user_id, device_id)
DO UPDATE SET hashed_token=EXCLUDED.hashed_token, expires_at=EXCLUDED.expires_at, created_at=NOW()
`, uuid.NewString(), userID, deviceID, hashedToken, expiresAt)
	return err
}

func (r *refreshTokenRepository) FindByUserAndDevice(ctx context.Context, userID, deviceID string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.GetContext(ctx, &token, `
SELECT id, user_id, device_id, hashed_token, expires_at, created_at
FROM refresh_tokens
WHERE user_id=$1 AND device_id=$2 AND expires_at > NOW()
`, userID, deviceID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *refreshTokenRepository) DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) error {
	_, err := r.db.ExecContext(ctx, `
DELETE FROM refresh_tokens WHERE user_id=$1 AND device_id=$2
`, userID, deviceID)
	return err
}
