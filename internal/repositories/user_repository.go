package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
)

type CreateUserParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
}

type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetPublicByID(ctx context.Context, id string) (*models.PublicProfile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	SetAvatarURL(ctx context.Context, id string, avatarURL string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	var user models.User
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO users (id, email, username, first_name, last_name, password_hash)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, email, username, first_name, last_name, avatar_url, password_hash, created_at, updated_at
`, uuid.NewString(), strings.ToLower(params.Email), strings.ToLower(params.Username),
		params.FirstName, params.LastName, params.PasswordHash).StructScan(&user)
	if err != nil {
		return nil, translateUserError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
SELECT id, email, username, first_name, last_name, avatar_url, password_hash, created_at, updated_at
FROM users WHERE id=$1
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
SELECT id, email, username, first_name, last_name, avatar_url, password_hash, created_at, updated_at
FROM users WHERE email=$1
`, strings.ToLower(email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetPublicByID(ctx context.Context, id string) (*models.PublicProfile, error) {
	var profile models.PublicProfile
	err := r.db.GetContext(ctx, &profile, `
SELECT id, username, first_name, last_name, avatar_url
FROM users WHERE id=$1
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(SELECT 1 FROM users WHERE email=$1)
`, strings.ToLower(email))
	return exists, err
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
SELECT EXISTS(SELECT 1 FROM users WHERE username=$1)
`, strings.ToLower(username))
	return exists, err
}

func (r *userRepository) SetAvatarURL(ctx context.Context, id string, avatarURL string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET avatar_url=$2, updated_at=NOW() WHERE id=$1`, id, avatarURL)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func translateUserError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		if strings.Contains(pqErr.Constraint, "username") {
			return models.ErrUsernameTaken
		}
		return models.ErrEmailTaken
	}
	return err
}
