package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
)

type CreatePostParams struct {
	UserID     string
	ImageURL   string
	Caption    string
	Visibility string
}

type PostRepository interface {
	Create(ctx context.Context, params CreatePostParams) (*models.Post, error)
	ListFeedWithUserInfo(ctx context.Context, userIDs []string, limit, offset int) ([]models.FeedPost, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, params CreatePostParams) (*models.Post, error) {
	var post models.Post
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO posts (id, user_id, image_url, caption, visibility)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, user_id, image_url, caption, visibility, is_deleted, created_at, updated_at
`, uuid.NewString(), params.UserID, params.ImageURL, params.Caption, params.Visibility).StructScan(&post)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListFeedWithUserInfo returns the newest posts authored by any of userIDs,
// joined with the author's public profile. Soft-deleted posts are excluded.
func (r *postRepository) ListFeedWithUserInfo(ctx context.Context, userIDs []string, limit, offset int) ([]models.FeedPost, error) {
	posts := []models.FeedPost{}
	if len(userIDs) == 0 {
		return posts, nil
	}
	err := r.db.SelectContext(ctx, &posts, `
SELECT p.id, p.user_id,
	u.username, u.first_name, u.last_name, u.avatar_url,
	p.image_url, p.caption, p.visibility, p.created_at
FROM posts p
JOIN users u ON u.id = p.user_id
WHERE p.user_id = ANY($1) AND p.is_deleted = FALSE
ORDER BY p.created_at DESC
LIMIT $2 OFFSET $3
`, pq.Array(userIDs), limit, offset)
	return posts, err
}
