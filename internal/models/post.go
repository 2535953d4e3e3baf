package models

import "time"

const (
	VisibilityFriendOnly = "friend-only"
	VisibilityAll        = "all"
)

type Post struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	Caption    string    `db:"caption" json:"caption"`
	Visibility string    `db:"visibility" json:"visibility"`
	IsDeleted  bool      `db:"is_deleted" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FeedPost is a post joined with the author's public profile fields.
type FeedPost struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Username   string    `db:"username" json:"username"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	AvatarURL  string    `db:"avatar_url" json:"avatar_url"`
	ImageURL   string    `db:"image_url" json:"image_url"`
	Caption    string    `db:"caption" json:"caption"`
	Visibility string    `db:"visibility" json:"visibility"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	IsOwnPost  bool      `db:"-" json:"is_own_post"`
}
