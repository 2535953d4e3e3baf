package models

import "time"

const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusBlocked  = "blocked"
)

// ValidStatus reports whether s is one of the persisted relationship statuses.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusAccepted || s == StatusBlocked
}

// Relationship is the single stored row for an unordered user pair.
// LowUserID sorts strictly before HighUserID; the pair is unique.
type Relationship struct {
	ID         string    `db:"id" json:"id"`
	LowUserID  string    `db:"low_user_id" json:"low_user_id"`
	HighUserID string    `db:"high_user_id" json:"high_user_id"`
	Status     string    `db:"status" json:"status"`
	Initiator  string    `db:"initiator" json:"initiator"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Involves reports whether userID is one of the two participants.
func (r *Relationship) Involves(userID string) bool {
	return r.LowUserID == userID || r.HighUserID == userID
}

// OtherUser returns the participant that is not userID.
func (r *Relationship) OtherUser(userID string) string {
	if r.LowUserID == userID {
		return r.HighUserID
	}
	return r.LowUserID
}

// RelationshipView is a relationship row joined with the other
// participant's public profile fields.
type RelationshipView struct {
	RelationshipID string    `db:"relationship_id" json:"relationship_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Username       string    `db:"username" json:"username"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	AvatarURL      string    `db:"avatar_url" json:"avatar_url"`
	Status         string    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// FriendView is the accepted-only projection consumed by the feed.
type FriendView struct {
	RelationshipID string    `db:"relationship_id" json:"relationship_id"`
	UserID         string    `db:"user_id" json:"user_id"`
	Username       string    `db:"username" json:"username"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	AvatarURL      string    `db:"avatar_url" json:"avatar_url"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
