package models

import (
	"errors"
	"fmt"
)

var (
	ErrSelfRelationship     = errors.New("cannot create relationship with yourself")
	ErrInvalidTarget        = errors.New("invalid target user id")
	ErrRelationshipExists   = errors.New("relationship already exists")
	ErrRelationshipNotFound = errors.New("relationship not found")
	ErrForbidden            = errors.New("no permission for this relationship")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrInvalidStatus        = errors.New("invalid relationship status")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
)

const (
	LimitSideSource = "SOURCE"
	LimitSideTarget = "TARGET"
)

// RelationshipLimitError reports which participant of an accept is at the
// accepted-relationship cap and what their count was at check time.
type RelationshipLimitError struct {
	Who   string
	Count int
}

func (e *RelationshipLimitError) Error() string {
	return fmt.Sprintf("relationship limit exceeded for %s (count %d)", e.Who, e.Count)
}
