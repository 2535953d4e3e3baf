package services

import (
	"context"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/repositories"
)

// DefaultMaxRelationships caps the number of accepted relationships a single
// user may hold. Pending requests are not counted against it.
const DefaultMaxRelationships = 50

type RelationshipService struct {
	repo             repositories.RelationshipRepository
	maxRelationships int
}

func NewRelationshipService(repo repositories.RelationshipRepository, maxRelationships int) *RelationshipService {
	if maxRelationships <= 0 {
		maxRelationships = DefaultMaxRelationships
	}
	return &RelationshipService{repo: repo, maxRelationships: maxRelationships}
}

// Create opens a pending relationship from initiatorID towards targetID.
// The pair is canonicalized before any store access so both argument orders
// resolve to the same row. The duplicate pre-check keeps the common path
// cheap; the unique index remains the source of truth under races.
func (s *RelationshipService) Create(ctx context.Context, initiatorID, targetID string) (*models.Relationship, error) {
	if initiatorID == targetID {
		return nil, models.ErrSelfRelationship
	}
	if !models.ValidUserID(targetID) {
		return nil, models.ErrInvalidTarget
	}

	low, high, err := models.CanonicalPair(initiatorID, targetID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindExisting(ctx, low, high)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.ErrRelationshipExists
	}

	return s.repo.Create(ctx, low, high, initiatorID)
}

// UpdateStatus applies one transition of the status machine:
// pending -> accepted, pending -> blocked, accepted -> blocked.
// Nothing leaves blocked and nothing re-enters pending; accepting also
// runs the accepted-count limit check for both participants.
func (s *RelationshipService) UpdateStatus(ctx context.Context, callerID, relationshipID, newStatus string) (*models.Relationship, error) {
	if newStatus == models.StatusPending {
		return nil, models.ErrInvalidTransition
	}
	if !models.ValidStatus(newStatus) {
		return nil, models.ErrInvalidStatus
	}

	rel, err := s.repo.GetByID(ctx, relationshipID)
	if err != nil {
		return nil, err
	}

	if !rel.Involves(callerID) {
		return nil, models.ErrForbidden
	}

	if rel.Status == models.StatusBlocked {
		return nil, models.ErrInvalidTransition
	}

	if newStatus == models.StatusAccepted {
		if rel.Status != models.StatusPending {
			return nil, models.ErrInvalidTransition
		}
		if err := s.checkRelationshipLimit(ctx, rel.LowUserID, rel.HighUserID, models.StatusAccepted); err != nil {
			return nil, err
		}
	}

	return s.repo.UpdateStatus(ctx, rel, newStatus)
}

// Delete removes the relationship entirely. Valid from any status; this is
// the only way out of blocked or accepted.
func (s *RelationshipService) Delete(ctx context.Context, callerID, relationshipID string) error {
	rel, err := s.repo.GetByID(ctx, relationshipID)
	if err != nil {
		return err
	}

	if !rel.Involves(callerID) {
		return models.ErrForbidden
	}

	return s.repo.DeleteByID(ctx, rel.ID)
}

func (s *RelationshipService) GetByStatus(ctx context.Context, userID, status string) ([]models.RelationshipView, error) {
	if !models.ValidStatus(status) {
		return nil, models.ErrInvalidStatus
	}
	return s.repo.ListByStatusWithUserInfo(ctx, userID, status)
}

func (s *RelationshipService) GetFriends(ctx context.Context, userID string) ([]models.FriendView, error) {
	return s.repo.ListAcceptedFriendsWithInfo(ctx, userID)
}

// GetFriendIDs is the projection the post feed consumes: the ids of every
// user holding an accepted relationship with userID.
func (s *RelationshipService) GetFriendIDs(ctx context.Context, userID string) ([]string, error) {
	return s.repo.ListAcceptedFriendIDs(ctx, userID)
}

// checkRelationshipLimit rejects a transition that would push either
// participant past the accepted cap. Both counts come from one store query
// so they represent a single point-in-time read. Two truly concurrent
// accepts on different pending rows can still both pass with stale counts;
// the cap is a soft limit and may be exceeded by that small margin.
func (s *RelationshipService) checkRelationshipLimit(ctx context.Context, userID1, userID2, status string) error {
	count1, count2, err := s.repo.CountForBothUsers(ctx, userID1, userID2, status)
	if err != nil {
		return err
	}

	if count1 >= s.maxRelationships {
		return &models.RelationshipLimitError{Who: models.LimitSideSource, Count: count1}
	}
	if count2 >= s.maxRelationships {
		return &models.RelationshipLimitError{Who: models.LimitSideTarget, Count: count2}
	}
	return nil
}
