package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/rabbitmq"
)

const uniqueViolation = "23505"

type RelationshipRepository interface {
	FindExisting(ctx context.Context, lowUserID, highUserID string) (*models.Relationship, error)
	Create(ctx context.Context, lowUserID, highUserID, initiator string) (*models.Relationship, error)
	GetByID(ctx context.Context, id string) (*models.Relationship, error)
	UpdateStatus(ctx context.Context, rel *models.Relationship, status string) (*models.Relationship, error)
	DeleteByID(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID, status string) (int, error)
	CountForBothUsers(ctx context.Context, userID1, userID2, status string) (int, int, error)
	ListByStatusWithUserInfo(ctx context.Context, userID, status string) ([]models.RelationshipView, error)
	ListAcceptedFriendsWithInfo(ctx context.Context, userID string) ([]models.FriendView, error)
	ListAcceptedFriendIDs(ctx context.Context, userID string) ([]string, error)
}

type relationshipRepository struct {
	db        *sqlx.DB
	publisher rabbitmq.Publisher
}

func NewRelationshipRepository(db *sqlx.DB, publisher rabbitmq.Publisher) RelationshipRepository {
	return &relationshipRepository{db: db, publisher: publisher}
}

func (r *relationshipRepository) FindExisting(ctx context.Context, lowUserID, highUserID string) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.db.GetContext(ctx, &rel, `
SELECT id, low_user_id, high_user_id, status, initiator, created_at, updated_at
FROM relationships
WHERE low_user_id=$1 AND high_user_id=$2
`, lowUserID, highUserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// Create inserts a pending row for the canonical pair. The unique index on
// (low_user_id, high_user_id) is the source of truth for duplicates: when two
// concurrent creates race for the same pair the loser gets the constraint
// violation here, translated to models.ErrRelationshipExists.
func (r *relationshipRepository) Create(ctx context.Context, lowUserID, highUserID, initiator string) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.db.QueryRowxContext(ctx, `
INSERT INTO relationships (id, low_user_id, high_user_id, status, initiator)
VALUES ($1, $2, $3, 'pending', $4)
RETURNING id, low_user_id, high_user_id, status, initiator, created_at, updated_at
`, uuid.NewString(), lowUserID, highUserID, initiator).StructScan(&rel)
	if err != nil {
		return nil, translateRelationshipError(err)
	}

	r.logPublish(ctx, "relationship.request.created", map[string]any{
		"relationship_id": rel.ID,
		"low_user_id":     rel.LowUserID,
		"high_user_id":    rel.HighUserID,
		"initiator":       rel.Initiator,
		"created_at":      rel.CreatedAt,
	})

	return &rel, nil
}

func (r *relationshipRepository) GetByID(ctx context.Context, id string) (*models.Relationship, error) {
	var rel models.Relationship
	err := r.db.GetContext(ctx, &rel, `
SELECT id, low_user_id, high_user_id, status, initiator, created_at, updated_at
FROM relationships
WHERE id=$1
`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// UpdateStatus writes the new status and refreshes updated_at. Transition
// legality is the caller's responsibility; this is a single-row write and
// needs no transaction.
func (r *relationshipRepository) UpdateStatus(ctx context.Context, rel *models.Relationship, status string) (*models.Relationship, error) {
	var updated models.Relationship
	err := r.db.QueryRowxContext(ctx, `
UPDATE relationships SET status=$1, updated_at=NOW()
WHERE id=$2
RETURNING id, low_user_id, high_user_id, status, initiator, created_at, updated_at
`, status, rel.ID).StructScan(&updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}

	r.logPublish(ctx, "relationship."+status, map[string]any{
		"relationship_id": updated.ID,
		"low_user_id":     updated.LowUserID,
		"high_user_id":    updated.HighUserID,
		"status":          updated.Status,
		"updated_at":      updated.UpdatedAt,
	})

	return &updated, nil
}

func (r *relationshipRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id=$1`, id)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return models.ErrRelationshipNotFound
	}

	r.logPublish(ctx, "relationship.deleted", map[string]any{
		"relationship_id": id,
	})

	return nil
}

func (r *relationshipRepository) CountByUser(ctx context.Context, userID, status string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
SELECT COUNT(*)
FROM relationships
WHERE (low_user_id=$1 OR high_user_id=$1)
AND ($2 = '' OR status=$2)
`, userID, status)
	return count, err
}

// CountForBothUsers returns both participants' counts from a single query so
// the two numbers reflect one point-in-time read of the store.
func (r *relationshipRepository) CountForBothUsers(ctx context.Context, userID1, userID2, status string) (int, int, error) {
	var counts struct {
		Count1 int `db:"count1"`
		Count2 int `db:"count2"`
	}
	err := r.db.GetContext(ctx, &counts, `
SELECT
	COUNT(*) FILTER (WHERE low_user_id=$1 OR high_user_id=$1) AS count1,
	COUNT(*) FILTER (WHERE low_user_id=$2 OR high_user_id=$2) AS count2
FROM relationships
WHERE (low_user_id IN ($1, $2) OR high_user_id IN ($1, $2))
AND ($3 = '' OR status=$3)
`, userID1, userID2, status)
	if err != nil {
		return 0, 0, err
	}
	return counts.Count1, counts.Count2, nil
}

// ListByStatusWithUserInfo joins each matching row with the other
// participant's public profile. The inner join drops rows whose joined user
// no longer exists, matching the read-side skip behavior.
func (r *relationshipRepository) ListByStatusWithUserInfo(ctx context.Context, userID, status string) ([]models.RelationshipView, error) {
	views := []models.RelationshipView{}
	err := r.db.SelectContext(ctx, &views, `
SELECT r.id AS relationship_id,
	u.id AS user_id,
	u.username, u.first_name, u.last_name, u.avatar_url,
	r.status, r.created_at
FROM relationships r
JOIN users u ON u.id = CASE WHEN r.low_user_id=$1 THEN r.high_user_id ELSE r.low_user_id END
WHERE (r.low_user_id=$1 OR r.high_user_id=$1) AND r.status=$2
ORDER BY r.created_at DESC
`, userID, status)
	return views, err
}

func (r *relationshipRepository) ListAcceptedFriendsWithInfo(ctx context.Context, userID string) ([]models.FriendView, error) {
	friends := []models.FriendView{}
	err := r.db.SelectContext(ctx, &friends, `
SELECT r.id AS relationship_id,
	u.id AS user_id,
	u.username, u.first_name, u.last_name, u.avatar_url,
	r.created_at
FROM relationships r
JOIN users u ON u.id = CASE WHEN r.low_user_id=$1 THEN r.high_user_id ELSE r.low_user_id END
WHERE (r.low_user_id=$1 OR r.high_user_id=$1) AND r.status='accepted'
ORDER BY r.created_at DESC
`, userID)
	return friends, err
}

func (r *relationshipRepository) ListAcceptedFriendIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := r.db.SelectContext(ctx, &ids, `
SELECT CASE WHEN low_user_id=$1 THEN high_user_id ELSE low_user_id END
FROM relationships
WHERE (low_user_id=$1 OR high_user_id=$1) AND status='accepted'
`, userID)
	return ids, err
}

func translateRelationshipError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return models.ErrRelationshipExists
	}
	return err
}

func (r *relationshipRepository) logPublish(ctx context.Context, eventType string, payload any) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, eventType, payload); err != nil {
		log.Printf("warning: failed to publish %s: %v", eventType, err)
	}
}
