package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thinhtt264/snaplet-core-service/internal/metrics"
	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/telemetry"
)

type RelationshipHandler struct {
	relationships RelationshipAPI
	audit         *telemetry.AuditEmitter
}

// RelationshipAPI is the service surface this handler depends on.
type RelationshipAPI interface {
	Create(ctx context.Context, initiatorID, targetID string) (*models.Relationship, error)
	UpdateStatus(ctx context.Context, callerID, relationshipID, newStatus string) (*models.Relationship, error)
	Delete(ctx context.Context, callerID, relationshipID string) error
	GetByStatus(ctx context.Context, userID, status string) ([]models.RelationshipView, error)
	GetFriends(ctx context.Context, userID string) ([]models.FriendView, error)
}

func NewRelationshipHandler(relationships RelationshipAPI, audit *telemetry.AuditEmitter) *RelationshipHandler {
	return &RelationshipHandler{relationships: relationships, audit: audit}
}

type createRelationshipBody struct {
	TargetUserID string `json:"target_user_id" binding:"required"`
}

func (h *RelationshipHandler) Create(c *gin.Context) {
	requestID := requestIDFromHeader(c)
	userID := userIDFromContext(c)
	if userID == "" {
		metrics.IncRelationshipRequest(metrics.StatusFailed)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body createRelationshipBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.emitAudit(c.Request.Context(), "ERROR", "invalid request payload", requestID, userID)
		metrics.IncRelationshipRequest(metrics.StatusFailed)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	rel, err := h.relationships.Create(ctx, userID, body.TargetUserID)
	if err != nil {
		h.emitAudit(ctx, "ERROR", "relationship create failed: "+err.Error(), requestID, userID)
		metrics.IncRelationshipRequest(metrics.StatusFailed)
		respondRelationshipError(c, err)
		return
	}

	h.emitAudit(ctx, "INFO", "relationship request sent to '"+body.TargetUserID+"'", requestID, userID)
	metrics.IncRelationshipRequest(metrics.StatusSuccess)
	c.JSON(http.StatusCreated, rel)
}

type updateRelationshipBody struct {
	Status string `json:"status" binding:"required"`
}

func (h *RelationshipHandler) Update(c *gin.Context) {
	requestID := requestIDFromHeader(c)
	userID := userIDFromContext(c)
	if userID == "" {
		metrics.IncRelationshipUpdate(metrics.StatusFailed)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body updateRelationshipBody
	if err := c.ShouldBindJSON(&body); err != nil {
		metrics.IncRelationshipUpdate(metrics.StatusFailed)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	rel, err := h.relationships.UpdateStatus(ctx, userID, c.Param("relationshipId"), body.Status)
	if err != nil {
		var limitErr *models.RelationshipLimitError
		if errors.As(err, &limitErr) {
			metrics.IncRelationshipLimitHit()
		}
		h.emitAudit(ctx, "ERROR", "relationship update failed: "+err.Error(), requestID, userID)
		metrics.IncRelationshipUpdate(metrics.StatusFailed)
		respondRelationshipError(c, err)
		return
	}

	h.emitAudit(ctx, "INFO", "relationship "+rel.ID+" set to "+rel.Status, requestID, userID)
	metrics.IncRelationshipUpdate(metrics.StatusSuccess)
	c.JSON(http.StatusOK, rel)
}

func (h *RelationshipHandler) Delete(c *gin.Context) {
	requestID := requestIDFromHeader(c)
	userID := userIDFromContext(c)
	if userID == "" {
		metrics.IncRelationshipDelete(metrics.StatusFailed)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	if err := h.relationships.Delete(ctx, userID, c.Param("relationshipId")); err != nil {
		h.emitAudit(ctx, "ERROR", "relationship delete failed: "+err.Error(), requestID, userID)
		metrics.IncRelationshipDelete(metrics.StatusFailed)
		respondRelationshipError(c, err)
		return
	}

	h.emitAudit(ctx, "INFO", "relationship deleted", requestID, userID)
	metrics.IncRelationshipDelete(metrics.StatusSuccess)
	c.Status(http.StatusNoContent)
}

func (h *RelationshipHandler) GetByStatus(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.relationships.GetByStatus(c.Request.Context(), userID, c.Param("status"))
	if err != nil {
		respondRelationshipError(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *RelationshipHandler) GetFriends(c *gin.Context) {
	userID := userIDFromContext(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	friends, err := h.relationships.GetFriends(c.Request.Context(), userID)
	if err != nil {
		respondRelationshipError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": friends, "total": len(friends)})
}

// respondRelationshipError maps service error kinds to HTTP status codes.
// Anything outside the taxonomy is a store failure and surfaces as 500.
func respondRelationshipError(c *gin.Context, err error) {
	var limitErr *models.RelationshipLimitError
	switch {
	case errors.Is(err, models.ErrSelfRelationship),
		errors.Is(err, models.ErrInvalidTarget),
		errors.Is(err, models.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrRelationshipNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrRelationshipExists),
		errors.Is(err, models.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &limitErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": "relationship limit exceeded",
			"who":   limitErr.Who,
			"count": limitErr.Count,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *RelationshipHandler) emitAudit(ctx context.Context, level, text, requestID, userID string) {
	if h.audit == nil {
		return
	}
	h.audit.EmitAudit(ctx, level, text, requestID, userID)
}
