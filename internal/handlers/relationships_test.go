package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/thinhtt264/snaplet-core-service/internal/mocks"
	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/services"
)

func setupRelationshipRouter(handler *RelationshipHandler, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if userID != "" {
			c.Set("userID", userID)
		}
		c.Next()
	})
	r.POST("/relationships", handler.Create)
	r.PATCH("/relationships/:relationshipId", handler.Update)
	r.DELETE("/relationships/:relationshipId", handler.Delete)
	r.GET("/relationships/status/:status", handler.GetByStatus)
	r.GET("/friends", handler.GetFriends)
	return r
}

func newRelationshipHandler(repo *mocks.MockRelationshipRepository) *RelationshipHandler {
	svc := services.NewRelationshipService(repo, 50)
	return NewRelationshipHandler(svc, nil)
}

func TestCreateRelationshipEmptyBody(t *testing.T) {
	handler := newRelationshipHandler(new(mocks.MockRelationshipRepository))
	router := setupRelationshipRouter(handler, "a1")

	req := httptest.NewRequest(http.MethodPost, "/relationships", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRelationshipUnauthorized(t *testing.T) {
	handler := newRelationshipHandler(new(mocks.MockRelationshipRepository))
	router := setupRelationshipRouter(handler, "")

	body := bytes.NewBufferString(`{"target_user_id":"b2"}`)
	req := httptest.NewRequest(http.MethodPost, "/relationships", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateRelationshipSuccess(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("FindExisting", mock.Anything, "a1", "b2").Return(nil, nil).Once()
	repo.On("Create", mock.Anything, "a1", "b2", "a1").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2", Status: models.StatusPending, Initiator: "a1"}, nil).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "a1")

	body := bytes.NewBufferString(`{"target_user_id":"b2"}`)
	req := httptest.NewRequest(http.MethodPost, "/relationships", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.Relationship
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, "rel-1", resp.ID)
	require.Equal(t, models.StatusPending, resp.Status)

	repo.AssertExpectations(t)
}

func TestCreateRelationshipConflict(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("FindExisting", mock.Anything, "a1", "b2").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2"}, nil).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "a1")

	body := bytes.NewBufferString(`{"target_user_id":"b2"}`)
	req := httptest.NewRequest(http.MethodPost, "/relationships", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateRelationshipSelfTarget(t *testing.T) {
	handler := newRelationshipHandler(new(mocks.MockRelationshipRepository))
	router := setupRelationshipRouter(handler, "a1")

	body := bytes.NewBufferString(`{"target_user_id":"a1"}`)
	req := httptest.NewRequest(http.MethodPost, "/relationships", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRelationshipForbidden(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("GetByID", mock.Anything, "rel-1").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2", Status: models.StatusPending}, nil).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "c3")

	body := bytes.NewBufferString(`{"status":"accepted"}`)
	req := httptest.NewRequest(http.MethodPatch, "/relationships/rel-1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateRelationshipLimitExceeded(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("GetByID", mock.Anything, "rel-1").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2", Status: models.StatusPending}, nil).Once()
	repo.On("CountForBothUsers", mock.Anything, "a1", "b2", models.StatusAccepted).
		Return(50, 3, nil).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "b2")

	body := bytes.NewBufferString(`{"status":"accepted"}`)
	req := httptest.NewRequest(http.MethodPatch, "/relationships/rel-1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error string `json:"error"`
		Who   string `json:"who"`
		Count int    `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, models.LimitSideSource, resp.Who)
	require.Equal(t, 50, resp.Count)

	repo.AssertExpectations(t)
}

func TestUpdateRelationshipBlockedIsTerminal(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("GetByID", mock.Anything, "rel-1").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2", Status: models.StatusBlocked}, nil).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "a1")

	body := bytes.NewBufferString(`{"status":"accepted"}`)
	req := httptest.NewRequest(http.MethodPatch, "/relationships/rel-1", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDeleteRelationshipNotFound(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("GetByID", mock.Anything, "missing").
		Return(nil, models.ErrRelationshipNotFound).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "a1")

	req := httptest.NewRequest(http.MethodDelete, "/relationships/missing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteRelationshipSuccess(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("GetByID", mock.Anything, "rel-1").
		Return(&models.Relationship{ID: "rel-1", LowUserID: "a1", HighUserID: "b2", Status: models.StatusBlocked}, nil).Once()
	repo.On("DeleteByID", mock.Anything, "rel-1").Return(nil).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "a1")

	req := httptest.NewRequest(http.MethodDelete, "/relationships/rel-1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}

func TestGetFriendsReturnsProjection(t *testing.T) {
	repo := new(mocks.MockRelationshipRepository)
	repo.On("ListAcceptedFriendsWithInfo", mock.Anything, "a1").
		Return([]models.FriendView{{RelationshipID: "rel-1", UserID: "b2", Username: "bob"}}, nil).Once()

	handler := newRelationshipHandler(repo)
	router := setupRelationshipRouter(handler, "a1")

	req := httptest.NewRequest(http.MethodGet, "/friends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data  []models.FriendView `json:"data"`
		Total int                 `json:"total"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, 1, resp.Total)
	require.Equal(t, "b2", resp.Data[0].UserID)
}

func TestGetByStatusInvalidStatus(t *testing.T) {
	handler := newRelationshipHandler(new(mocks.MockRelationshipRepository))
	router := setupRelationshipRouter(handler, "a1")

	req := httptest.NewRequest(http.MethodGet, "/relationships/status/bogus", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
