package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/rabbitmq"
	"github.com/thinhtt264/snaplet-core-service/internal/repositories"
)

// MockRelationshipRepository mocks RelationshipRepository behavior for services and handlers.
type MockRelationshipRepository struct {
	mock.Mock
}

func (m *MockRelationshipRepository) FindExisting(ctx context.Context, lowUserID, highUserID string) (*models.Relationship, error) {
	args := m.Called(ctx, lowUserID, highUserID)
	var rel *models.Relationship
	if val := args.Get(0); val != nil {
		rel = val.(*models.Relationship)
	}
	return rel, args.Error(1)
}

func (m *MockRelationshipRepository) Create(ctx context.Context, lowUserID, highUserID, initiator string) (*models.Relationship, error) {
	args := m.Called(ctx, lowUserID, highUserID, initiator)
	var rel *models.Relationship
	if val := args.Get(0); val != nil {
		rel = val.(*models.Relationship)
	}
	return rel, args.Error(1)
}

func (m *MockRelationshipRepository) GetByID(ctx context.Context, id string) (*models.Relationship, error) {
	args := m.Called(ctx, id)
	var rel *models.Relationship
	if val := args.Get(0); val != nil {
		rel = val.(*models.Relationship)
	}
	return rel, args.Error(1)
}

func (m *MockRelationshipRepository) UpdateStatus(ctx context.Context, rel *models.Relationship, status string) (*models.Relationship, error) {
	args := m.Called(ctx, rel, status)
	var updated *models.Relationship
	if val := args.Get(0); val != nil {
		updated = val.(*models.Relationship)
	}
	return updated, args.Error(1)
}

func (m *MockRelationshipRepository) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRelationshipRepository) CountByUser(ctx context.Context, userID, status string) (int, error) {
	args := m.Called(ctx, userID, status)
	return args.Int(0), args.Error(1)
}

func (m *MockRelationshipRepository) CountForBothUsers(ctx context.Context, userID1, userID2, status string) (int, int, error) {
	args := m.Called(ctx, userID1, userID2, status)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockRelationshipRepository) ListByStatusWithUserInfo(ctx context.Context, userID, status string) ([]models.RelationshipView, error) {
	args := m.Called(ctx, userID, status)
	var views []models.RelationshipView
	if val := args.Get(0); val != nil {
		views = val.([]models.RelationshipView)
	}
	return views, args.Error(1)
}

func (m *MockRelationshipRepository) ListAcceptedFriendsWithInfo(ctx context.Context, userID string) ([]models.FriendView, error) {
	args := m.Called(ctx, userID)
	var friends []models.FriendView
	if val := args.Get(0); val != nil {
		friends = val.([]models.FriendView)
	}
	return friends, args.Error(1)
}

func (m *MockRelationshipRepository) ListAcceptedFriendIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	var ids []string
	if val := args.Get(0); val != nil {
		ids = val.([]string)
	}
	return ids, args.Error(1)
}

var _ repositories.RelationshipRepository = (*MockRelationshipRepository)(nil)

// MockUserRepository mocks UserRepository behavior.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, params repositories.CreateUserParams) (*models.User, error) {
	args := m.Called(ctx, params)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	var user *models.User
	if val := args.Get(0); val != nil {
		user = val.(*models.User)
	}
	return user, args.Error(1)
}

func (m *MockUserRepository) GetPublicByID(ctx context.Context, id string) (*models.PublicProfile, error) {
	args := m.Called(ctx, id)
	var profile *models.PublicProfile
	if val := args.Get(0); val != nil {
		profile = val.(*models.PublicProfile)
	}
	return profile, args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetAvatarURL(ctx context.Context, id string, avatarURL string) error {
	args := m.Called(ctx, id, avatarURL)
	return args.Error(0)
}

var _ repositories.UserRepository = (*MockUserRepository)(nil)

// MockPublisher mocks RabbitMQ publisher behavior for telemetry.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

var _ rabbitmq.Publisher = (*MockPublisher)(nil)
