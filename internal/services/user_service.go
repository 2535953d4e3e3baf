package services

import (
	"context"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/repositories"
)

type UserService struct {
	users repositories.UserRepository
}

func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*models.PublicProfile, error) {
	return s.users.GetPublicByID(ctx, id)
}

func (s *UserService) GetMe(ctx context.Context, id string) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *UserService) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return s.users.SetAvatarURL(ctx, id, avatarURL)
}
