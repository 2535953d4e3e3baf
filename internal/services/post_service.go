package services

import (
	"context"

	"github.com/thinhtt264/snaplet-core-service/internal/models"
	"github.com/thinhtt264/snaplet-core-service/internal/repositories"
)

const (
	DefaultFeedLimit = 10
	MaxFeedLimit     = 100
)

type PostService struct {
	posts         repositories.PostRepository
	relationships *RelationshipService
}

func NewPostService(posts repositories.PostRepository, relationships *RelationshipService) *PostService {
	return &PostService{posts: posts, relationships: relationships}
}

func (s *PostService) Create(ctx context.Context, userID, imageURL, caption, visibility string) (*models.Post, error) {
	if visibility == "" {
		visibility = models.VisibilityFriendOnly
	}
	return s.posts.Create(ctx, repositories.CreatePostParams{
		UserID:     userID,
		ImageURL:   imageURL,
		Caption:    caption,
		Visibility: visibility,
	})
}

// GetFeed returns the newest posts authored by the user's accepted friends
// and by the user themselves, with author info joined.
func (s *PostService) GetFeed(ctx context.Context, userID string, limit, offset int) ([]models.FeedPost, error) {
	if limit <= 0 {
		limit = DefaultFeedLimit
	}
	if limit > MaxFeedLimit {
		limit = MaxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}

	friendIDs, err := s.relationships.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	authorIDs := append(friendIDs, userID)
	posts, err := s.posts.ListFeedWithUserInfo(ctx, authorIDs, limit, offset)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].IsOwnPost = posts[i].UserID == userID
	}
	return posts, nil
}
