package service

import (
	"context"

	"redline/internal/models"
	"redline/internal/repository"
)

// LikeService answers like-count and viewer-reaction queries for comments and
// records reactions. Counting stays here so the comment entity never carries
// a persisted counter that could drift.
type LikeService struct {
	likeRepo repository.CommentLikeRepository
}

// NewLikeService creates a LikeService.
func NewLikeService(likeRepo repository.CommentLikeRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo}
}

// React records a user's reaction. LikeTypeNone withdraws a previous reaction.
func (s *LikeService) React(ctx context.Context, commentID, userID uint, t models.LikeType) error {
	switch t {
	case models.LikeTypeLike, models.LikeTypeDislike:
		return s.likeRepo.Set(ctx, commentID, userID, t)
	case models.LikeTypeNone:
		return s.likeRepo.Remove(ctx, commentID, userID)
	default:
		return models.NewValidationError("Unknown like type")
	}
}

// LikeCount returns the current number of likes on a comment.
func (s *LikeService) LikeCount(ctx context.Context, commentID uint) (int, error) {
	count, err := s.likeRepo.CountLikes(ctx, commentID)
	return int(count), err
}

// GetUserLikeType returns the viewer's reaction, LikeTypeNone when there is none.
func (s *LikeService) GetUserLikeType(ctx context.Context, commentID, userID uint) (models.LikeType, error) {
	return s.likeRepo.GetUserLikeType(ctx, commentID, userID)
}
