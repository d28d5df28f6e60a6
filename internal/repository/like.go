package repository

import (
	"context"
	"errors"

	"redline/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentLikeRepository defines interface for comment reactions
type CommentLikeRepository interface {
	Set(ctx context.Context, commentID, userID uint, t models.LikeType) error
	Remove(ctx context.Context, commentID, userID uint) error
	CountLikes(ctx context.Context, commentID uint) (int64, error)
	GetUserLikeType(ctx context.Context, commentID, userID uint) (models.LikeType, error)
}

type commentLikeRepository struct {
	db *gorm.DB
}

// NewCommentLikeRepository creates a new CommentLikeRepository
func NewCommentLikeRepository(db *gorm.DB) CommentLikeRepository {
	return &commentLikeRepository{db: db}
}

// Set upserts a user's reaction; a second reaction replaces the first.
func (r *commentLikeRepository) Set(ctx context.Context, commentID, userID uint, t models.LikeType) error {
	like := models.CommentLike{
		CommentID: commentID,
		UserID:    userID,
		Type:      t,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "comment_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type"}),
	}).Create(&like).Error
}

func (r *commentLikeRepository) Remove(ctx context.Context, commentID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		Delete(&models.CommentLike{}).Error
}

func (r *commentLikeRepository) CountLikes(ctx context.Context, commentID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).
		Where("comment_id = ? AND type = ?", commentID, models.LikeTypeLike).
		Count(&count).Error
	return count, err
}

// GetUserLikeType returns the viewer's reaction, LikeTypeNone when there is none.
func (r *commentLikeRepository) GetUserLikeType(ctx context.Context, commentID, userID uint) (models.LikeType, error) {
	var like models.CommentLike
	err := r.db.WithContext(ctx).
		Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&like).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.LikeTypeNone, nil
		}
		return models.LikeTypeNone, err
	}
	return like.Type, nil
}
