// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"redline/internal/models"

	"gorm.io/gorm"
)

// CommentFilter selects one level of a report's thread: the top-level
// comments when IsNested is false, or the direct replies of AnsweredTo when
// IsNested is true.
type CommentFilter struct {
	ReportID   uint
	AnsweredTo *uint
	IsNested   bool
}

// CommentRepository defines interface for comment persistence
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListThread(ctx context.Context, filter CommentFilter) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
	DeleteReplies(ctx context.Context, parentID uint) (int64, error)
	CountAnswers(ctx context.Context, id uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListThread(
	ctx context.Context,
	filter CommentFilter,
) ([]*models.Comment, error) {
	q := r.db.WithContext(ctx).Preload("Author").Where("report_id = ?", filter.ReportID)
	if filter.IsNested && filter.AnsweredTo != nil {
		q = q.Where("answered_to = ?", *filter.AnsweredTo)
	} else {
		q = q.Where("answered_to IS NULL")
	}

	var comments []*models.Comment
	// Creation order; id breaks same-timestamp ties deterministically.
	err := q.Order("created_at asc, id asc").Find(&comments).Error
	return comments, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error
}

// DeleteReplies removes all direct replies of parentID and reports how many
// rows were affected.
func (r *commentRepository) DeleteReplies(ctx context.Context, parentID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("answered_to = ?", parentID).Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}

func (r *commentRepository) CountAnswers(ctx context.Context, id uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("answered_to = ?", id).Count(&count).Error
	return count, err
}
