// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a report. Comments nest exactly one level:
// a top-level comment has AnsweredTo = nil, a reply points at a top-level
// comment's ID. Replying to a reply is rejected by the service layer.
type Comment struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	ReportID   uint   `gorm:"not null;index" json:"report_id"`
	AnsweredTo *uint  `gorm:"index" json:"answered_to,omitempty"`
	AuthorID   uint   `gorm:"not null" json:"author_id"`
	Author     User   `gorm:"foreignKey:AuthorID" json:"author"`
	Message    string `gorm:"type:text;not null" json:"message"`

	// Derived fields, resolved per read, never persisted. AnswersCount is
	// always counted fresh from the reply set so a reply's creation is
	// immediately visible on the parent.
	AnswersCount   int      `gorm:"-" json:"answers_count"`
	LikeCount      int      `gorm:"-" json:"like_count"`
	ViewerLikeType LikeType `gorm:"-" json:"viewer_like_type"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsReply reports whether the comment is a reply to another comment.
func (c *Comment) IsReply() bool { return c.AnsweredTo != nil }

// LikeType is a viewer's reaction to a comment.
type LikeType string

const (
	LikeTypeNone    LikeType = "none"
	LikeTypeLike    LikeType = "like"
	LikeTypeDislike LikeType = "dislike"
)

// CommentLike records a single user's reaction to a comment.
// The combination of CommentID and UserID must be unique.
type CommentLike struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CommentID uint           `gorm:"not null;uniqueIndex:idx_comment_user" json:"comment_id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_comment_user" json:"user_id"`
	Type      LikeType       `gorm:"not null" json:"type"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// DeleteResult is the tagged outcome of a delete request. Expected failures
// (forbidden, not found, store error) are carried as Success=false rather
// than a fault so the caller renders either branch uniformly.
type DeleteResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	// Reason keeps the underlying cause for logging; it is never serialized.
	Reason error `json:"-"`
}
