// Package service implements the application's business logic.
package service

import (
	"context"
	"errors"
	"strings"

	"redline/internal/models"
	"redline/internal/observability"
	"redline/internal/repository"

	"gorm.io/gorm"
)

const maxCommentLen = 10000

// EventPublisher is the publish side of live delivery. The service calls it
// only after the corresponding store write has completed; a failed mutation
// never publishes.
type EventPublisher interface {
	CommentCreated(ctx context.Context, c models.Comment)
	CommentUpdated(ctx context.Context, c models.Comment)
}

// CommentService orchestrates comment reads and mutations for report threads.
type CommentService struct {
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	likes       *LikeService
	publisher   EventPublisher
}

// FindAllInput selects one thread level of a report.
type FindAllInput struct {
	ReportID   uint
	AnsweredTo *uint
	IsNested   bool
}

// AddCommentInput carries a new comment submission.
type AddCommentInput struct {
	ReportID   uint
	Message    string
	AnsweredTo *uint
}

// EditCommentInput carries a message edit. Identity fields are frozen.
type EditCommentInput struct {
	ID      uint
	Message string
}

// NewCommentService creates a CommentService. The publisher may be nil, in
// which case mutations are persisted without live fan-out.
func NewCommentService(
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	likes *LikeService,
	publisher EventPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		userRepo:    userRepo,
		likes:       likes,
		publisher:   publisher,
	}
}

// FindAll returns the comments matching the filter in creation order.
// Read-only; derived fields are resolved fresh per comment.
func (s *CommentService) FindAll(ctx context.Context, in FindAllInput, viewerID uint) ([]*models.Comment, error) {
	if in.ReportID == 0 {
		return nil, models.NewValidationError("Report ID is required")
	}

	filter := repository.CommentFilter{
		ReportID:   in.ReportID,
		AnsweredTo: normalizeParent(in.AnsweredTo),
		IsNested:   in.IsNested,
	}
	comments, err := s.commentRepo.ListThread(ctx, filter)
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		if err := s.resolve(ctx, c, viewerID); err != nil {
			return nil, err
		}
	}
	return comments, nil
}

// FindOne returns a single comment with derived fields resolved for viewerID.
func (s *CommentService) FindOne(ctx context.Context, id, viewerID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, err
	}
	if err := s.resolve(ctx, comment, viewerID); err != nil {
		return nil, err
	}
	return comment, nil
}

// Add validates and persists a new comment, then fans it out live. When the
// comment is a reply, the parent is re-fetched afterwards so subscribers of
// the top-level stream see the parent's incremented answer count; the count
// is always read fresh from the store, never taken from an in-memory copy.
func (s *CommentService) Add(ctx context.Context, in AddCommentInput, actor models.Actor) (*models.Comment, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(in.Message) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}
	if in.ReportID == 0 {
		return nil, models.NewValidationError("Report ID is required")
	}

	answeredTo := normalizeParent(in.AnsweredTo)
	if answeredTo != nil {
		parent, err := s.commentRepo.GetByID(ctx, *answeredTo)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Comment", *answeredTo)
			}
			return nil, err
		}
		if parent.IsReply() {
			return nil, models.NewValidationError("Replies cannot be nested further")
		}
		if parent.ReportID != in.ReportID {
			return nil, models.NewValidationError("Parent comment belongs to a different report")
		}
	}

	comment := &models.Comment{
		ReportID:   in.ReportID,
		AnsweredTo: answeredTo,
		AuthorID:   actor.ID,
		Message:    in.Message,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.FindOne(ctx, comment.ID, actor.ID)
	if err != nil {
		return nil, err
	}

	if s.publisher != nil {
		// Published payloads are viewer-agnostic; the like state resolved for
		// the author must not leak to other subscribers.
		event := *created
		event.ViewerLikeType = models.LikeTypeNone
		s.publisher.CommentCreated(ctx, event)

		if created.AnsweredTo != nil {
			parent, err := s.FindOne(ctx, *created.AnsweredTo, 0)
			if err != nil {
				observability.GlobalLogger.WarnContext(ctx, "parent re-fetch failed, skipping live update",
					"parent_id", *created.AnsweredTo, "error", err)
			} else {
				s.publisher.CommentUpdated(ctx, *parent)
			}
		}
	}

	return created, nil
}

// Edit updates a comment's message. Other fields are immutable, and only
// the author or a moderating role may edit. Edits are deliberately not
// pushed live: clients pick up edited text on their next query.
func (s *CommentService) Edit(ctx context.Context, in EditCommentInput, actor models.Actor) (*models.Comment, error) {
	if strings.TrimSpace(in.Message) == "" {
		return nil, models.NewValidationError("Message is required")
	}
	if len(in.Message) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", in.ID)
		}
		return nil, err
	}

	if comment.AuthorID != actor.ID && !actor.Role.CanModerate() {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Message = in.Message
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.FindOne(ctx, comment.ID, actor.ID)
}

// Delete removes a comment and, for top-level comments, all of its direct
// replies, so no reply is left pointing at a missing parent. Restricted to
// moderating roles. The outcome is a tagged result: forbidden, missing and
// store failures are all carried as Success=false, never as a fault.
func (s *CommentService) Delete(ctx context.Context, id uint, actor models.Actor) models.DeleteResult {
	if !actor.Role.CanModerate() {
		return models.DeleteResult{Success: false, Message: "You are not allowed to delete comments"}
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DeleteResult{Success: false, Message: "Comment not found"}
		}
		return models.DeleteResult{Success: false, Message: "Could not delete comment", Reason: err}
	}

	if !comment.IsReply() {
		if _, err := s.commentRepo.DeleteReplies(ctx, id); err != nil {
			return models.DeleteResult{Success: false, Message: "Could not delete comment", Reason: err}
		}
	}
	if err := s.commentRepo.Delete(ctx, id); err != nil {
		return models.DeleteResult{Success: false, Message: "Could not delete comment", Reason: err}
	}

	return models.DeleteResult{Success: true, Message: "Comment deleted"}
}

// AnswersCount returns the number of direct replies to the given comment,
// counted fresh from the store.
func (s *CommentService) AnswersCount(ctx context.Context, id uint) (int64, error) {
	return s.commentRepo.CountAnswers(ctx, id)
}

// resolve computes the derived read-side fields of a comment: answer count,
// author, like count and the viewer's like state. Nothing here is ever
// persisted.
func (s *CommentService) resolve(ctx context.Context, c *models.Comment, viewerID uint) error {
	count, err := s.commentRepo.CountAnswers(ctx, c.ID)
	if err != nil {
		return err
	}
	c.AnswersCount = int(count)

	if c.Author.ID == 0 && c.AuthorID != 0 && s.userRepo != nil {
		if author, err := s.userRepo.GetByID(ctx, c.AuthorID); err == nil {
			c.Author = *author
		}
	}

	c.ViewerLikeType = models.LikeTypeNone
	if s.likes != nil {
		likeCount, err := s.likes.LikeCount(ctx, c.ID)
		if err != nil {
			return err
		}
		c.LikeCount = likeCount

		if viewerID != 0 {
			likeType, err := s.likes.GetUserLikeType(ctx, c.ID, viewerID)
			if err != nil {
				return err
			}
			c.ViewerLikeType = likeType
		}
	}

	return nil
}

// normalizeParent collapses the wire's two "no parent" encodings (absent and
// explicit zero id) into nil.
func normalizeParent(answeredTo *uint) *uint {
	if answeredTo != nil && *answeredTo == 0 {
		return nil
	}
	return answeredTo
}
