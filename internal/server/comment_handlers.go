// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"redline/internal/middleware"
	"redline/internal/models"
	"redline/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on a report (protected).
// A request with answered_to set creates a reply; replies to replies
// are rejected with 400.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := middleware.ActorFromLocals(c)

	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message    string `json:"message"`
		AnsweredTo *uint  `json:"answered_to"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentService.Add(ctx, service.AddCommentInput{
		ReportID:   reportID,
		Message:    req.Message,
		AnsweredTo: req.AnsweredTo,
	}, actor)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetComments returns one thread level of a report: top-level comments by
// default, or the replies of answered_to when it is given.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.UserContext()
	viewerID := c.Locals("userID").(uint)

	reportID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	answeredTo := parseAnsweredTo(c)
	comments, err := s.commentService.FindAll(ctx, service.FindAllInput{
		ReportID:   reportID,
		AnsweredTo: answeredTo,
		IsNested:   answeredTo != nil,
	}, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comments)
}

// GetComment returns a single comment with its derived fields resolved
// for the requesting viewer.
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	viewerID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.FindOne(ctx, commentID, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(comment)
}

// GetAnswersCount returns the current number of replies to a comment.
func (s *Server) GetAnswersCount(c *fiber.Ctx) error {
	ctx := c.UserContext()

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	count, err := s.commentService.AnswersCount(ctx, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{"id": commentID, "answers_count": count})
}

// UpdateComment edits a comment's message (only owner). Identity fields
// cannot change through this endpoint.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := middleware.ActorFromLocals(c)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	updated, err := s.commentService.Edit(ctx, service.EditCommentInput{
		ID:      commentID,
		Message: req.Message,
	}, actor)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(updated)
}

// DeleteComment removes a comment (maintainers only). The response is
// always 200 with a success/message body; expected failures such as a
// missing comment or insufficient role are carried in the body, not as
// an HTTP error.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	actor := middleware.ActorFromLocals(c)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	result := s.commentService.Delete(ctx, commentID, actor)
	if !result.Success && result.Reason != nil {
		middleware.Logger.WarnContext(ctx, "comment delete refused",
			"comment_id", commentID, "reason", result.Reason)
	}

	return c.JSON(result)
}

// LikeComment sets the caller's reaction on a comment. Type "none"
// clears a previous reaction.
func (s *Server) LikeComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Type models.LikeType `json:"type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}
	switch req.Type {
	case models.LikeTypeNone, models.LikeTypeLike, models.LikeTypeDislike:
	default:
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid like type"))
	}

	// The comment must exist; reacting to a deleted comment is a 404.
	if _, err := s.commentService.FindOne(ctx, commentID, userID); err != nil {
		return respondServiceError(c, err)
	}

	if err := s.likeService.React(ctx, commentID, userID, req.Type); err != nil {
		return respondServiceError(c, err)
	}

	count, err := s.likeService.LikeCount(ctx, commentID)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"id":               commentID,
		"like_count":       count,
		"viewer_like_type": req.Type,
	})
}
