package server

import (
	"gazette/internal/models"
	"gazette/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCommentRequest struct {
	PostID uint   `json:"post_id"`
	Body   string `json:"body"`
}

// CreateComment handles POST /api/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.contentService.CreateComment(c.UserContext(), service.CreateCommentInput{
		UserID: currentUserID(c),
		PostID: req.PostID,
		Body:   req.Body,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments handles GET /api/posts/:id/comments
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	comments, err := s.contentService.ListComments(c.UserContext(), postID)
	if err != nil {
		return respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}
	return c.JSON(comments)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	return s.rateComment(c, 1)
}

// DislikeComment handles POST /api/comments/:id/dislike
func (s *Server) DislikeComment(c *fiber.Ctx) error {
	return s.rateComment(c, -1)
}

func (s *Server) rateComment(c *fiber.Ctx, delta int) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	rating, err := s.ratingService.IncrementCommentRating(c.UserContext(), id, delta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"comment_id": id, "rating": rating})
}
