package server

import (
	"gazette/internal/cache"
	"gazette/internal/models"
	"gazette/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	Kind        string `json:"kind"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	CategoryIDs []uint `json:"category_ids"`
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.contentService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:      currentUserID(c),
		Kind:        models.PostKind(req.Kind),
		Title:       req.Title,
		Body:        req.Body,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost handles GET /api/posts/:id with a cache-aside read.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var post models.Post
	err = cache.Aside(c.UserContext(), cache.PostKey(id), &post, cache.PostTTL, func() error {
		found, err := s.contentService.GetPost(c.UserContext(), id)
		if err != nil {
			return err
		}
		post = *found
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.contentService.DeletePost(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	return s.ratePost(c, 1)
}

// DislikePost handles POST /api/posts/:id/dislike
func (s *Server) DislikePost(c *fiber.Ctx) error {
	return s.ratePost(c, -1)
}

func (s *Server) ratePost(c *fiber.Ctx, delta int) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	rating, err := s.ratingService.IncrementPostRating(c.UserContext(), id, delta)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"post_id": id, "rating": rating})
}
