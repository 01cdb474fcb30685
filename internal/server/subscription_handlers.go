package server

import (
	"gazette/internal/cache"
	"gazette/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetCategory handles GET /api/categories/:id with a cache-aside read.
// Category rows are effectively immutable, so a short TTL is the only
// freshness mechanism they need.
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	var category models.Category
	err = cache.Aside(c.UserContext(), cache.CategoryKey(id), &category, cache.CategoryTTL, func() error {
		found, err := s.subscriptionService.GetCategory(c.UserContext(), id)
		if err != nil {
			return err
		}
		category = *found
		return nil
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// Subscribe handles POST /api/categories/:id/subscribe. Subscribing twice is
// a no-op, so the handler always answers 200 on success.
func (s *Server) Subscribe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.subscriptionService.Subscribe(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"subscribed": true, "category_id": id})
}

// Unsubscribe handles POST /api/categories/:id/unsubscribe.
func (s *Server) Unsubscribe(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	if err := s.subscriptionService.Unsubscribe(c.UserContext(), currentUserID(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"subscribed": false, "category_id": id})
}
