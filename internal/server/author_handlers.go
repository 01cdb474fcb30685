package server

import (
	"github.com/gofiber/fiber/v2"
)

// RecomputeReputation handles POST /api/authors/:id/recompute-reputation.
// The value is rebuilt from stored ratings, persisted, and returned.
func (s *Server) RecomputeReputation(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	reputation, err := s.ratingService.RecomputeAuthorReputation(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"author_id": id, "reputation": reputation})
}

// DeadJobs handles GET /api/ops/dead-jobs, exposing the dead-letter list for
// operators.
func (s *Server) DeadJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	jobs, err := s.jobQueue.DeadJobs(c.UserContext(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"dead_jobs": jobs, "count": len(jobs)})
}
