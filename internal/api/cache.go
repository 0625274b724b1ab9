package api

import (
	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/stats"

	"github.com/gofiber/fiber/v2"
)

// CacheHandler exposes cache statistics and maintenance operations.
type CacheHandler struct {
	stats *stats.Service
}

func NewCacheHandler(statsService *stats.Service) *CacheHandler {
	return &CacheHandler{stats: statsService}
}

// Stats returns a fresh statistics snapshot.
func (h *CacheHandler) Stats(c *fiber.Ctx) error {
	snapshot, err := h.stats.Compute(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snapshot)
}

// CleanExpired removes every record past its TTL.
func (h *CacheHandler) CleanExpired(c *fiber.Ctx) error {
	removed, err := h.stats.CleanExpired(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// ClearAll empties the cache.
func (h *CacheHandler) ClearAll(c *fiber.Ctx) error {
	removed, err := h.stats.ClearAll(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"removed": removed})
}

// Remove deletes one record by cache key or contained recipe ID.
func (h *CacheHandler) Remove(c *fiber.Ctx) error {
	key := c.Params("key")
	if key == "" {
		return respondError(c, models.NewValidationError("cache key is required", nil))
	}
	if err := h.stats.Remove(c.UserContext(), key); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
