package api

import (
	"github.com/chefmate/chefmate-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// respondError sanitizes an error and writes it with the status code its
// category maps to. Generation failure kinds pass through untouched so
// clients can tell a rate limit from a dead network.
func respondError(c *fiber.Ctx, err error) error {
	appErr := models.SanitizeError(err)
	if appErr.GetStatusCode() >= fiber.StatusInternalServerError {
		fiberlog.Errorf("api: %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(appErr.GetStatusCode()).JSON(fiber.Map{"error": appErr})
}
