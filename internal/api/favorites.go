package api

import (
	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/favorites"

	"github.com/gofiber/fiber/v2"
)

// FavoritesHandler exposes the user's favorite recipes.
type FavoritesHandler struct {
	favorites favorites.Service
}

func NewFavoritesHandler(favoritesService favorites.Service) *FavoritesHandler {
	return &FavoritesHandler{favorites: favoritesService}
}

// Add marks a recipe as favorite. The full recipe is stored so favorites
// outlive cache eviction of the record that produced them.
func (h *FavoritesHandler) Add(c *fiber.Ctx) error {
	var recipe models.Recipe
	if err := c.BodyParser(&recipe); err != nil {
		return respondError(c, models.NewValidationError("invalid recipe body", err))
	}
	if err := h.favorites.Add(c.UserContext(), recipe); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// Remove unfavorites a recipe by ID.
func (h *FavoritesHandler) Remove(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	if recipeID == "" {
		return respondError(c, models.NewValidationError("recipe id is required", nil))
	}
	if err := h.favorites.Remove(c.UserContext(), recipeID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// List returns every favorited recipe.
func (h *FavoritesHandler) List(c *fiber.Ctx) error {
	recipes, err := h.favorites.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"favorites": recipes, "count": len(recipes)})
}
