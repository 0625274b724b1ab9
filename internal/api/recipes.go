package api

import (
	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/orchestrator"
	"github.com/chefmate/chefmate-backend/internal/services/store"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

// RecipeHandler exposes recipe generation and cache browsing.
type RecipeHandler struct {
	orchestrator *orchestrator.Orchestrator
	store        store.Store
}

func NewRecipeHandler(orch *orchestrator.Orchestrator, recipeStore store.Store) *RecipeHandler {
	return &RecipeHandler{orchestrator: orch, store: recipeStore}
}

// Generate serves recipes for a generation request, from cache when
// possible.
func (h *RecipeHandler) Generate(c *fiber.Ctx) error {
	var req models.GenerationRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, models.NewValidationError("invalid request body", err))
	}
	req.Cuisine = models.NormalizeCuisine(string(req.Cuisine))

	result, err := h.orchestrator.Generate(c.UserContext(), req)
	if err != nil {
		return respondError(c, err)
	}

	fiberlog.Infof("api: served %d recipes from %s", len(result.Recipes), result.Source)
	return c.JSON(result)
}

// List returns every cached record with its recipes and metadata.
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	records, err := h.store.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	type cachedEntry struct {
		models.CachedRecipeRecord
		Recipes []models.Recipe `json:"recipes"`
	}

	entries := make([]cachedEntry, 0, len(records))
	for _, record := range records {
		recipes, err := record.Recipes()
		if err != nil {
			fiberlog.Warnf("api: skipping undecodable record %s: %v", record.CacheKey, err)
			continue
		}
		entries = append(entries, cachedEntry{CachedRecipeRecord: record, Recipes: recipes})
	}
	return c.JSON(fiber.Map{"records": entries, "count": len(entries)})
}
