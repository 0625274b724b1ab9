package generator

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chefmate/chefmate-backend/internal/models"

	"github.com/google/uuid"
)

const systemPrompt = `You are a professional chef writing precise, reproducible recipes.
Respond with a JSON array of recipe objects and nothing else. Each object has:
"name", "cuisine", "difficulty" (easy|medium|hard), "meal_type",
"prep_time_minutes", "cook_time_minutes", "servings",
"ingredients" (array of {"name","quantity","unit"}),
"steps" (array of {"number","instruction","duration_minutes"}),
"dietary_restrictions", "wine_pairings", "chef_notes", "plating_tips".`

// buildPrompt renders the user prompt for a validated request. Servings are
// included so the model writes quantities for the right batch size even
// though they never enter the cache key.
func buildPrompt(req models.GenerationRequest, count int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write %d distinct %s recipes.\n", count, req.Cuisine)
	if req.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s.\n", req.Difficulty)
	}
	if req.MealType != "" {
		fmt.Fprintf(&b, "Meal type: %s.\n", req.MealType)
	}
	if len(req.DietaryRestrictions) > 0 {
		labels := make([]string, len(req.DietaryRestrictions))
		for i, r := range req.DietaryRestrictions {
			labels[i] = string(r)
		}
		fmt.Fprintf(&b, "Every recipe must satisfy all of: %s.\n", strings.Join(labels, ", "))
	}
	if req.MaxTotalTimeMinutes > 0 {
		fmt.Fprintf(&b, "Total prep plus cook time must not exceed %d minutes.\n", req.MaxTotalTimeMinutes)
	}
	fmt.Fprintf(&b, "Each recipe serves %d.\n", req.Servings)
	return b.String()
}

// parseRecipes decodes the model output into recipes. Models wrap JSON in
// markdown fences often enough that stripping them is table stakes. Any
// decode failure is an invalid_response generation error, never a silent
// empty result.
func parseRecipes(provider, raw string) ([]models.Recipe, error) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, models.NewGenerationError(models.GenerationErrorInvalidResponse,
			provider+" returned an empty response", nil)
	}

	var recipes []models.Recipe
	if err := json.Unmarshal([]byte(cleaned), &recipes); err != nil {
		// Some models return a single object instead of a one-element array.
		var single models.Recipe
		if err2 := json.Unmarshal([]byte(cleaned), &single); err2 != nil {
			return nil, models.NewGenerationError(models.GenerationErrorInvalidResponse,
				provider+" returned malformed recipe JSON", err)
		}
		recipes = []models.Recipe{single}
	}

	if len(recipes) == 0 {
		return nil, models.NewGenerationError(models.GenerationErrorInvalidResponse,
			provider+" returned no recipes", nil)
	}

	for i := range recipes {
		recipes[i].ID = uuid.NewString()
		recipes[i].Cuisine = models.NormalizeCuisine(string(recipes[i].Cuisine))
		recipes[i].IsFavorite = false
		if recipes[i].Name == "" || len(recipes[i].Ingredients) == 0 || len(recipes[i].Steps) == 0 {
			return nil, models.NewGenerationError(models.GenerationErrorInvalidResponse,
				provider+" returned an incomplete recipe", nil)
		}
	}
	return recipes, nil
}

func stripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}
