package generator

import (
	"testing"

	"github.com/chefmate/chefmate-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validRecipeJSON = `[{
	"name": "Pad Thai",
	"cuisine": "Thai",
	"difficulty": "easy",
	"meal_type": "dinner",
	"prep_time_minutes": 15,
	"cook_time_minutes": 10,
	"servings": 2,
	"ingredients": [{"name": "rice noodles", "quantity": 200, "unit": "g"}],
	"steps": [{"number": 1, "instruction": "Soak noodles."}]
}]`

func TestParseRecipesAssignsIDsAndNormalizes(t *testing.T) {
	recipes, err := parseRecipes("openai", validRecipeJSON)
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	assert.NotEmpty(t, recipes[0].ID)
	assert.Equal(t, models.CuisineThai, recipes[0].Cuisine)
	assert.False(t, recipes[0].IsFavorite)
}

func TestParseRecipesStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validRecipeJSON + "\n```"
	recipes, err := parseRecipes("openai", fenced)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestParseRecipesAcceptsSingleObject(t *testing.T) {
	single := `{"name": "Miso Soup", "cuisine": "japanese", "difficulty": "easy",
		"prep_time_minutes": 5, "cook_time_minutes": 10, "servings": 2,
		"ingredients": [{"name": "miso", "quantity": 3, "unit": "tbsp"}],
		"steps": [{"number": 1, "instruction": "Warm dashi."}]}`
	recipes, err := parseRecipes("gemini", single)
	require.NoError(t, err)
	assert.Len(t, recipes, 1)
}

func TestParseRecipesRejectsMalformedJSON(t *testing.T) {
	_, err := parseRecipes("openai", "this is not json")
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrorTypeGeneration, appErr.Type)
	assert.Equal(t, models.GenerationErrorInvalidResponse, appErr.Kind)
}

func TestParseRecipesRejectsIncompleteRecipe(t *testing.T) {
	_, err := parseRecipes("openai", `[{"name": "Empty", "cuisine": "thai"}]`)
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, models.GenerationErrorInvalidResponse, appErr.Kind)
}

func TestParseRecipesRejectsEmptyArray(t *testing.T) {
	_, err := parseRecipes("anthropic", "[]")
	appErr, ok := models.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, models.GenerationErrorInvalidResponse, appErr.Kind)
}

func TestBuildPromptIncludesConstraints(t *testing.T) {
	req := models.GenerationRequest{
		Cuisine:             models.CuisineItalian,
		Difficulty:          models.DifficultyEasy,
		MealType:            models.MealTypeDinner,
		DietaryRestrictions: []models.DietaryRestriction{models.RestrictionVegan, models.RestrictionGlutenFree},
		MaxTotalTimeMinutes: 45,
		Servings:            4,
	}
	prompt := buildPrompt(req, 3)

	assert.Contains(t, prompt, "3 distinct italian recipes")
	assert.Contains(t, prompt, "Difficulty: easy")
	assert.Contains(t, prompt, "Meal type: dinner")
	assert.Contains(t, prompt, "vegan, gluten_free")
	assert.Contains(t, prompt, "45 minutes")
	assert.Contains(t, prompt, "serves 4")
}
