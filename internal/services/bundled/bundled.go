// Package bundled is the fallback tier of recipes shipped with the
// application. It is read-only, in-memory and always available; results
// served from here are never written back into the cache because the data
// is already durable.
package bundled

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/chefmate/chefmate-backend/internal/models"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

//go:embed recipes.json
var recipesFS embed.FS

// Database answers bundled-recipe queries.
type Database struct {
	recipes []models.Recipe
}

// New loads the embedded recipe set.
func New() (*Database, error) {
	data, err := recipesFS.ReadFile("recipes.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read bundled recipes: %w", err)
	}

	var recipes []models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, fmt.Errorf("failed to parse bundled recipes: %w", err)
	}

	fiberlog.Infof("BundledDatabase: loaded %d bundled recipes", len(recipes))
	return &Database{recipes: recipes}, nil
}

// Query returns every bundled recipe matching the request constraints.
// Servings and time budget are matched loosely: servings because recipes
// scale, time budget as a hard ceiling when set.
func (d *Database) Query(req models.GenerationRequest) []models.Recipe {
	var matches []models.Recipe
	for _, recipe := range d.recipes {
		if recipe.Cuisine != req.Cuisine {
			continue
		}
		if req.Difficulty != "" && recipe.Difficulty != req.Difficulty {
			continue
		}
		if req.MealType != "" && recipe.MealType != req.MealType {
			continue
		}
		if req.MaxTotalTimeMinutes > 0 && recipe.TotalTimeMinutes() > req.MaxTotalTimeMinutes {
			continue
		}
		if !recipe.SatisfiesRestrictions(req.DietaryRestrictions) {
			continue
		}
		matches = append(matches, recipe)
	}
	return matches
}

// Len returns the number of bundled recipes.
func (d *Database) Len() int {
	return len(d.recipes)
}
