package favorites

import (
	"context"
	"testing"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecipe(id string) models.Recipe {
	return models.Recipe{
		ID:              id,
		Name:            "Bibimbap",
		Cuisine:         models.CuisineKorean,
		Difficulty:      models.DifficultyMedium,
		PrepTimeMinutes: 20,
		CookTimeMinutes: 15,
		Servings:        2,
		Ingredients:     []models.Ingredient{{Name: "rice", Quantity: 300, Unit: "g"}},
		Steps:           []models.CookingStep{{Number: 1, Instruction: "Cook rice."}},
	}
}

func services(t *testing.T) map[string]Service {
	t.Helper()

	svcs := map[string]Service{"memory": NewMemoryService()}

	db, err := database.New(models.DatabaseConfig{
		Type:     models.SQLite,
		FilePath: "file::memory:?cache=private",
	})
	if err != nil {
		t.Logf("sqlite unavailable, gorm service untested: %v", err)
		return svcs
	}
	t.Cleanup(func() { _ = db.Close() })

	gormSvc, err := NewGormService(db)
	require.NoError(t, err)
	svcs["gorm"] = gormSvc
	return svcs
}

func TestFavoritesRoundTrip(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, svc.Add(ctx, sampleRecipe("r1")))
			require.NoError(t, svc.Add(ctx, sampleRecipe("r2")))

			ok, err := svc.IsFavorite(ctx, "r1")
			require.NoError(t, err)
			assert.True(t, ok)

			ids, err := svc.ListIDs(ctx)
			require.NoError(t, err)
			assert.Equal(t, map[string]bool{"r1": true, "r2": true}, ids)

			recipes, err := svc.List(ctx)
			require.NoError(t, err)
			require.Len(t, recipes, 2)
			for _, recipe := range recipes {
				assert.True(t, recipe.IsFavorite)
			}

			require.NoError(t, svc.Remove(ctx, "r1"))
			ok, err = svc.IsFavorite(ctx, "r1")
			require.NoError(t, err)
			assert.False(t, ok)

			// Removing an unknown ID is a no-op.
			require.NoError(t, svc.Remove(ctx, "ghost"))
		})
	}
}

func TestFavoritesAddRequiresID(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			err := svc.Add(context.Background(), models.Recipe{Name: "No ID"})
			assert.True(t, models.IsErrorType(err, models.ErrorTypeValidation))
		})
	}
}

func TestFavoritesAddIsIdempotent(t *testing.T) {
	for name, svc := range services(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, svc.Add(ctx, sampleRecipe("r1")))
			require.NoError(t, svc.Add(ctx, sampleRecipe("r1")))

			recipes, err := svc.List(ctx)
			require.NoError(t, err)
			assert.Len(t, recipes, 1)
		})
	}
}
