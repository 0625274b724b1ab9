package models

import "strings"

// Cuisine identifies the cuisine of a recipe or request. Serialized by
// canonical name, never by ordinal, so persisted cache keys survive
// additions to this list.
type Cuisine string

const (
	CuisineItalian       Cuisine = "italian"
	CuisineFrench        Cuisine = "french"
	CuisineChinese       Cuisine = "chinese"
	CuisineJapanese      Cuisine = "japanese"
	CuisineMexican       Cuisine = "mexican"
	CuisineIndian        Cuisine = "indian"
	CuisineThai          Cuisine = "thai"
	CuisineMediterranean Cuisine = "mediterranean"
	CuisineAmerican      Cuisine = "american"
	CuisineKorean        Cuisine = "korean"
)

// Difficulty is the skill level of a recipe.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// MealType is the optional meal slot a recipe targets.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeDessert   MealType = "dessert"
	MealTypeSnack     MealType = "snack"
	MealTypeAppetizer MealType = "appetizer"
)

// DietaryRestriction is a constraint every served recipe must satisfy.
type DietaryRestriction string

const (
	RestrictionVegetarian  DietaryRestriction = "vegetarian"
	RestrictionVegan       DietaryRestriction = "vegan"
	RestrictionGlutenFree  DietaryRestriction = "gluten_free"
	RestrictionDairyFree   DietaryRestriction = "dairy_free"
	RestrictionNutFree     DietaryRestriction = "nut_free"
	RestrictionLowCarb     DietaryRestriction = "low_carb"
	RestrictionKeto        DietaryRestriction = "keto"
	RestrictionHalal       DietaryRestriction = "halal"
	RestrictionKosher      DietaryRestriction = "kosher"
	RestrictionPescatarian DietaryRestriction = "pescatarian"
)

// Ingredient is one entry in a recipe's ordered ingredient list.
type Ingredient struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit,omitempty"`
}

// CookingStep is one entry in a recipe's ordered step sequence.
type CookingStep struct {
	Number          int    `json:"number"`
	Instruction     string `json:"instruction"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// Recipe is immutable once generated; the favorite flag is owned by the
// favorites collaborator and only stamped onto responses, and servings
// scaling always produces a derived copy.
type Recipe struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Cuisine             Cuisine              `json:"cuisine"`
	Difficulty          Difficulty           `json:"difficulty"`
	MealType            MealType             `json:"meal_type,omitempty"`
	PrepTimeMinutes     int                  `json:"prep_time_minutes"`
	CookTimeMinutes     int                  `json:"cook_time_minutes"`
	Servings            int                  `json:"servings"`
	Ingredients         []Ingredient         `json:"ingredients"`
	Steps               []CookingStep        `json:"steps"`
	DietaryRestrictions []DietaryRestriction `json:"dietary_restrictions,omitempty"`
	WinePairings        []string             `json:"wine_pairings,omitempty"`
	ChefNotes           string               `json:"chef_notes,omitempty"`
	PlatingTips         string               `json:"plating_tips,omitempty"`
	IsFavorite          bool                 `json:"is_favorite"`
}

// TotalTimeMinutes returns prep plus cook time.
func (r Recipe) TotalTimeMinutes() int {
	return r.PrepTimeMinutes + r.CookTimeMinutes
}

// Scaled returns a deep copy of the recipe adjusted to the requested
// servings. Ingredient quantities scale linearly; the receiver is never
// mutated so cached originals stay intact.
func (r Recipe) Scaled(servings int) Recipe {
	scaled := r
	scaled.Ingredients = make([]Ingredient, len(r.Ingredients))
	copy(scaled.Ingredients, r.Ingredients)
	scaled.Steps = make([]CookingStep, len(r.Steps))
	copy(scaled.Steps, r.Steps)
	scaled.DietaryRestrictions = append([]DietaryRestriction(nil), r.DietaryRestrictions...)
	scaled.WinePairings = append([]string(nil), r.WinePairings...)

	if servings <= 0 || servings == r.Servings || r.Servings <= 0 {
		return scaled
	}

	ratio := float64(servings) / float64(r.Servings)
	for i := range scaled.Ingredients {
		scaled.Ingredients[i].Quantity *= ratio
	}
	scaled.Servings = servings
	return scaled
}

// SatisfiesRestrictions reports whether the recipe declares every
// restriction in the given set.
func (r Recipe) SatisfiesRestrictions(restrictions []DietaryRestriction) bool {
	for _, want := range restrictions {
		found := false
		for _, have := range r.DietaryRestrictions {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// NormalizeCuisine lowercases free-form cuisine input.
func NormalizeCuisine(s string) Cuisine {
	return Cuisine(strings.ToLower(strings.TrimSpace(s)))
}
