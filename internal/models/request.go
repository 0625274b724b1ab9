package models

// Servings bounds enforced before any I/O.
const (
	MinServings = 1
	MaxServings = 20
)

// GenerationRequest describes one recipe generation call. Immutable value,
// constructed per call. Servings does not participate in cache identity
// because recipes are scaled linearly on serve.
type GenerationRequest struct {
	Cuisine             Cuisine              `json:"cuisine"`
	Difficulty          Difficulty           `json:"difficulty"`
	DietaryRestrictions []DietaryRestriction `json:"dietary_restrictions,omitempty"`
	MealType            MealType             `json:"meal_type,omitempty"`
	MaxTotalTimeMinutes int                  `json:"max_total_time_minutes,omitempty"`
	Servings            int                  `json:"servings"`
}

// Validate rejects malformed requests before fingerprinting or any I/O.
func (r *GenerationRequest) Validate() error {
	if r.Cuisine == "" {
		return NewValidationError("cuisine is required", nil)
	}
	if r.Servings < MinServings || r.Servings > MaxServings {
		return NewValidationError("servings must be between 1 and 20", nil)
	}
	if r.MaxTotalTimeMinutes < 0 {
		return NewValidationError("max_total_time_minutes cannot be negative", nil)
	}
	return nil
}

// ServeSource tags where a served result came from.
type ServeSource string

const (
	ServeSourceCache     ServeSource = "cache"
	ServeSourceBundled   ServeSource = "bundled"
	ServeSourceGenerated ServeSource = "generated"
)

// GenerationResult is the terminal Served payload for a request.
type GenerationResult struct {
	Source  ServeSource `json:"source"`
	Recipes []Recipe    `json:"recipes"`
}
