// Package fingerprint derives the deterministic cache key for a generation
// request. Determinism across process restarts is what makes cache hits
// possible at all, so the normalization rules here are load-bearing: sorted
// restriction names, sentinel tokens for absent optionals, canonical enum
// names rather than ordinals. Servings is deliberately excluded because
// recipes are scaled linearly on serve.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/chefmate/chefmate-backend/internal/models"
)

// sentinel stands in for absent optional fields so that "no meal type" and
// "no time budget" normalize identically on every call.
const sentinel = "any"

const separator = "|"

// Key returns the cache key for the request. Pure and total: it never fails
// and equal normalized inputs always produce equal keys.
func Key(req models.GenerationRequest) string {
	sum := sha256.Sum256([]byte(Normalize(req)))
	return hex.EncodeToString(sum[:])
}

// Normalize returns the canonical string form the key is hashed from.
// Exposed separately so tests can assert on the exact normalization.
func Normalize(req models.GenerationRequest) string {
	restrictions := make([]string, 0, len(req.DietaryRestrictions))
	for _, r := range req.DietaryRestrictions {
		restrictions = append(restrictions, string(r))
	}
	sort.Strings(restrictions)

	cuisine := string(req.Cuisine)
	if cuisine == "" {
		cuisine = sentinel
	}
	difficulty := string(req.Difficulty)
	if difficulty == "" {
		difficulty = sentinel
	}
	mealType := string(req.MealType)
	if mealType == "" {
		mealType = sentinel
	}
	maxTime := sentinel
	if req.MaxTotalTimeMinutes > 0 {
		maxTime = strconv.Itoa(req.MaxTotalTimeMinutes)
	}

	parts := []string{
		strings.ToLower(cuisine),
		strings.ToLower(difficulty),
		strings.Join(restrictions, ","),
		strings.ToLower(mealType),
		maxTime,
	}
	return strings.Join(parts, separator)
}
