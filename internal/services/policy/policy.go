// Package policy holds the stateless cache decision functions. Nothing in
// here performs I/O; callers supply store contents and get decisions back,
// which keeps expiry and eviction behavior deterministic and testable.
package policy

import (
	"sort"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
)

// IsExpired reports whether the record's age exceeds the TTL at the given
// point in time.
func IsExpired(record *models.CachedRecipeRecord, ttl time.Duration, now time.Time) bool {
	if record == nil {
		return false
	}
	return now.Sub(record.CreatedAt) > ttl
}

// IsHit reports whether a record exists and is still fresh. Expired records
// may physically exist until the next cleanup pass but never count as hits.
func IsHit(record *models.CachedRecipeRecord, ttl time.Duration, now time.Time) bool {
	return record != nil && !IsExpired(record, ttl, now)
}

// IsOverCapacity reports whether entry count or aggregate size exceeds
// either configured ceiling. A ceiling of zero or less is treated as
// unlimited.
func IsOverCapacity(entries int, totalBytes int64, maxEntries int, maxBytes int64) bool {
	if maxEntries > 0 && entries > maxEntries {
		return true
	}
	if maxBytes > 0 && totalBytes > maxBytes {
		return true
	}
	return false
}

// SelectEvictionCandidates returns up to targetCount cache keys to evict,
// least-recently-used first with ties broken by older createdAt. Records
// containing a favorited recipe are never candidates: favorites are only
// ever removed by explicit user intent.
func SelectEvictionCandidates(records []models.CachedRecipeRecord, isProtected func(record *models.CachedRecipeRecord) bool, targetCount int) []string {
	if targetCount <= 0 {
		return nil
	}

	candidates := make([]models.CachedRecipeRecord, 0, len(records))
	for _, record := range records {
		if isProtected != nil && isProtected(&record) {
			continue
		}
		candidates = append(candidates, record)
	}

	sort.Slice(candidates, func(i, j int) bool {
		if !candidates[i].LastAccessedAt.Equal(candidates[j].LastAccessedAt) {
			return candidates[i].LastAccessedAt.Before(candidates[j].LastAccessedAt)
		}
		return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
	})

	if len(candidates) > targetCount {
		candidates = candidates[:targetCount]
	}

	keys := make([]string, len(candidates))
	for i, record := range candidates {
		keys[i] = record.CacheKey
	}
	return keys
}

// ProtectedByFavorites builds the protection predicate used during
// eviction: a record is protected when any recipe inside it is favorited.
// Favorites are cross-referenced by recipe identity, not cache key.
func ProtectedByFavorites(favoriteIDs map[string]bool) func(record *models.CachedRecipeRecord) bool {
	return func(record *models.CachedRecipeRecord) bool {
		if len(favoriteIDs) == 0 {
			return false
		}
		recipes, err := record.Recipes()
		if err != nil {
			// Undecodable payloads stay evictable.
			return false
		}
		for _, recipe := range recipes {
			if favoriteIDs[recipe.ID] {
				return true
			}
		}
		return false
	}
}
