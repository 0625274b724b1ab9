package policy

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(key string, createdAt, lastAccessedAt time.Time, recipeIDs ...string) models.CachedRecipeRecord {
	recipes := make([]models.Recipe, len(recipeIDs))
	for i, id := range recipeIDs {
		recipes[i] = models.Recipe{ID: id, Name: "dish " + id, Servings: 2}
	}
	payload, _ := json.Marshal(recipes)
	return models.CachedRecipeRecord{
		CacheKey:       key,
		Payload:        string(payload),
		SizeBytes:      int64(len(payload)),
		Source:         models.RecordSourceGenerated,
		CreatedAt:      createdAt,
		LastAccessedAt: lastAccessedAt,
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	ttl := 30 * 24 * time.Hour

	fresh := record("fresh", now.Add(-time.Hour), now)
	stale := record("stale", now.Add(-31*24*time.Hour), now)

	assert.False(t, IsExpired(&fresh, ttl, now))
	assert.True(t, IsExpired(&stale, ttl, now))
	assert.False(t, IsExpired(nil, ttl, now))
}

func TestIsHit(t *testing.T) {
	now := time.Now()
	ttl := time.Hour

	rec := record("k", now, now)
	assert.True(t, IsHit(&rec, ttl, now))
	assert.True(t, IsHit(&rec, ttl, now.Add(59*time.Minute)))
	assert.False(t, IsHit(&rec, ttl, now.Add(2*time.Hour)), "record past TTL is never a hit")
	assert.False(t, IsHit(nil, ttl, now))
}

func TestIsOverCapacity(t *testing.T) {
	tests := []struct {
		name       string
		entries    int
		totalBytes int64
		maxEntries int
		maxBytes   int64
		want       bool
	}{
		{"under both", 5, 1000, 10, 2000, false},
		{"at entry limit", 10, 1000, 10, 2000, false},
		{"over entry limit", 11, 1000, 10, 2000, true},
		{"over byte limit", 5, 3000, 10, 2000, true},
		{"unlimited entries", 1000, 10, 0, 2000, false},
		{"unlimited bytes", 5, 1 << 40, 10, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverCapacity(tt.entries, tt.totalBytes, tt.maxEntries, tt.maxBytes))
		})
	}
}

func TestSelectEvictionCandidatesLRUOrder(t *testing.T) {
	now := time.Now()
	records := []models.CachedRecipeRecord{
		record("newest", now, now),
		record("oldest", now, now.Add(-3*time.Hour)),
		record("middle", now, now.Add(-1*time.Hour)),
	}

	keys := SelectEvictionCandidates(records, nil, 2)
	assert.Equal(t, []string{"oldest", "middle"}, keys)
}

func TestSelectEvictionCandidatesTieBreakByCreatedAt(t *testing.T) {
	now := time.Now()
	accessed := now.Add(-time.Hour)
	records := []models.CachedRecipeRecord{
		record("younger", now.Add(-time.Hour), accessed),
		record("elder", now.Add(-2*time.Hour), accessed),
	}

	keys := SelectEvictionCandidates(records, nil, 1)
	assert.Equal(t, []string{"elder"}, keys)
}

func TestSelectEvictionCandidatesSkipsFavorites(t *testing.T) {
	now := time.Now()
	var records []models.CachedRecipeRecord
	// One favorited plus nine non-favorited records, all equally stale.
	records = append(records, record("favored", now.Add(-10*time.Hour), now.Add(-10*time.Hour), "fav-recipe"))
	for i := range 9 {
		key := fmt.Sprintf("plain-%d", i)
		records = append(records, record(key, now.Add(-10*time.Hour), now.Add(-time.Duration(i)*time.Hour), "r-"+key))
	}

	protected := ProtectedByFavorites(map[string]bool{"fav-recipe": true})
	keys := SelectEvictionCandidates(records, protected, 10)

	require.Len(t, keys, 9)
	assert.NotContains(t, keys, "favored")
}

func TestSelectEvictionCandidatesStopsAtTarget(t *testing.T) {
	now := time.Now()
	records := []models.CachedRecipeRecord{
		record("a", now, now.Add(-3*time.Hour)),
		record("b", now, now.Add(-2*time.Hour)),
		record("c", now, now.Add(-1*time.Hour)),
	}

	assert.Len(t, SelectEvictionCandidates(records, nil, 1), 1)
	assert.Empty(t, SelectEvictionCandidates(records, nil, 0))
	assert.Len(t, SelectEvictionCandidates(records, nil, 10), 3, "selection stops when candidates are exhausted")
}

func TestProtectedByFavoritesMatchesRecipeIdentity(t *testing.T) {
	now := time.Now()
	rec := record("k", now, now, "r1", "r2")

	assert.True(t, ProtectedByFavorites(map[string]bool{"r2": true})(&rec))
	assert.False(t, ProtectedByFavorites(map[string]bool{"other": true})(&rec))
	assert.False(t, ProtectedByFavorites(nil)(&rec))
}
