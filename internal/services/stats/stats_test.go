package stats

import (
	"context"
	"testing"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedRecord(t *testing.T, s store.Store, key string, source models.RecordSource, age time.Duration) {
	t.Helper()
	recipes := []models.Recipe{{
		ID:          "recipe-" + key,
		Name:        "Recipe " + key,
		Cuisine:     models.CuisineThai,
		Servings:    2,
		Ingredients: []models.Ingredient{{Name: "rice", Quantity: 200, Unit: "g"}},
		Steps:       []models.CookingStep{{Number: 1, Instruction: "Cook."}},
	}}
	record, err := models.NewCachedRecipeRecord(key, recipes, source, time.Now().Add(-age))
	require.NoError(t, err)
	require.NoError(t, s.Put(context.Background(), record))
}

func TestComputeEmptyStore(t *testing.T) {
	svc := New(store.NewMemoryStore(), models.DefaultCacheConfig().TTL())

	stats, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRecords)
	assert.Zero(t, stats.TotalSizeBytes)
	assert.Zero(t, stats.OldestRecordAgeSec)
	assert.Zero(t, stats.NewestRecordAgeSec)
	assert.Empty(t, stats.CountBySource)
	assert.False(t, stats.ComputedAt.IsZero())
}

func TestComputeAggregates(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := New(memStore, models.DefaultCacheConfig().TTL())

	seedRecord(t, memStore, "a", models.RecordSourceGenerated, 48*time.Hour)
	seedRecord(t, memStore, "b", models.RecordSourceGenerated, 24*time.Hour)
	seedRecord(t, memStore, "c", models.RecordSourceBundled, time.Hour)

	stats, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRecords)
	assert.Positive(t, stats.TotalSizeBytes)
	assert.Equal(t, 2, stats.CountBySource[models.RecordSourceGenerated])
	assert.Equal(t, 1, stats.CountBySource[models.RecordSourceBundled])
	assert.Greater(t, stats.OldestRecordAgeSec, stats.NewestRecordAgeSec)
	assert.InDelta(t, (48 * time.Hour).Seconds(), float64(stats.OldestRecordAgeSec), 5)
	assert.InDelta(t, time.Hour.Seconds(), float64(stats.NewestRecordAgeSec), 5)
}

func TestCleanExpiredRemovesOnlyStaleRecords(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := New(memStore, models.DefaultCacheConfig().TTL())

	seedRecord(t, memStore, "stale", models.RecordSourceGenerated, 40*24*time.Hour)
	seedRecord(t, memStore, "aging", models.RecordSourceGenerated, 10*24*time.Hour)
	seedRecord(t, memStore, "fresh", models.RecordSourceGenerated, 24*time.Hour)

	removed, err := svc.CleanExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, found, err := memStore.Get(context.Background(), "stale")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = memStore.Get(context.Background(), "aging")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestClearAll(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := New(memStore, models.DefaultCacheConfig().TTL())

	seedRecord(t, memStore, "a", models.RecordSourceGenerated, time.Hour)
	seedRecord(t, memStore, "b", models.RecordSourceGenerated, time.Hour)

	removed, err := svc.ClearAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	stats, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRecords)
}

func TestRemoveByCacheKey(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := New(memStore, models.DefaultCacheConfig().TTL())

	seedRecord(t, memStore, "target", models.RecordSourceGenerated, time.Hour)
	require.NoError(t, svc.Remove(context.Background(), "target"))

	_, found, err := memStore.Get(context.Background(), "target")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveByRecipeID(t *testing.T) {
	memStore := store.NewMemoryStore()
	svc := New(memStore, models.DefaultCacheConfig().TTL())

	seedRecord(t, memStore, "holder", models.RecordSourceGenerated, time.Hour)
	require.NoError(t, svc.Remove(context.Background(), "recipe-holder"))

	_, found, err := memStore.Get(context.Background(), "holder")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRemoveUnknownIsNotFound(t *testing.T) {
	svc := New(store.NewMemoryStore(), models.DefaultCacheConfig().TTL())

	err := svc.Remove(context.Background(), "missing")
	assert.True(t, models.IsErrorType(err, models.ErrorTypeNotFound))
}
