// Package stats is the cache maintenance and reporting surface: statistics
// snapshots, expired-record cleanup and explicit removal. It reads through
// the store interface and never caches its own output.
package stats

import (
	"context"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/store"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Service computes statistics over and performs maintenance on the recipe
// store.
type Service struct {
	store store.Store
	ttl   time.Duration
	now   func() time.Time
}

func New(recipeStore store.Store, ttl time.Duration) *Service {
	return &Service{store: recipeStore, ttl: ttl, now: time.Now}
}

// Compute takes a fresh statistics snapshot in a single pass over the
// store. An empty store yields zero ages, not errors.
func (s *Service) Compute(ctx context.Context) (*models.CacheStatistics, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &models.CacheStatistics{
		TotalRecords:  len(records),
		CountBySource: make(map[models.RecordSource]int),
		ComputedAt:    now,
	}

	var oldest, newest time.Time
	for _, record := range records {
		stats.TotalSizeBytes += record.SizeBytes
		stats.CountBySource[record.Source]++
		if oldest.IsZero() || record.CreatedAt.Before(oldest) {
			oldest = record.CreatedAt
		}
		if newest.IsZero() || record.CreatedAt.After(newest) {
			newest = record.CreatedAt
		}
	}

	if !oldest.IsZero() {
		stats.OldestRecordAgeSec = int64(now.Sub(oldest).Seconds())
		stats.NewestRecordAgeSec = int64(now.Sub(newest).Seconds())
	}
	return stats, nil
}

// CleanExpired deletes every record older than the TTL and returns how many
// were removed.
func (s *Service) CleanExpired(ctx context.Context) (int, error) {
	keys, err := s.store.ListExpired(ctx, s.ttl)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if err := s.store.Delete(ctx, key); err != nil {
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		fiberlog.Infof("CacheStats: cleaned %d expired records", removed)
	}
	return removed, nil
}

// ClearAll empties the recipe store and returns the number of records
// removed.
func (s *Service) ClearAll(ctx context.Context) (int64, error) {
	removed, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	fiberlog.Infof("CacheStats: cleared %d records", removed)
	return removed, nil
}

// Remove deletes one record by cache key, or by the ID of any recipe it
// contains. The key form is the fast path; the recipe-ID form scans record
// payloads because clients know recipe identity, not fingerprints.
func (s *Service) Remove(ctx context.Context, keyOrRecipeID string) error {
	record, found, err := s.store.Get(ctx, keyOrRecipeID)
	if err != nil {
		return err
	}
	if found && record != nil {
		return s.store.Delete(ctx, keyOrRecipeID)
	}

	records, err := s.store.List(ctx)
	if err != nil {
		return err
	}
	for _, candidate := range records {
		recipes, err := candidate.Recipes()
		if err != nil {
			fiberlog.Warnf("CacheStats: skipping undecodable record %s: %v", candidate.CacheKey, err)
			continue
		}
		for _, recipe := range recipes {
			if recipe.ID == keyOrRecipeID {
				return s.store.Delete(ctx, candidate.CacheKey)
			}
		}
	}
	return models.NewNotFoundError("cache record")
}
