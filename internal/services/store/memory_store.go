package store

import (
	"context"
	"sync"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
)

// MemoryStore is the zero-configuration backend. Reads and writes to
// different keys never block each other beyond the map lock; records are
// copied on the way in and out so callers can never mutate stored state.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.CachedRecipeRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.CachedRecipeRecord)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.CachedRecipeRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return &record, true, nil
}

func (s *MemoryStore) Put(_ context.Context, record *models.CachedRecipeRecord) error {
	record.SizeBytes = int64(len(record.Payload))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.CacheKey] = *record
	return nil
}

func (s *MemoryStore) Touch(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[key]
	if !ok {
		return nil
	}
	record.LastAccessedAt = time.Now()
	s.records[key] = record
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) DeleteAll(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := int64(len(s.records))
	s.records = make(map[string]models.CachedRecipeRecord)
	return removed, nil
}

func (s *MemoryStore) ListExpired(_ context.Context, ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var expired []string
	for key, record := range s.records {
		if record.CreatedAt.Before(cutoff) {
			expired = append(expired, key)
		}
	}
	return expired, nil
}

func (s *MemoryStore) List(_ context.Context) ([]models.CachedRecipeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]models.CachedRecipeRecord, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, record)
	}
	return records, nil
}
