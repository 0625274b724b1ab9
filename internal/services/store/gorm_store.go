package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists recipe records through GORM (sqlite, postgres or mysql).
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates the store and migrates its table.
func NewGormStore(db *database.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&models.CachedRecipeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate recipe_cache table: %w", err)
	}
	return &GormStore{db: db.DB}, nil
}

func (s *GormStore) Get(ctx context.Context, key string) (*models.CachedRecipeRecord, bool, error) {
	var record models.CachedRecipeRecord
	err := s.db.WithContext(ctx).First(&record, "cache_key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, models.NewStorageError("get", err)
	}
	return &record, true, nil
}

func (s *GormStore) Put(ctx context.Context, record *models.CachedRecipeRecord) error {
	record.SizeBytes = int64(len(record.Payload))
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		UpdateAll: true,
	}).Create(record).Error
	if err != nil {
		return models.NewStorageError("put", err)
	}
	return nil
}

func (s *GormStore) Touch(ctx context.Context, key string) error {
	// No-op when the key is absent: UPDATE simply matches zero rows.
	err := s.db.WithContext(ctx).
		Model(&models.CachedRecipeRecord{}).
		Where("cache_key = ?", key).
		Update("last_accessed_at", time.Now()).Error
	if err != nil {
		return models.NewStorageError("touch", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).Delete(&models.CachedRecipeRecord{}, "cache_key = ?", key).Error
	if err != nil {
		return models.NewStorageError("delete", err)
	}
	return nil
}

func (s *GormStore) DeleteAll(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.CachedRecipeRecord{})
	if result.Error != nil {
		return 0, models.NewStorageError("delete_all", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) ListExpired(ctx context.Context, ttl time.Duration) ([]string, error) {
	cutoff := time.Now().Add(-ttl)
	var keys []string
	err := s.db.WithContext(ctx).
		Model(&models.CachedRecipeRecord{}).
		Where("created_at < ?", cutoff).
		Pluck("cache_key", &keys).Error
	if err != nil {
		return nil, models.NewStorageError("list_expired", err)
	}
	return keys, nil
}

func (s *GormStore) List(ctx context.Context) ([]models.CachedRecipeRecord, error) {
	var records []models.CachedRecipeRecord
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, models.NewStorageError("list", err)
	}
	return records, nil
}
