// Package favorites owns the user's favorited recipes. The policy engine
// consults it before eviction: a favorited recipe is never evicted
// automatically, only removed by explicit user intent.
package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the favorites collaborator contract the orchestrator and API
// depend on. Favorites are keyed by recipe identity, not cache key.
type Service interface {
	Add(ctx context.Context, recipe models.Recipe) error
	Remove(ctx context.Context, recipeID string) error
	IsFavorite(ctx context.Context, recipeID string) (bool, error)
	ListIDs(ctx context.Context) (map[string]bool, error)
	List(ctx context.Context) ([]models.Recipe, error)
}

// FavoriteRecipe is the persisted favorite row.
type FavoriteRecipe struct {
	RecipeID  string    `gorm:"primaryKey;size:64" json:"recipe_id"`
	Payload   string    `gorm:"type:text;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (FavoriteRecipe) TableName() string {
	return "favorite_recipes"
}

// GormService persists favorites through GORM.
type GormService struct {
	db *gorm.DB
}

func NewGormService(db *database.DB) (*GormService, error) {
	if err := db.AutoMigrate(&FavoriteRecipe{}); err != nil {
		return nil, fmt.Errorf("failed to migrate favorite_recipes table: %w", err)
	}
	return &GormService{db: db.DB}, nil
}

func (s *GormService) Add(ctx context.Context, recipe models.Recipe) error {
	if recipe.ID == "" {
		return models.NewValidationError("recipe id is required", nil)
	}
	payload, err := json.Marshal(recipe)
	if err != nil {
		return models.NewStorageError("favorite_add", err)
	}
	row := FavoriteRecipe{RecipeID: recipe.ID, Payload: string(payload), CreatedAt: time.Now()}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipe_id"}},
		UpdateAll: true,
	}).Create(&row).Error
	if err != nil {
		return models.NewStorageError("favorite_add", err)
	}
	return nil
}

func (s *GormService) Remove(ctx context.Context, recipeID string) error {
	err := s.db.WithContext(ctx).Delete(&FavoriteRecipe{}, "recipe_id = ?", recipeID).Error
	if err != nil {
		return models.NewStorageError("favorite_remove", err)
	}
	return nil
}

func (s *GormService) IsFavorite(ctx context.Context, recipeID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&FavoriteRecipe{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error
	if err != nil {
		return false, models.NewStorageError("favorite_lookup", err)
	}
	return count > 0, nil
}

func (s *GormService) ListIDs(ctx context.Context) (map[string]bool, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&FavoriteRecipe{}).Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, models.NewStorageError("favorite_list", err)
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func (s *GormService) List(ctx context.Context) ([]models.Recipe, error) {
	var rows []FavoriteRecipe
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, models.NewStorageError("favorite_list", err)
	}
	recipes := make([]models.Recipe, 0, len(rows))
	for _, row := range rows {
		var recipe models.Recipe
		if err := json.Unmarshal([]byte(row.Payload), &recipe); err != nil {
			return nil, models.NewStorageError("favorite_list", err)
		}
		recipe.IsFavorite = true
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

// MemoryService keeps favorites in memory. Used when no database is
// configured and as the collaborator double in tests.
type MemoryService struct {
	mu      sync.RWMutex
	recipes map[string]models.Recipe
}

func NewMemoryService() *MemoryService {
	return &MemoryService{recipes: make(map[string]models.Recipe)}
}

func (s *MemoryService) Add(_ context.Context, recipe models.Recipe) error {
	if recipe.ID == "" {
		return models.NewValidationError("recipe id is required", nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[recipe.ID] = recipe
	return nil
}

func (s *MemoryService) Remove(_ context.Context, recipeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.recipes, recipeID)
	return nil
}

func (s *MemoryService) IsFavorite(_ context.Context, recipeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.recipes[recipeID]
	return ok, nil
}

func (s *MemoryService) ListIDs(_ context.Context) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[string]bool, len(s.recipes))
	for id := range s.recipes {
		set[id] = true
	}
	return set, nil
}

func (s *MemoryService) List(_ context.Context) ([]models.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recipes := make([]models.Recipe, 0, len(s.recipes))
	for _, recipe := range s.recipes {
		recipe.IsFavorite = true
		recipes = append(recipes, recipe)
	}
	return recipes, nil
}

var _ Service = (*GormService)(nil)

var _ Service = (*MemoryService)(nil)
