package models

import (
	"encoding/json"
	"time"
)

// RecordSource tags how a cached record came to exist.
type RecordSource string

const (
	RecordSourceGenerated RecordSource = "generated"
	RecordSourceBundled   RecordSource = "bundled"
)

// CachedRecipeRecord wraps the recipes produced for one cache key plus the
// metadata the policy engine decides on. Records are owned exclusively by
// the recipe store: the orchestrator only issues store commands.
type CachedRecipeRecord struct {
	CacheKey       string       `gorm:"primaryKey;size:64" json:"cache_key"`
	Payload        string       `gorm:"type:text;not null" json:"-"`
	SizeBytes      int64        `gorm:"not null" json:"size_bytes"`
	Source         RecordSource `gorm:"size:16;not null;index" json:"source"`
	CreatedAt      time.Time    `gorm:"index" json:"created_at"`
	LastAccessedAt time.Time    `gorm:"index" json:"last_accessed_at"`
}

func (CachedRecipeRecord) TableName() string {
	return "recipe_cache"
}

// Recipes decodes the record payload.
func (r *CachedRecipeRecord) Recipes() ([]Recipe, error) {
	var recipes []Recipe
	if err := json.Unmarshal([]byte(r.Payload), &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// NewCachedRecipeRecord builds a record for the given key and recipes,
// stamping createdAt = lastAccessedAt = now. SizeBytes is filled by the
// store on Put.
func NewCachedRecipeRecord(key string, recipes []Recipe, source RecordSource, now time.Time) (*CachedRecipeRecord, error) {
	payload, err := json.Marshal(recipes)
	if err != nil {
		return nil, err
	}
	return &CachedRecipeRecord{
		CacheKey:       key,
		Payload:        string(payload),
		SizeBytes:      int64(len(payload)),
		Source:         source,
		CreatedAt:      now,
		LastAccessedAt: now,
	}, nil
}
