// Package store implements the durable keyed recipe store. It holds no
// business logic: expiry and eviction decisions live in the policy package,
// and the orchestrator issues store commands rather than mutating records.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/database"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

// Store is durable keyed storage of recipe records plus per-record metadata.
//
// Get never bumps recency; the orchestrator calls Touch explicitly on a
// confirmed hit. Put is an upsert that recomputes SizeBytes and must leave
// prior state for the key unchanged when it fails. All I/O failures surface
// as AppError of category storage, never as a silent miss.
type Store interface {
	Get(ctx context.Context, key string) (*models.CachedRecipeRecord, bool, error)
	Put(ctx context.Context, record *models.CachedRecipeRecord) error
	Touch(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
	DeleteAll(ctx context.Context) (int64, error)
	ListExpired(ctx context.Context, ttl time.Duration) ([]string, error)
	List(ctx context.Context) ([]models.CachedRecipeRecord, error)
}

// New creates the store backend selected by configuration.
func New(cfg models.CacheConfig, db *database.DB, redisClient *redis.Client) (Store, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = models.CacheBackendMemory
		fiberlog.Warn("RecipeStore: backend not specified, defaulting to memory")
	}

	switch backend {
	case models.CacheBackendMemory:
		fiberlog.Info("RecipeStore: using in-memory backend")
		return NewMemoryStore(), nil

	case models.CacheBackendRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis backend selected but no redis client configured")
		}
		fiberlog.Info("RecipeStore: using redis backend")
		return NewRedisStore(redisClient, cfg.KeyPrefix), nil

	case models.CacheBackendDatabase:
		if db == nil {
			return nil, fmt.Errorf("database backend selected but no database configured")
		}
		fiberlog.Infof("RecipeStore: using database backend (%s)", db.DriverName())
		return NewGormStore(db)

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s (supported: database, redis, memory)", backend)
	}
}
