// Package orchestrator owns the serve pipeline: validate, fingerprint,
// then try the cache, the bundled set, and finally remote generation.
// It issues commands to its collaborators and holds no storage or retry
// logic of its own.
package orchestrator

import (
	"context"
	"time"

	"github.com/chefmate/chefmate-backend/internal/fingerprint"
	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/services/bundled"
	"github.com/chefmate/chefmate-backend/internal/services/favorites"
	"github.com/chefmate/chefmate-backend/internal/services/generator"
	"github.com/chefmate/chefmate-backend/internal/services/policy"
	"github.com/chefmate/chefmate-backend/internal/services/store"

	fiberlog "github.com/gofiber/fiber/v2/log"
	"golang.org/x/sync/singleflight"
)

// Orchestrator coordinates one Generate call across the recipe store, the
// bundled recipe set, favorites and the remote generator chain.
type Orchestrator struct {
	store     store.Store
	bundled   *bundled.Database
	favorites favorites.Service
	generator generator.Generator
	cacheCfg  models.CacheConfig
	group     singleflight.Group
	now       func() time.Time
}

func New(
	recipeStore store.Store,
	bundledDB *bundled.Database,
	favoritesService favorites.Service,
	gen generator.Generator,
	cacheCfg models.CacheConfig,
) *Orchestrator {
	return &Orchestrator{
		store:     recipeStore,
		bundled:   bundledDB,
		favorites: favoritesService,
		generator: gen,
		cacheCfg:  cacheCfg,
		now:       time.Now,
	}
}

// Generate serves recipes for the request. Tier order is cache, bundled,
// remote; the first tier that can answer wins. Only remotely generated
// results are written to the cache: bundled recipes are already durable.
func (o *Orchestrator) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := fingerprint.Key(req)

	record, found, err := o.store.Get(ctx, key)
	if err != nil {
		// Storage faults surface; they are never downgraded to misses.
		return nil, err
	}

	if found && policy.IsHit(record, o.cacheCfg.TTL(), o.now()) {
		recipes, err := record.Recipes()
		if err != nil {
			return nil, models.NewStorageError("payload decode", err)
		}
		if err := o.store.Touch(ctx, key); err != nil {
			// Recency is advisory; a failed bump must not turn a hit into an error.
			fiberlog.Warnf("Orchestrator: touch failed for %s: %v", key, err)
		}
		fiberlog.Debugf("Orchestrator: cache hit for %s", key)
		return o.serve(ctx, models.ServeSourceCache, recipes, req), nil
	}

	if matches := o.bundled.Query(req); len(matches) > 0 {
		fiberlog.Debugf("Orchestrator: serving %d bundled recipes for %s", len(matches), key)
		return o.serve(ctx, models.ServeSourceBundled, matches, req), nil
	}

	if o.generator == nil {
		return nil, models.NewNoMatchError()
	}

	recipes, err := o.generateOnce(ctx, key, req)
	if err != nil {
		return nil, err
	}
	return o.serve(ctx, models.ServeSourceGenerated, recipes, req), nil
}

// generateOnce coalesces concurrent misses on the same key into a single
// remote call. The shared call is detached from any one caller's context
// so an abandoned waiter cannot cancel work other waiters depend on; its
// cache write stands regardless.
func (o *Orchestrator) generateOnce(ctx context.Context, key string, req models.GenerationRequest) ([]models.Recipe, error) {
	ch := o.group.DoChan(key, func() (any, error) {
		detached := context.WithoutCancel(ctx)
		recipes, err := o.generator.Generate(detached, req, 0)
		if err != nil {
			return nil, err
		}
		o.cacheGenerated(detached, key, recipes)
		return recipes, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]models.Recipe), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// cacheGenerated writes a freshly generated record, evicting first when the
// write would push the cache over capacity. A failed write is logged and
// swallowed: the caller already holds the recipes and serving them beats
// failing the request over a cache fault.
func (o *Orchestrator) cacheGenerated(ctx context.Context, key string, recipes []models.Recipe) {
	record, err := models.NewCachedRecipeRecord(key, recipes, models.RecordSourceGenerated, o.now())
	if err != nil {
		fiberlog.Errorf("Orchestrator: failed to encode record for %s: %v", key, err)
		return
	}

	if err := o.evictForCapacity(ctx, record.CacheKey, record.SizeBytes); err != nil {
		fiberlog.Warnf("Orchestrator: eviction pass failed before caching %s: %v", key, err)
	}

	if err := o.store.Put(ctx, record); err != nil {
		fiberlog.Errorf("Orchestrator: failed to cache generated recipes for %s: %v", key, err)
		return
	}
	fiberlog.Infof("Orchestrator: cached %d generated recipes under %s", len(recipes), key)
}

// evictForCapacity deletes least-recently-used records until the incoming
// record fits within the configured ceilings. Writing to an existing key is
// an upsert, so that key's current record counts as replaced, never as a
// second entry, and is itself never an eviction candidate. Records holding
// a favorited recipe are never evicted; if protection leaves the cache over
// capacity the write proceeds anyway.
func (o *Orchestrator) evictForCapacity(ctx context.Context, incomingKey string, incomingBytes int64) error {
	maxEntries := o.cacheCfg.MaxEntries
	maxBytes := o.cacheCfg.MaxSizeBytes
	if maxEntries <= 0 && maxBytes <= 0 {
		return nil
	}

	records, err := o.store.List(ctx)
	if err != nil {
		return err
	}

	entries := len(records)
	totalBytes := incomingBytes
	keyExists := false
	sizeByKey := make(map[string]int64, len(records))
	for _, record := range records {
		if record.CacheKey == incomingKey {
			keyExists = true
			continue
		}
		totalBytes += record.SizeBytes
		sizeByKey[record.CacheKey] = record.SizeBytes
	}
	if !keyExists {
		entries++
	}

	if !policy.IsOverCapacity(entries, totalBytes, maxEntries, maxBytes) {
		return nil
	}

	favoriteIDs, err := o.favorites.ListIDs(ctx)
	if err != nil {
		fiberlog.Warnf("Orchestrator: favorites lookup failed, evicting without protection: %v", err)
		favoriteIDs = nil
	}

	isProtected := func(record *models.CachedRecipeRecord) bool {
		return record.CacheKey == incomingKey || policy.ProtectedByFavorites(favoriteIDs)(record)
	}
	candidates := policy.SelectEvictionCandidates(records, isProtected, len(records))
	for _, candidateKey := range candidates {
		if !policy.IsOverCapacity(entries, totalBytes, maxEntries, maxBytes) {
			break
		}
		if err := o.store.Delete(ctx, candidateKey); err != nil {
			return err
		}
		fiberlog.Debugf("Orchestrator: evicted %s", candidateKey)
		entries--
		totalBytes -= sizeByKey[candidateKey]
	}

	if policy.IsOverCapacity(entries, totalBytes, maxEntries, maxBytes) {
		fiberlog.Warnf("Orchestrator: cache remains over capacity after eviction, favorites are protected")
	}
	return nil
}

// serve scales each recipe to the requested servings and stamps favorite
// flags. Scaling copies; cached originals are never mutated.
func (o *Orchestrator) serve(ctx context.Context, source models.ServeSource, recipes []models.Recipe, req models.GenerationRequest) *models.GenerationResult {
	favoriteIDs, err := o.favorites.ListIDs(ctx)
	if err != nil {
		fiberlog.Warnf("Orchestrator: favorites lookup failed, serving without flags: %v", err)
		favoriteIDs = nil
	}

	served := make([]models.Recipe, len(recipes))
	for i, recipe := range recipes {
		scaled := recipe.Scaled(req.Servings)
		scaled.IsFavorite = favoriteIDs[scaled.ID]
		served[i] = scaled
	}
	return &models.GenerationResult{Source: source, Recipes: served}
}
