package store

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/chefmate/chefmate-backend/internal/models"
	"github.com/chefmate/chefmate-backend/internal/utils"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "recipe_cache:"

// touchScript bumps last_accessed_at inside the stored JSON on the server
// side. A read-modify-write from the client could race a concurrent Put and
// write a stale payload back; the script only ever rewrites the one field.
const touchScript = `
local raw = redis.call('GET', KEYS[1])
if not raw then
	return 0
end
local record = cjson.decode(raw)
record['last_accessed_at'] = ARGV[1]
redis.call('SET', KEYS[1], cjson.encode(record))
return 1
`

// redisRecord is the wire form of a cache record. The model keeps its raw
// payload out of JSON for API responses, so the store spells out every
// field it persists.
type redisRecord struct {
	CacheKey       string              `json:"cache_key"`
	Payload        string              `json:"payload"`
	SizeBytes      int64               `json:"size_bytes"`
	Source         models.RecordSource `json:"source"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
}

func toWire(record *models.CachedRecipeRecord) redisRecord {
	return redisRecord{
		CacheKey:       record.CacheKey,
		Payload:        record.Payload,
		SizeBytes:      record.SizeBytes,
		Source:         record.Source,
		CreatedAt:      record.CreatedAt,
		LastAccessedAt: record.LastAccessedAt,
	}
}

func (w redisRecord) toModel() models.CachedRecipeRecord {
	return models.CachedRecipeRecord{
		CacheKey:       w.CacheKey,
		Payload:        w.Payload,
		SizeBytes:      w.SizeBytes,
		Source:         w.Source,
		CreatedAt:      w.CreatedAt,
		LastAccessedAt: w.LastAccessedAt,
	}
}

// RedisStore keeps one JSON-encoded record per cache key under a common
// prefix. Expiry stays under policy-engine control (no redis TTLs), so
// expired records remain listable until the next cleanup pass, exactly as
// the database backend behaves.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (*models.CachedRecipeRecord, bool, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, models.NewStorageError("get", err)
	}

	var wire redisRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, false, models.NewStorageError("get", err)
	}
	record := wire.toModel()
	return &record, true, nil
}

func (s *RedisStore) Put(ctx context.Context, record *models.CachedRecipeRecord) error {
	record.SizeBytes = int64(len(record.Payload))

	buf := utils.Get()
	defer utils.Put(buf)
	if err := json.NewEncoder(buf).Encode(toWire(record)); err != nil {
		return models.NewStorageError("put", err)
	}

	if err := s.client.Set(ctx, s.redisKey(record.CacheKey), buf.Bytes(), 0).Err(); err != nil {
		return models.NewStorageError("put", err)
	}
	return nil
}

func (s *RedisStore) Touch(ctx context.Context, key string) error {
	stamp := time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.client.Eval(ctx, touchScript, []string{s.redisKey(key)}, stamp).Err(); err != nil {
		return models.NewStorageError("touch", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return models.NewStorageError("delete", err)
	}
	return nil
}

func (s *RedisStore) DeleteAll(ctx context.Context) (int64, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return 0, err
	}
	if len(keys) == 0 {
		return 0, nil
	}
	removed, err := s.client.Del(ctx, keys...).Result()
	if err != nil {
		return 0, models.NewStorageError("delete_all", err)
	}
	return removed, nil
}

func (s *RedisStore) ListExpired(ctx context.Context, ttl time.Duration) ([]string, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().Add(-ttl)
	var expired []string
	for _, record := range records {
		if record.CreatedAt.Before(cutoff) {
			expired = append(expired, record.CacheKey)
		}
	}
	return expired, nil
}

func (s *RedisStore) List(ctx context.Context) ([]models.CachedRecipeRecord, error) {
	keys, err := s.scanKeys(ctx)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, models.NewStorageError("list", err)
	}

	records := make([]models.CachedRecipeRecord, 0, len(values))
	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			// Key deleted between SCAN and MGET.
			continue
		}
		var wire redisRecord
		if err := json.Unmarshal([]byte(raw), &wire); err != nil {
			return nil, models.NewStorageError("list", err)
		}
		records = append(records, wire.toModel())
	}
	return records, nil
}

func (s *RedisStore) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if strings.HasPrefix(key, s.prefix) {
			keys = append(keys, key)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, models.NewStorageError("scan", err)
	}
	return keys, nil
}
