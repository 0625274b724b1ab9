package models

import "time"

// CacheBackend selects the recipe store implementation.
type CacheBackend string

const (
	CacheBackendDatabase CacheBackend = "database"
	CacheBackendRedis    CacheBackend = "redis"
	CacheBackendMemory   CacheBackend = "memory"
)

// CacheConfig holds recipe cache configuration.
type CacheConfig struct {
	Backend      CacheBackend `yaml:"backend" json:"backend"`
	TTLDays      int          `yaml:"ttl_days,omitempty" json:"ttl_days,omitempty"`
	MaxEntries   int          `yaml:"max_entries,omitempty" json:"max_entries,omitempty"`
	MaxSizeBytes int64        `yaml:"max_size_bytes,omitempty" json:"max_size_bytes,omitempty"`
	RedisURL     string       `yaml:"redis_url,omitempty" json:"redis_url,omitempty"`
	KeyPrefix    string       `yaml:"key_prefix,omitempty" json:"key_prefix,omitempty"`
}

// Reference behavior: records older than 30 days never count as hits.
const (
	DefaultTTLDays      = 30
	DefaultMaxEntries   = 100
	DefaultMaxSizeBytes = 10 << 20
)

// DefaultCacheConfig returns default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Backend:      CacheBackendMemory,
		TTLDays:      DefaultTTLDays,
		MaxEntries:   DefaultMaxEntries,
		MaxSizeBytes: DefaultMaxSizeBytes,
		KeyPrefix:    "recipe_cache:",
	}
}

// TTL converts the configured TTL to a duration, falling back to the default.
func (c CacheConfig) TTL() time.Duration {
	days := c.TTLDays
	if days <= 0 {
		days = DefaultTTLDays
	}
	return time.Duration(days) * 24 * time.Hour
}
