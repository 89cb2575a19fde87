package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest.
// A nil client reports a miss, so callers work without Redis wired in.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	if rdb == nil {
		return false, nil // Caching disabled
	}
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// CacheVersion returns the current cache generation for a user.
// Read handlers mix the generation into their keys; write handlers bump it,
// which invalidates every cached aggregate for that user at once.
func CacheVersion(ctx context.Context, rdb *redis.Client, userID string) int64 {
	if rdb == nil {
		return 0 // Caching disabled
	}
	v, err := rdb.Get(ctx, "ledger:ver:"+userID).Int64()
	if err != nil {
		return 0 // Missing key or Redis error both mean generation zero
	}
	return v
}

// BumpCacheVersion advances a user's cache generation after a write
func BumpCacheVersion(ctx context.Context, rdb *redis.Client, userID string) error {
	if rdb == nil {
		return nil // Caching disabled
	}
	return rdb.Incr(ctx, "ledger:ver:"+userID).Err()
}
