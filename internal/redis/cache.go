package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"chat-threads/internal/domain/thread"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - threads:{user_id}:version - generation counter, bumped by every write
// - threads:{user_id}:v{version} - thread list cached under one generation

// CacheConfig contains configuration for caching
type CacheConfig struct {
	ThreadListTTL time.Duration
}

// DefaultCacheConfig returns sensible defaults
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ThreadListTTL: 5 * time.Minute,
	}
}

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	config CacheConfig
}

// NewCacheStore falls back to DefaultCacheConfig for a non-positive TTL.
func NewCacheStore(client *goredis.Client, config CacheConfig) *CacheStore {
	if config.ThreadListTTL <= 0 {
		config.ThreadListTTL = DefaultCacheConfig().ThreadListTTL
	}
	return &CacheStore{
		client: client,
		config: config,
	}
}

func threadListVersionKey(userID int64) string {
	return fmt.Sprintf("threads:%d:version", userID)
}

func threadListKey(userID, version int64) string {
	return fmt.Sprintf("threads:%d:v%d", userID, version)
}

// ListVersion returns the current list generation of a user, 0 if no write
// has happened yet.
func (c *CacheStore) ListVersion(ctx context.Context, userID int64) (int64, error) {
	version, err := c.client.Get(ctx, threadListVersionKey(userID)).Int64()
	if err == goredis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// GetThreadList returns the thread list cached under version. A miss returns
// (nil, false, nil).
func (c *CacheStore) GetThreadList(ctx context.Context, userID, version int64) ([]thread.Thread, bool, error) {
	data, err := c.client.Get(ctx, threadListKey(userID, version)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var threads []thread.Thread
	if err := json.Unmarshal(data, &threads); err != nil {
		return nil, false, err
	}
	return threads, true, nil
}

// SetThreadList stores a list read while version was current. If a write
// bumped the version meanwhile, the entry is never read again and expires.
func (c *CacheStore) SetThreadList(ctx context.Context, userID, version int64, threads []thread.Thread) error {
	data, err := json.Marshal(threads)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, threadListKey(userID, version), data, c.config.ThreadListTTL).Err()
}

// InvalidateThreadList moves the user to a new list generation.
func (c *CacheStore) InvalidateThreadList(ctx context.Context, userID int64) error {
	return c.client.Incr(ctx, threadListVersionKey(userID)).Err()
}
