package redis

import (
	"context"
	"testing"
	"time"

	"chat-threads/internal/domain/thread"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewClient(Config{Host: mr.Host(), Port: mr.Port()})
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestCacheStore_ThreadListRoundTrip(t *testing.T) {
	mr, c := newTestClient(t)
	cache := NewCacheStore(c, CacheConfig{ThreadListTTL: time.Minute})
	ctx := context.Background()

	version, err := cache.ListVersion(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)

	_, hit, err := cache.GetThreadList(ctx, 42, version)
	require.NoError(t, err)
	assert.False(t, hit)

	prompt := "be brief"
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	in := []thread.Thread{
		{ID: 7, Name: "demo", CreatorID: 42, DateCreated: created},
		{ID: 8, Name: "other", CreatorID: 42, DateCreated: created, Prompt: &prompt},
	}
	require.NoError(t, cache.SetThreadList(ctx, 42, version, in))
	assert.Equal(t, time.Minute, mr.TTL("threads:42:v0"))

	out, hit, err := cache.GetThreadList(ctx, 42, version)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, out, 2)
	assert.Equal(t, int64(7), out[0].ID)
	assert.True(t, created.Equal(out[0].DateCreated))
	require.NotNil(t, out[1].Prompt)
	assert.Equal(t, prompt, *out[1].Prompt)
}

func TestCacheStore_InvalidateMovesToNewVersion(t *testing.T) {
	_, c := newTestClient(t)
	cache := NewCacheStore(c, CacheConfig{ThreadListTTL: time.Minute})
	ctx := context.Background()

	require.NoError(t, cache.SetThreadList(ctx, 42, 0, []thread.Thread{{ID: 7, CreatorID: 42}}))
	require.NoError(t, cache.InvalidateThreadList(ctx, 42))

	version, err := cache.ListVersion(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	_, hit, err := cache.GetThreadList(ctx, 42, version)
	require.NoError(t, err)
	assert.False(t, hit)

	// a list read before the bump lands on the old version and stays unread
	require.NoError(t, cache.SetThreadList(ctx, 42, 0, []thread.Thread{{ID: 7, CreatorID: 42}}))
	_, hit, err = cache.GetThreadList(ctx, 42, version)
	require.NoError(t, err)
	assert.False(t, hit)

	other, err := cache.ListVersion(ctx, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), other)
}

func TestCacheStore_EmptyListIsAHit(t *testing.T) {
	mr, c := newTestClient(t)
	cache := NewCacheStore(c, CacheConfig{})
	ctx := context.Background()

	require.NoError(t, cache.SetThreadList(ctx, 5, 0, []thread.Thread{}))
	assert.Equal(t, DefaultCacheConfig().ThreadListTTL, mr.TTL("threads:5:v0"))

	out, hit, err := cache.GetThreadList(ctx, 5, 0)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, out)
}

func TestRateLimiter_AllowThreadRequest(t *testing.T) {
	mr, c := newTestClient(t)
	limiter := NewRateLimiter(c, RateLimitConfig{ThreadLimit: 2, ThreadWindow: time.Minute})
	ctx := context.Background()

	res, err := limiter.AllowThreadRequest(ctx, 42)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)
	assert.Equal(t, 2, res.Limit)

	res, err = limiter.AllowThreadRequest(ctx, 42)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	res, err = limiter.AllowThreadRequest(ctx, 42)
	require.NoError(t, err)
	assert.False(t, res.Allowed)

	// other users keep their own window
	res, err = limiter.AllowThreadRequest(ctx, 99)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	mr.FastForward(time.Minute + time.Second)
	res, err = limiter.AllowThreadRequest(ctx, 42)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestRateLimiter_ZeroConfigUsesDefaults(t *testing.T) {
	mr, c := newTestClient(t)
	limiter := NewRateLimiter(c, RateLimitConfig{})
	ctx := context.Background()

	res, err := limiter.AllowThreadRequest(ctx, 42)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, DefaultRateLimitConfig().ThreadLimit, res.Limit)
	assert.Equal(t, DefaultRateLimitConfig().ThreadWindow, mr.TTL("ratelimit:42:threads"))
}
