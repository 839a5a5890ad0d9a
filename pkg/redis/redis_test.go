package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wonny/soccer-analytics/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	client, err := New(&config.Config{Redis: config.RedisConfig{Enabled: false}})
	require.NoError(t, err)
	assert.False(t, client.Enabled())
	assert.NoError(t, client.Close())
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(Disabled(), "test")
	cfg := FootballDataRateLimit(10)

	allowed, remaining, err := limiter.Allow(context.Background(), cfg)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 10, remaining)
	assert.NoError(t, limiter.Wait(context.Background(), cfg))
}

func TestFootballDataRateLimit(t *testing.T) {
	cfg := FootballDataRateLimit(10)
	assert.Equal(t, "football-data", cfg.Key)
	assert.Equal(t, 10, cfg.Limit)
	assert.Equal(t, time.Minute, cfg.Window)
}

func TestRateLimiter_Enabled(t *testing.T) {
	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("REDIS_HOST not set, skipping integration test")
	}

	client, err := New(&config.Config{Redis: config.RedisConfig{
		Enabled: true,
		Host:    os.Getenv("REDIS_HOST"),
		Port:    "6379",
	}})
	require.NoError(t, err)
	defer client.Close()

	limiter := NewRateLimiter(client, "soccer-test-"+time.Now().Format("150405.000"))
	cfg := RateLimitConfig{Key: "burst", Limit: 2, Window: time.Minute}
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, _, err := limiter.Allow(ctx, cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, remaining, err := limiter.Allow(ctx, cfg)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 0, remaining)
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, DigestKey(), map[string]int{"a": 1}, TTLMedium))

	var out map[string]int
	found, err := cache.Get(ctx, DigestKey(), &out)
	require.NoError(t, err)
	assert.False(t, found)
	assert.NoError(t, cache.Delete(ctx, DigestKey()))
}

func TestCacheKeys(t *testing.T) {
	season := 2024
	assert.Equal(t, "power:3:2024", PowerRankingsKey(3, &season))
	assert.Equal(t, "power:3:all", PowerRankingsKey(3, nil))
}

func TestCache_Enabled(t *testing.T) {
	if os.Getenv("REDIS_HOST") == "" {
		t.Skip("REDIS_HOST not set, skipping integration test")
	}

	client, err := New(&config.Config{Redis: config.RedisConfig{
		Enabled: true,
		Host:    os.Getenv("REDIS_HOST"),
		Port:    "6379",
	}})
	require.NoError(t, err)
	defer client.Close()

	cache := NewCache(client, "soccer-test-"+time.Now().Format("150405.000"))
	ctx := context.Background()

	var out struct{ Leagues int }
	found, err := cache.Get(ctx, DigestKey(), &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, DigestKey(), struct{ Leagues int }{Leagues: 5}, time.Minute))
	found, err = cache.Get(ctx, DigestKey(), &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 5, out.Leagues)
	require.NoError(t, cache.Delete(ctx, DigestKey()))
}
