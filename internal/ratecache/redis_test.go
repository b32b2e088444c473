package ratecache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, ttl, zerolog.Nop()), mr
}

func TestRedisPutGet(t *testing.T) {
	cache, _ := newRedisCache(t, time.Hour)
	ctx := context.Background()
	rate := decimal.NewFromFloat(0.85)

	cache.Put(ctx, "usd", "eur", rate)
	got, ok := cache.Get(ctx, "USD", "EUR")
	require.True(t, ok)
	require.True(t, rate.Equal(got))
}

func TestRedisMiss(t *testing.T) {
	cache, _ := newRedisCache(t, time.Hour)
	_, ok := cache.Get(context.Background(), "USD", "EUR")
	require.False(t, ok)
}

func TestRedisExpiry(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	cache.Put(ctx, "USD", "EUR", decimal.NewFromInt(1))
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "USD", "EUR")
	require.False(t, ok, "entry must expire with the key TTL")
}

func TestRedisUnparsableEntryReadsAsMiss(t *testing.T) {
	cache, mr := newRedisCache(t, time.Hour)
	require.NoError(t, mr.Set("kasir:rate:USD:EUR", "not-a-number"))

	_, ok := cache.Get(context.Background(), "USD", "EUR")
	require.False(t, ok)
}

func TestRedisUnavailableDegradesToMiss(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewRedis(client, time.Hour, zerolog.Nop())

	ctx := context.Background()
	cache.Put(ctx, "USD", "EUR", decimal.NewFromInt(1))
	_, ok := cache.Get(ctx, "USD", "EUR")
	require.False(t, ok)
}
