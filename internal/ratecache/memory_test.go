package ratecache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGet(t *testing.T) {
	cache := NewMemory(time.Hour, 10)
	ctx := context.Background()
	rate := decimal.NewFromFloat(0.85)

	cache.Put(ctx, "USD", "EUR", rate)
	got, ok := cache.Get(ctx, "usd", "eur")
	require.True(t, ok, "lookup must be case insensitive")
	require.True(t, rate.Equal(got))

	_, ok = cache.Get(ctx, "EUR", "USD")
	require.False(t, ok, "reverse pair is a distinct key")
}

func TestMemoryExpiry(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemory(time.Hour, 10).WithNow(func() time.Time { return clock })
	ctx := context.Background()

	cache.Put(ctx, "USD", "EUR", decimal.NewFromInt(1))

	clock = clock.Add(59 * time.Minute)
	_, ok := cache.Get(ctx, "USD", "EUR")
	require.True(t, ok)

	clock = clock.Add(time.Minute)
	_, ok = cache.Get(ctx, "USD", "EUR")
	require.False(t, ok, "entry must expire after the TTL")
	require.Equal(t, 0, cache.Len(), "expired entry read drops it")
}

func TestMemoryPutResetsTTL(t *testing.T) {
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemory(time.Hour, 10).WithNow(func() time.Time { return clock })
	ctx := context.Background()

	cache.Put(ctx, "USD", "EUR", decimal.NewFromInt(1))
	clock = clock.Add(45 * time.Minute)
	cache.Put(ctx, "USD", "EUR", decimal.NewFromInt(2))
	clock = clock.Add(45 * time.Minute)

	got, ok := cache.Get(ctx, "USD", "EUR")
	require.True(t, ok, "rewrite must restart the TTL")
	require.True(t, decimal.NewFromInt(2).Equal(got))
}

func TestMemoryEvictsLeastRecentlyUsed(t *testing.T) {
	cache := NewMemory(time.Hour, 2)
	ctx := context.Background()

	cache.Put(ctx, "USD", "EUR", decimal.NewFromInt(1))
	cache.Put(ctx, "USD", "GBP", decimal.NewFromInt(2))

	// touch USD:EUR so USD:GBP becomes the eviction candidate
	_, ok := cache.Get(ctx, "USD", "EUR")
	require.True(t, ok)

	cache.Put(ctx, "USD", "JPY", decimal.NewFromInt(3))
	require.Equal(t, 2, cache.Len())

	_, ok = cache.Get(ctx, "USD", "GBP")
	require.False(t, ok, "least recently used pair must be evicted")
	_, ok = cache.Get(ctx, "USD", "EUR")
	require.True(t, ok)
	_, ok = cache.Get(ctx, "USD", "JPY")
	require.True(t, ok)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	cache := NewMemory(time.Hour, 100)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				from := fmt.Sprintf("C%d", n)
				cache.Put(ctx, from, "EUR", decimal.NewFromInt(int64(j)))
				cache.Get(ctx, from, "EUR")
			}
		}(i)
	}
	wg.Wait()
	require.LessOrEqual(t, cache.Len(), 100)
}

func TestKeyNormalisation(t *testing.T) {
	require.Equal(t, "USD:EUR", Key(" usd ", "eur"))
	require.Equal(t, Key("USD", "EUR"), Key("usd", "Eur"))
}
