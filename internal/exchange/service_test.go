package exchange

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/ratecache"
)

type countingProvider struct {
	name  string
	rate  decimal.Decimal
	err   error
	calls int
}

func (p *countingProvider) Name() string { return p.name }

func (p *countingProvider) Rate(context.Context, decimal.Decimal, string, string) (decimal.Decimal, error) {
	p.calls++
	return p.rate, p.err
}

func newRateService(t *testing.T, provider Provider, cache ratecache.Cache) *Service {
	t.Helper()
	registry, err := NewRegistry(provider)
	require.NoError(t, err)
	return NewService(registry, cache, provider.Name(), zerolog.Nop())
}

func TestRateCachesByPair(t *testing.T) {
	provider := &countingProvider{name: "exchangerateapi", rate: decimal.NewFromFloat(0.85)}
	cache := ratecache.NewMemory(time.Hour, 10)
	svc := newRateService(t, provider, cache)

	ctx := context.Background()
	amount := decimal.NewFromInt(65)

	first, err := svc.Rate(ctx, amount, "usd", "eur")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	second, err := svc.Rate(ctx, amount, "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls, "second lookup must hit the cache")
	require.True(t, first.Equal(second))
}

func TestRateCacheIgnoresAmount(t *testing.T) {
	// The cache key is the currency pair only, so a lookup with a different
	// amount reuses the stored value.
	provider := &countingProvider{name: "exchangerateapi", rate: decimal.NewFromFloat(0.85)}
	cache := ratecache.NewMemory(time.Hour, 10)
	svc := newRateService(t, provider, cache)

	ctx := context.Background()
	_, err := svc.Rate(ctx, decimal.NewFromInt(65), "USD", "EUR")
	require.NoError(t, err)
	_, err = svc.Rate(ctx, decimal.NewFromInt(9000), "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)
}

func TestRateCacheExpiry(t *testing.T) {
	provider := &countingProvider{name: "exchangerateapi", rate: decimal.NewFromFloat(0.85)}
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := ratecache.NewMemory(time.Hour, 10).WithNow(func() time.Time { return clock })
	svc := newRateService(t, provider, cache)

	ctx := context.Background()
	_, err := svc.Rate(ctx, decimal.NewFromInt(10), "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, 1, provider.calls)

	clock = clock.Add(time.Hour)
	_, err = svc.Rate(ctx, decimal.NewFromInt(10), "USD", "EUR")
	require.NoError(t, err)
	require.Equal(t, 2, provider.calls, "expired entry must refetch")
}

func TestRateUnknownProvider(t *testing.T) {
	provider := &countingProvider{name: "exchangerateapi", rate: decimal.NewFromFloat(1)}
	registry, err := NewRegistry(provider)
	require.NoError(t, err)
	svc := NewService(registry, ratecache.NewMemory(time.Hour, 10), "bogus", zerolog.Nop())

	_, err = svc.Rate(context.Background(), decimal.NewFromInt(1), "USD", "EUR")
	require.Error(t, err)
	require.Equal(t, common.CodeUnknownProvider, common.ErrorCode(err))
	require.Equal(t, 0, provider.calls)
}

func TestRateProviderFailure(t *testing.T) {
	provider := &countingProvider{name: "exchangerateapi", err: errors.New("boom")}
	svc := newRateService(t, provider, ratecache.NewMemory(time.Hour, 10))

	_, err := svc.Rate(context.Background(), decimal.NewFromInt(1), "USD", "EUR")
	require.Error(t, err)
	require.Equal(t, common.CodeProviderUnavailable, common.ErrorCode(err))

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	details, ok := appErr.Details.(map[string]string)
	require.True(t, ok)
	require.Equal(t, "exchangerateapi", details["provider"])
}

func TestRateNonPositiveRate(t *testing.T) {
	provider := &countingProvider{name: "exchangerateapi", rate: decimal.Zero}
	cache := ratecache.NewMemory(time.Hour, 10)
	svc := newRateService(t, provider, cache)

	_, err := svc.Rate(context.Background(), decimal.NewFromInt(1), "USD", "EUR")
	require.Error(t, err)
	require.Equal(t, common.CodeProviderUnavailable, common.ErrorCode(err))
	require.Equal(t, 0, cache.Len(), "failed lookups must not populate the cache")
}
