package exchange

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/obs"
	"github.com/noah-isme/backend-kasir/internal/ratecache"
)

// Service owns the rate-lookup contract: cache lookup, provider resolution,
// provider call, cache fill. The cache key is the currency pair only; the
// amount is passed through to the provider but never keys the cache.
type Service struct {
	Registry     *Registry
	Cache        ratecache.Cache
	ProviderName string
	Log          zerolog.Logger
	now          func() time.Time
}

// NewService wires the exchange service.
func NewService(registry *Registry, cache ratecache.Cache, providerName string, log zerolog.Logger) *Service {
	return &Service{
		Registry:     registry,
		Cache:        cache,
		ProviderName: strings.TrimSpace(providerName),
		Log:          log,
		now:          time.Now,
	}
}

// Rate resolves the conversion rate for the given amount and currency pair.
// Failures are never retried here; a failed provider call fails the lookup.
func (s *Service) Rate(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if s.Cache != nil {
		if cached, ok := s.Cache.Get(ctx, from, to); ok {
			obs.ObserveRateLookup("cache", "hit")
			s.Log.Debug().Str("from", from).Str("to", to).Str("rate", cached.String()).Msg("rate cache hit")
			return cached, nil
		}
		obs.ObserveRateLookup("cache", "miss")
	}

	provider, err := s.Registry.Resolve(s.ProviderName)
	if err != nil {
		s.Log.Error().Str("provider", s.ProviderName).Msg("no exchange provider registered under configured name")
		return decimal.Decimal{}, err
	}

	start := s.now()
	rate, err := provider.Rate(ctx, amount, from, to)
	obs.ObserveProviderCall(provider.Name(), err == nil, time.Since(start))
	if err != nil {
		var appErr *common.AppError
		if errors.As(err, &appErr) {
			return decimal.Decimal{}, err
		}
		return decimal.Decimal{}, ProviderUnavailableError(provider.Name(), err)
	}
	if rate.Sign() <= 0 {
		return decimal.Decimal{}, ProviderUnavailableError(provider.Name(), errors.New("provider returned non-positive rate"))
	}

	if s.Cache != nil {
		s.Cache.Put(ctx, from, to, rate)
	}
	s.Log.Info().
		Str("from", from).
		Str("to", to).
		Str("provider", provider.Name()).
		Str("rate", rate.String()).
		Msg("exchange rate resolved")
	return rate, nil
}
