package ratecache

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const redisKeyPrefix = "kasir:rate:"

// Redis stores rates in a shared redis instance so multiple replicas see the
// same memoised pairs. TTL is enforced by key expiry; capacity is left to the
// server's eviction policy.
type Redis struct {
	Client *redis.Client
	TTL    time.Duration
	Log    zerolog.Logger
}

// NewRedis constructs a redis-backed cache.
func NewRedis(client *redis.Client, ttl time.Duration, log zerolog.Logger) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{Client: client, TTL: ttl, Log: log}
}

// Get fetches a cached rate. Transport or parse failures degrade to a miss so
// a flaky cache never fails a bill calculation.
func (r *Redis) Get(ctx context.Context, from, to string) (decimal.Decimal, bool) {
	if r == nil || r.Client == nil {
		return decimal.Decimal{}, false
	}
	raw, err := r.Client.Get(ctx, redisKeyPrefix+Key(from, to)).Result()
	if err != nil {
		if err != redis.Nil {
			r.Log.Warn().Err(err).Msg("rate cache read failed")
		}
		return decimal.Decimal{}, false
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil {
		r.Log.Warn().Err(err).Str("value", raw).Msg("rate cache entry unparsable")
		return decimal.Decimal{}, false
	}
	return rate, true
}

// Put stores a rate with the configured TTL, best effort.
func (r *Redis) Put(ctx context.Context, from, to string, rate decimal.Decimal) {
	if r == nil || r.Client == nil {
		return
	}
	if err := r.Client.Set(ctx, redisKeyPrefix+Key(from, to), rate.String(), r.TTL).Err(); err != nil {
		r.Log.Warn().Err(err).Msg("rate cache write failed")
	}
}
