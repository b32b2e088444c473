// Package ratecache memoises resolved exchange rates per currency pair for a
// bounded time window.
package ratecache

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Cache is the rate memoisation contract shared by the in-memory and the
// redis-backed implementations.
type Cache interface {
	Get(ctx context.Context, from, to string) (decimal.Decimal, bool)
	Put(ctx context.Context, from, to string, rate decimal.Decimal)
}

// Key builds the cache key for a currency pair. The amount is deliberately
// not part of the key even though some providers return amount-scaled
// conversion results; the first value cached for a pair wins until it expires.
func Key(from, to string) string {
	return strings.ToUpper(strings.TrimSpace(from)) + ":" + strings.ToUpper(strings.TrimSpace(to))
}
