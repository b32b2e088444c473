// Package exchange resolves currency conversion rates through pluggable
// upstream providers with a memoising cache in front.
package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider abstracts an upstream rate source. Implementations are expected to
// be safe for concurrent use; each call is a blocking network operation from
// the caller's perspective.
type Provider interface {
	// Rate fetches the conversion rate for the given amount and currency pair.
	Rate(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	// Name identifies the provider for registry lookup and logging.
	Name() string
}
