package billing

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-kasir/internal/auth"
	"github.com/noah-isme/backend-kasir/internal/common"
	"github.com/noah-isme/backend-kasir/internal/obs"
)

// RateSource resolves the conversion rate for a currency pair. The amount is
// forwarded because some upstream providers require it. Satisfied by
// exchange.Service.
type RateSource interface {
	Rate(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Service orchestrates one bill calculation: validation, discounting and
// optional currency conversion.
type Service struct {
	rates    RateSource
	log      zerolog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService wires a billing service over the given rate source.
func NewService(rates RateSource, log zerolog.Logger) *Service {
	return &Service{
		rates:    rates,
		log:      log,
		validate: validator.New(),
		now:      time.Now,
	}
}

// WithNow overrides the clock used for tenure checks. Intended for tests.
func (s *Service) WithNow(now func() time.Time) *Service {
	s.now = now
	return s
}

// CalculateNetPayable validates the request, totals the items, applies role
// and volume discounts for the identity, and converts to the target currency
// when one is requested. A nil identity fails with UNAUTHENTICATED before any
// work is done.
func (s *Service) CalculateNetPayable(ctx context.Context, req BillRequest, identity *auth.Identity) (BillResponse, error) {
	if identity == nil {
		obs.ObserveBillCalculation("unauthenticated")
		return BillResponse{}, common.NewAppError(common.CodeUnauthenticated, "authentication required", http.StatusUnauthorized, nil)
	}
	if err := s.validateRequest(&req); err != nil {
		obs.ObserveBillCalculation("invalid")
		return BillResponse{}, err
	}

	total := CalculateTotal(req.Items)
	discounted := ApplyDiscounts(total, *identity, req.Items, s.now())

	target := req.TargetCurrency
	if target == "" {
		target = req.OriginalCurrency
	}

	final := discounted
	if target != req.OriginalCurrency {
		rate, err := s.rates.Rate(ctx, discounted, req.OriginalCurrency, target)
		if err != nil {
			obs.ObserveBillCalculation("conversion_failed")
			return BillResponse{}, err
		}
		final = discounted.Mul(rate).Round(2)
	}

	resp := BillResponse{
		BillID:           uuid.NewString(),
		OriginalAmount:   total,
		DiscountedAmount: discounted,
		FinalAmount:      final,
		OriginalCurrency: req.OriginalCurrency,
		TargetCurrency:   target,
	}
	obs.ObserveBillCalculation("ok")
	s.log.Info().
		Str("bill_id", resp.BillID).
		Str("username", common.SanitizeForLog(identity.Username)).
		Str("role", string(identity.Role)).
		Str("original_currency", resp.OriginalCurrency).
		Str("target_currency", resp.TargetCurrency).
		Str("final_amount", final.StringFixed(2)).
		Msg("bill calculated")
	return resp, nil
}

// validateRequest normalises currencies in place and rejects malformed input
// with INVALID_REQUEST. Zero-priced or zero-quantity items are allowed.
func (s *Service) validateRequest(req *BillRequest) error {
	req.OriginalCurrency = strings.ToUpper(strings.TrimSpace(req.OriginalCurrency))
	req.TargetCurrency = strings.ToUpper(strings.TrimSpace(req.TargetCurrency))

	if err := s.validate.Struct(req); err != nil {
		return invalidRequest("request validation failed", err)
	}
	for i := range req.Items {
		item := &req.Items[i]
		if item.Price.IsNegative() {
			return invalidRequest(fmt.Sprintf("items[%d]: price must not be negative", i), nil)
		}
		category, err := ParseCategory(string(item.Category))
		if err != nil {
			return invalidRequest(fmt.Sprintf("items[%d]: %v", i, err), nil)
		}
		item.Category = category
	}
	return nil
}

func invalidRequest(message string, err error) *common.AppError {
	return common.NewAppError(common.CodeInvalidRequest, message, http.StatusBadRequest, err)
}
