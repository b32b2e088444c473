// Package billing computes the net payable amount for a purchase: item
// totals, role- and volume-based discounts, and optional currency conversion.
package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category tags a line item. Only the GROCERIES versus everything-else
// distinction affects discount eligibility.
type Category string

const (
	CategoryGroceries   Category = "GROCERIES"
	CategoryElectronics Category = "ELECTRONICS"
	CategoryClothing    Category = "CLOTHING"
	CategoryOther       Category = "OTHER"
)

// ParseCategory normalises and validates a category string.
func ParseCategory(value string) (Category, error) {
	switch Category(strings.ToUpper(strings.TrimSpace(value))) {
	case CategoryGroceries:
		return CategoryGroceries, nil
	case CategoryElectronics:
		return CategoryElectronics, nil
	case CategoryClothing:
		return CategoryClothing, nil
	case CategoryOther:
		return CategoryOther, nil
	}
	return "", fmt.Errorf("billing: unknown category %q", value)
}

// LineItem is one purchased item. Immutable once constructed for a request.
type LineItem struct {
	Name     string          `json:"name"`
	Category Category        `json:"category" validate:"required"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" validate:"min=0"`
}

// BillRequest carries the items and currency selection for one calculation.
// The items collection may be empty; the total is then zero.
type BillRequest struct {
	Items            []LineItem `json:"items" validate:"dive"`
	OriginalCurrency string     `json:"originalCurrency" validate:"required"`
	TargetCurrency   string     `json:"targetCurrency,omitempty"`
}

// BillResponse is the result of a net payable calculation. All amounts are
// rounded to two fractional digits, half-up.
type BillResponse struct {
	BillID           string          `json:"billId"`
	OriginalAmount   decimal.Decimal `json:"originalAmount"`
	DiscountedAmount decimal.Decimal `json:"discountedAmount"`
	FinalAmount      decimal.Decimal `json:"finalAmount"`
	OriginalCurrency string          `json:"originalCurrency"`
	TargetCurrency   string          `json:"targetCurrency"`
}
