package billing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-kasir/internal/auth"
)

var (
	one     = decimal.NewFromInt(1)
	five    = decimal.NewFromInt(5)
	hundred = decimal.NewFromInt(100)

	employeeDiscount  = decimal.New(30, -2) // 0.30
	affiliateDiscount = decimal.New(10, -2) // 0.10
	longTermDiscount  = decimal.New(5, -2)  // 0.05
)

// CalculateTotal sums price times quantity over all items, rounded to two
// digits half-up. Item order does not affect the result.
func CalculateTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total.Round(2)
}

// RoleDiscount maps a role and long-term-customer flag to the discount
// fraction applied to the bill.
func RoleDiscount(role auth.Role, longTerm bool) decimal.Decimal {
	switch role {
	case auth.RoleEmployee:
		return employeeDiscount
	case auth.RoleAffiliate:
		return affiliateDiscount
	case auth.RoleCustomer:
		if longTerm {
			return longTermDiscount
		}
	}
	return decimal.Zero
}

// VolumeDiscount is the flat $5 reduction per complete $100 of the
// pre-discount total.
func VolumeDiscount(total decimal.Decimal) decimal.Decimal {
	return total.Div(hundred).Floor().Mul(five)
}

// HasNonGrocery reports whether at least one item falls outside GROCERIES,
// which gates the role discount.
func HasNonGrocery(items []LineItem) bool {
	for _, item := range items {
		if item.Category != CategoryGroceries {
			return true
		}
	}
	return false
}

// ApplyDiscounts applies the role discount (when the basket contains a
// non-grocery item) followed by the volume discount computed on the original
// total. The result is rounded to two digits half-up and never negative.
func ApplyDiscounts(total decimal.Decimal, identity auth.Identity, items []LineItem, now time.Time) decimal.Decimal {
	discounted := total
	if HasNonGrocery(items) {
		fraction := RoleDiscount(identity.Role, identity.LongTermCustomer(now))
		discounted = discounted.Mul(one.Sub(fraction))
	}
	discounted = discounted.Sub(VolumeDiscount(total)).Round(2)
	if discounted.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return discounted
}
