package money

import (
	"github.com/shopspring/decimal"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// priceTolerance is the maximum accepted drift between a client-submitted
// unit price and the catalog price.
const priceTolerance = "0.01"

// Round2 rounds a currency amount to 2 decimal places, half away from zero.
// Decimal arithmetic keeps binary float artifacts out of the result, so
// Round2(10.005) is 10.01. Round2 is idempotent.
func Round2(x float64) float64 {
	out, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return out
}

// PriceMatches reports whether two unit prices agree within one cent.
func PriceMatches(catalog, submitted float64) bool {
	diff := decimal.NewFromFloat(catalog).Sub(decimal.NewFromFloat(submitted)).Abs()
	return diff.LessThanOrEqual(decimal.RequireFromString(priceTolerance))
}

// Discount computes the discount a promotion yields against a subtotal.
// The result is rounded, never negative, and never exceeds the subtotal.
func Discount(typ enums.DiscountType, value, subtotal float64) float64 {
	if subtotal <= 0 || value <= 0 {
		return 0
	}

	sub := decimal.NewFromFloat(subtotal)
	val := decimal.NewFromFloat(value)

	var amount decimal.Decimal
	switch typ {
	case enums.DiscountTypeFixed:
		amount = val
	case enums.DiscountTypePercentage:
		amount = sub.Mul(val).Div(decimal.NewFromInt(100))
	default:
		return 0
	}

	if amount.GreaterThan(sub) {
		amount = sub
	}
	out, _ := amount.Round(2).Float64()
	return out
}
