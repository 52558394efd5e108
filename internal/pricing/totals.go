package pricing

import (
	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
	"github.com/mvidales/storefront-backend/pkg/money"
)

// Totals is the pricing breakdown for a set of cart lines. All amounts are
// rounded to two decimal places.
type Totals struct {
	Subtotal float64        `json:"subtotal"`
	Discount float64        `json:"discount"`
	Tax      float64        `json:"tax"`
	Total    float64        `json:"total"`
	Currency enums.Currency `json:"currency"`
}

// LineAmount is the payable amount for a single cart line. Subscription
// carts multiply by the requested duration in months.
func LineAmount(item models.CartItem, fulfillment enums.FulfillmentType) float64 {
	amount := item.UnitPrice * float64(item.Quantity)
	if fulfillment == enums.FulfillmentSubscription && item.DurationMonths > 1 {
		amount *= float64(item.DurationMonths)
	}
	return money.Round2(amount)
}

// ComputeTotals derives the full pricing breakdown for the lines. The
// function is pure; re-running it with the same inputs yields the same
// result. The discount is clamped to the subtotal so the total never goes
// negative, and tax applies to the discounted amount.
func ComputeTotals(items []models.CartItem, fulfillment enums.FulfillmentType, discount, taxRate float64) Totals {
	var subtotal float64
	currency := enums.CurrencyUSD
	for _, item := range items {
		subtotal += LineAmount(item, fulfillment)
		if item.Currency.IsValid() {
			currency = item.Currency
		}
	}
	subtotal = money.Round2(subtotal)

	if discount > subtotal {
		discount = subtotal
	}
	discount = money.Round2(discount)

	tax := money.Round2(taxRate * (subtotal - discount))
	total := money.Round2(subtotal - discount + tax)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    total,
		Currency: currency,
	}
}

// OrderAmount is the pre-promotion payable amount, the figure minimum-order
// rules are evaluated against. It is the total computed with zero discount.
func OrderAmount(items []models.CartItem, fulfillment enums.FulfillmentType, taxRate float64) float64 {
	return ComputeTotals(items, fulfillment, 0, taxRate).Total
}
