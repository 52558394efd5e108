package pricing

import (
	"testing"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
)

func TestComputeTotalsOneTime(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{ID: uuid.New(), Quantity: 2, UnitPrice: 19.99, Currency: enums.CurrencyEUR, DurationMonths: 1},
		{ID: uuid.New(), Quantity: 1, UnitPrice: 60.02, Currency: enums.CurrencyEUR, DurationMonths: 1},
	}

	totals := ComputeTotals(items, enums.FulfillmentOneTime, 10, 0)
	if totals.Subtotal != 100.00 {
		t.Fatalf("subtotal mismatch: %.2f", totals.Subtotal)
	}
	if totals.Discount != 10.00 {
		t.Fatalf("discount mismatch: %.2f", totals.Discount)
	}
	if totals.Tax != 0 {
		t.Fatalf("tax mismatch: %.2f", totals.Tax)
	}
	if totals.Total != 90.00 {
		t.Fatalf("total mismatch: %.2f", totals.Total)
	}
	if totals.Currency != enums.CurrencyEUR {
		t.Fatalf("currency mismatch: %s", totals.Currency)
	}
}

func TestComputeTotalsSubscriptionUsesDuration(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{ID: uuid.New(), Quantity: 1, UnitPrice: 9.99, Currency: enums.CurrencyUSD, DurationMonths: 12},
	}

	totals := ComputeTotals(items, enums.FulfillmentSubscription, 0, 0)
	if totals.Subtotal != 119.88 {
		t.Fatalf("subscription subtotal mismatch: %.2f", totals.Subtotal)
	}

	oneTime := ComputeTotals(items, enums.FulfillmentOneTime, 0, 0)
	if oneTime.Subtotal != 9.99 {
		t.Fatalf("one-time subtotal mismatch: %.2f", oneTime.Subtotal)
	}
}

func TestComputeTotalsClampsDiscount(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{ID: uuid.New(), Quantity: 1, UnitPrice: 25, Currency: enums.CurrencyUSD, DurationMonths: 1},
	}

	totals := ComputeTotals(items, enums.FulfillmentOneTime, 100, 0)
	if totals.Discount != 25 {
		t.Fatalf("discount not clamped: %.2f", totals.Discount)
	}
	if totals.Total != 0 {
		t.Fatalf("total went negative: %.2f", totals.Total)
	}
}

func TestComputeTotalsTaxAppliesToDiscountedAmount(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{ID: uuid.New(), Quantity: 1, UnitPrice: 100, Currency: enums.CurrencyUSD, DurationMonths: 1},
	}

	totals := ComputeTotals(items, enums.FulfillmentOneTime, 20, 0.10)
	if totals.Tax != 8.00 {
		t.Fatalf("tax mismatch: %.2f", totals.Tax)
	}
	if totals.Total != 88.00 {
		t.Fatalf("total mismatch: %.2f", totals.Total)
	}
}

func TestComputeTotalsIdempotent(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{ID: uuid.New(), Quantity: 3, UnitPrice: 3.335, Currency: enums.CurrencyGBP, DurationMonths: 1},
		{ID: uuid.New(), Quantity: 2, UnitPrice: 7.775, Currency: enums.CurrencyGBP, DurationMonths: 1},
	}

	first := ComputeTotals(items, enums.FulfillmentOneTime, 2.5, 0.07)
	second := ComputeTotals(items, enums.FulfillmentOneTime, 2.5, 0.07)
	if first != second {
		t.Fatalf("totals not idempotent: %+v vs %+v", first, second)
	}
}

func TestOrderAmountIgnoresDiscount(t *testing.T) {
	t.Parallel()

	items := []models.CartItem{
		{ID: uuid.New(), Quantity: 2, UnitPrice: 50, Currency: enums.CurrencyUSD, DurationMonths: 1},
	}

	amount := OrderAmount(items, enums.FulfillmentOneTime, 0)
	if amount != 100.00 {
		t.Fatalf("order amount mismatch: %.2f", amount)
	}

	withTax := OrderAmount(items, enums.FulfillmentOneTime, 0.05)
	if withTax != 105.00 {
		t.Fatalf("order amount with tax mismatch: %.2f", withTax)
	}
}
