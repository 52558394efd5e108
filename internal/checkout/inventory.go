package checkout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
	"github.com/mvidales/storefront-backend/pkg/money"
)

// InventoryReport aggregates the inventory and price checks for every line.
// Individual bad lines never abort the pass; diagnostics accumulate and the
// next line is checked.
type InventoryReport struct {
	Subtotal float64
	Currency enums.Currency
	Items    []ItemDiagnostics
	Errors   []string
	Warnings []string
}

// CheckInventory verifies every proposed line against the resolved catalog
// records: product existence and active state, variant selection and
// ownership, stock against reservations, and submitted price against the
// catalog price. When items carry mixed currencies the last variant's
// currency wins.
func CheckInventory(items []ItemInput, products map[uuid.UUID]*models.Product) InventoryReport {
	report := InventoryReport{
		Currency: enums.CurrencyUSD,
		Items:    make([]ItemDiagnostics, 0, len(items)),
		Errors:   []string{},
		Warnings: []string{},
	}

	for _, item := range items {
		diag := ItemDiagnostics{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
		}

		product, ok := products[item.ProductID]
		if !ok || !product.IsActive || product.DeletedAt.Valid {
			report.Errors = append(report.Errors,
				fmt.Sprintf("Product %s not found or unavailable", item.ProductID))
			report.Items = append(report.Items, diag)
			continue
		}
		diag.IsAvailable = true

		activeVariants := product.ActiveVariants()
		diag.HasVariants = len(activeVariants) > 0

		var variant *models.ProductVariant
		if item.VariantID == nil {
			if diag.HasVariants {
				diag.VariantRequired = true
				report.Errors = append(report.Errors,
					fmt.Sprintf("Product %s requires a variant selection", product.Name))
				report.Items = append(report.Items, diag)
				continue
			}
		} else {
			for i := range activeVariants {
				if activeVariants[i].ID == *item.VariantID {
					variant = &activeVariants[i]
					break
				}
			}
			if variant == nil {
				report.Errors = append(report.Errors,
					fmt.Sprintf("Selected variant does not belong to product %s", product.Name))
				report.Items = append(report.Items, diag)
				continue
			}
			diag.VariantValid = true
		}

		diag.InventoryAvailable = true
		catalogPrice := product.Price
		if variant != nil {
			catalogPrice = variant.Price
			report.Currency = variant.Currency

			if variant.TrackQuantity {
				available := variant.AvailableQuantity()
				if available < item.Quantity {
					if variant.AllowBackorder {
						report.Warnings = append(report.Warnings,
							fmt.Sprintf("Product %s is low on stock. Available: %d, Requested: %d. Backorder allowed.",
								product.Name, available, item.Quantity))
					} else {
						diag.InventoryAvailable = false
						report.Errors = append(report.Errors,
							fmt.Sprintf("Insufficient inventory for %s. Available: %d, Requested: %d",
								product.Name, available, item.Quantity))
					}
				}
			}
		}

		diag.PriceValid = money.PriceMatches(catalogPrice, item.UnitPrice)
		if !diag.PriceValid {
			report.Errors = append(report.Errors,
				fmt.Sprintf("Price mismatch for %s: expected %.2f, got %.2f",
					product.Name, catalogPrice, item.UnitPrice))
		}

		report.Subtotal += catalogPrice * float64(item.Quantity)
		report.Items = append(report.Items, diag)
	}

	report.Subtotal = money.Round2(report.Subtotal)
	return report
}
