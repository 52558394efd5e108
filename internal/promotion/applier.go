package promotion

import (
	"context"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/internal/cart"
	"github.com/mvidales/storefront-backend/internal/pricing"
	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/logger"
	"github.com/mvidales/storefront-backend/pkg/metrics"
)

type cartStore interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Cart, error)
	SetPromotion(ctx context.Context, cartID uuid.UUID, expectedVersion int, update cart.PromotionUpdate) error
	ClearPromotion(ctx context.Context, cartID uuid.UUID) error
}

type productCatalog interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

// Applier persists a resolved promotion onto the cart. All writes go through
// the version-guarded update; a concurrent edit is retried once against the
// fresh cart before surfacing as a conflict.
type Applier struct {
	carts    cartStore
	products productCatalog
	resolver *Resolver
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	taxRate  float64
}

// NewApplier wires the applier over the cart store, catalog, and resolver.
func NewApplier(carts cartStore, products productCatalog, resolver *Resolver, m *metrics.CheckoutMetrics, logg *logger.Logger, taxRate float64) *Applier {
	return &Applier{
		carts:    carts,
		products: products,
		resolver: resolver,
		metrics:  m,
		logg:     logg,
		taxRate:  taxRate,
	}
}

// ApplyResult is what the applier hands back: the cart as it stands after
// the operation (post-rollback on rejection) and the resolution that drove
// it. A rejected promotion is not an error.
type ApplyResult struct {
	Cart       *models.Cart
	Resolution *Resolution
}

// Apply resolves the code against the cart and persists the outcome. An
// empty code clears any applied promotion. On rejection the cart's promotion
// fields are cleared before the result is returned, so the caller always
// sees a cart without a stale invalid code. Infrastructure errors come back
// with the cart's current state attached where it could be re-read.
func (a *Applier) Apply(ctx context.Context, userID, cartID uuid.UUID, code, locale string) (*ApplyResult, error) {
	result, err := a.applyOnce(ctx, userID, cartID, code, locale)
	if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeStateConflict {
		result, err = a.applyOnce(ctx, userID, cartID, code, locale)
	}
	return result, err
}

func (a *Applier) applyOnce(ctx context.Context, userID, cartID uuid.UUID, code, locale string) (*ApplyResult, error) {
	record, err := a.carts.FindByIDAndUser(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}

	ctx = a.logg.WithCartID(ctx, cartID.String())

	totals := pricing.ComputeTotals(record.Items, record.FulfillmentType, 0, a.taxRate)
	productIDs, categories, err := a.cartApplicability(ctx, record)
	if err != nil {
		return a.withCurrentCart(ctx, userID, cartID, err)
	}

	res, err := a.resolver.Resolve(ctx, ResolveInput{
		UserID:      userID,
		Code:        code,
		Subtotal:    totals.Subtotal,
		OrderAmount: totals.Total,
		ProductIDs:  productIDs,
		Categories:  categories,
		Locale:      locale,
	})
	if err != nil {
		return a.withCurrentCart(ctx, userID, cartID, err)
	}

	switch res.Outcome {
	case OutcomeNone:
		if record.HasPromotion() {
			if err := a.carts.ClearPromotion(ctx, cartID); err != nil {
				return a.withCurrentCart(ctx, userID, cartID, err)
			}
		}
		a.metrics.IncPromotionOutcome("cleared")

	case OutcomeRejected:
		// Rollback: a rejected code must never linger on the cart.
		if err := a.carts.ClearPromotion(ctx, cartID); err != nil {
			return a.withCurrentCart(ctx, userID, cartID, err)
		}
		a.logg.Info(a.logg.WithField(ctx, "reason", res.Message), "promotion rejected")
		a.metrics.IncPromotionOutcome("rejected")

	case OutcomeApplied:
		if res.DiscountAmount <= 0 {
			// A promotion worth nothing is never persisted as applied.
			if err := a.carts.ClearPromotion(ctx, cartID); err != nil {
				return a.withCurrentCart(ctx, userID, cartID, err)
			}
			res.Coupon = nil
			res.Code = ""
		} else {
			update := cart.PromotionUpdate{
				CouponCode:     &res.Code,
				DiscountAmount: res.DiscountAmount,
				IsReferral:     res.IsReferral,
			}
			if err := a.carts.SetPromotion(ctx, cartID, record.Version, update); err != nil {
				if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeStateConflict {
					return nil, err
				}
				return a.withCurrentCart(ctx, userID, cartID, err)
			}
		}
		a.metrics.IncPromotionOutcome("applied")
	}

	fresh, err := a.carts.FindByIDAndUser(ctx, cartID, userID)
	if err != nil {
		return nil, err
	}
	return &ApplyResult{Cart: fresh, Resolution: res}, nil
}

// cartApplicability maps the cart's lines to the product IDs and categories
// coupon scoping rules evaluate against.
func (a *Applier) cartApplicability(ctx context.Context, record *models.Cart) ([]string, []string, error) {
	ids := make([]uuid.UUID, 0, len(record.Items))
	for _, item := range record.Items {
		ids = append(ids, item.ProductID)
	}
	found, err := a.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	productIDs := make([]string, 0, len(record.Items))
	seen := make(map[string]struct{})
	var categories []string
	for _, item := range record.Items {
		productIDs = append(productIDs, item.ProductID.String())
		product, ok := found[item.ProductID]
		if !ok {
			continue
		}
		for _, category := range product.Categories {
			if _, dup := seen[category]; dup {
				continue
			}
			seen[category] = struct{}{}
			categories = append(categories, category)
		}
	}
	return productIDs, categories, nil
}

// withCurrentCart re-reads the cart so an error response still carries a
// consistent view of its state.
func (a *Applier) withCurrentCart(ctx context.Context, userID, cartID uuid.UUID, cause error) (*ApplyResult, error) {
	fresh, readErr := a.carts.FindByIDAndUser(ctx, cartID, userID)
	if readErr != nil {
		return nil, cause
	}
	return &ApplyResult{Cart: fresh}, cause
}
