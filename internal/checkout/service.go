package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/mvidales/storefront-backend/internal/promotion"
	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/logger"
	"github.com/mvidales/storefront-backend/pkg/metrics"
	"github.com/mvidales/storefront-backend/pkg/money"
)

type productCatalog interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
}

type addressStore interface {
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Address, error)
}

type userStore interface {
	FindActive(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Service runs pre-checkout validation. It reads, it never writes; a cart is
// only mutated through the promotion applier.
type Service struct {
	products  productCatalog
	addresses addressStore
	users     userStore
	resolver  *promotion.Resolver
	metrics   *metrics.CheckoutMetrics
	logg      *logger.Logger
	taxRate   float64
}

// NewService wires the orchestrator over its collaborator stores.
func NewService(products productCatalog, addresses addressStore, users userStore, resolver *promotion.Resolver, m *metrics.CheckoutMetrics, logg *logger.Logger, taxRate float64) *Service {
	return &Service{
		products:  products,
		addresses: addresses,
		users:     users,
		resolver:  resolver,
		metrics:   m,
		logg:      logg,
		taxRate:   taxRate,
	}
}

// Validate runs every validation phase and merges the outcomes into one
// report. Phases never short-circuit each other; a cart with a bad item
// still gets its address and membership checked so the client sees every
// problem at once. A returned error means a collaborator lookup failed, not
// that the cart is invalid.
func (s *Service) Validate(ctx context.Context, in ValidateInput) (*ValidationResult, error) {
	started := time.Now()
	ctx = s.logg.WithUserID(ctx, in.UserID.String())

	result := &ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}
	var hardErr error

	// Phase: inventory and price consistency.
	ids := make([]uuid.UUID, 0, len(in.Items))
	for _, item := range in.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		hardErr = multierr.Append(hardErr, err)
		products = map[uuid.UUID]*models.Product{}
	}
	report := CheckInventory(in.Items, products)
	result.Errors = append(result.Errors, report.Errors...)
	result.Warnings = append(result.Warnings, report.Warnings...)
	result.Data.Items = report.Items

	// Phase: address existence and ownership.
	result.Data.Address = s.checkAddresses(ctx, in, result, &hardErr)

	// Phase: membership discount.
	membershipDiscount := s.checkMembership(in, report.Subtotal, result)

	// Phase: family purchase eligibility.
	s.checkFamily(ctx, in, result, &hardErr)

	// Phase: promotion, advisory only. A failing coupon is a warning here;
	// committing a promotion happens through the applier, not this path.
	s.checkPromotion(ctx, in, report, products, result, &hardErr)

	if hardErr != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, hardErr, "checkout validation lookup failed")
	}

	result.Data.Pricing = PricingSummary{
		Subtotal:           report.Subtotal,
		MembershipDiscount: membershipDiscount,
		Total:              money.Round2(report.Subtotal - membershipDiscount),
		Currency:           report.Currency,
	}
	result.IsValid = len(result.Errors) == 0

	s.metrics.ObserveValidation(result.IsValid, time.Since(started))
	if !result.IsValid {
		s.logg.Info(s.logg.WithField(ctx, "errors", len(result.Errors)), "checkout validation failed")
	}
	return result, nil
}

func (s *Service) checkAddresses(ctx context.Context, in ValidateInput, result *ValidationResult, hardErr *error) AddressSummary {
	summary := AddressSummary{
		ShippingAddressID: in.ShippingAddressID,
		BillingAddressID:  in.BillingAddressID,
	}

	if in.ShippingAddressID == uuid.Nil {
		result.Errors = append(result.Errors, "Shipping address is required")
	} else if _, err := s.addresses.FindByIDAndUser(ctx, in.ShippingAddressID, in.UserID); err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			result.Errors = append(result.Errors, "Shipping address not found")
		} else {
			*hardErr = multierr.Append(*hardErr, err)
		}
	} else {
		summary.ShippingValid = true
	}

	// Billing defaults to the shipping address when omitted or identical.
	if in.BillingAddressID == nil || *in.BillingAddressID == in.ShippingAddressID {
		summary.BillingValid = summary.ShippingValid
		return summary
	}

	if _, err := s.addresses.FindByIDAndUser(ctx, *in.BillingAddressID, in.UserID); err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			result.Errors = append(result.Errors, "Billing address not found")
		} else {
			*hardErr = multierr.Append(*hardErr, err)
		}
	} else {
		summary.BillingValid = true
	}
	return summary
}

func (s *Service) checkMembership(in ValidateInput, subtotal float64, result *ValidationResult) float64 {
	if in.Membership == nil || !in.Membership.IsMember {
		return 0
	}

	summary := &MembershipSummary{IsMember: true}
	result.Data.Membership = summary

	if !in.Membership.DiscountType.IsValid() || in.Membership.DiscountValue <= 0 {
		result.Errors = append(result.Errors, "Membership discount information is missing or invalid")
		return 0
	}

	discount := money.Discount(in.Membership.DiscountType, in.Membership.DiscountValue, subtotal)
	summary.DiscountAmount = discount
	return discount
}

func (s *Service) checkFamily(ctx context.Context, in ValidateInput, result *ValidationResult, hardErr *error) {
	if in.Family == nil || !in.Family.IsBuyingForFamily {
		return
	}

	summary := &FamilySummary{IsBuyingForFamily: true}
	result.Data.Family = summary

	if in.Family.FamilyMemberID == uuid.Nil {
		result.Errors = append(result.Errors, "Family member is required when buying for family")
		return
	}
	memberID := in.Family.FamilyMemberID
	summary.FamilyMemberID = &memberID

	if _, err := s.users.FindActive(ctx, memberID); err != nil {
		coded := pkgerrors.As(err)
		if coded != nil && (coded.Code() == pkgerrors.CodeNotFound || coded.Code() == pkgerrors.CodeForbidden) {
			result.Errors = append(result.Errors, "Family member not found or inactive")
			return
		}
		*hardErr = multierr.Append(*hardErr, err)
		return
	}
	summary.MemberValid = true
}

func (s *Service) checkPromotion(ctx context.Context, in ValidateInput, report InventoryReport, products map[uuid.UUID]*models.Product, result *ValidationResult, hardErr *error) {
	if in.CouponCode == "" {
		return
	}

	productIDs := make([]string, 0, len(in.Items))
	seen := make(map[string]struct{})
	var categories []string
	for _, item := range in.Items {
		productIDs = append(productIDs, item.ProductID.String())
		product, ok := products[item.ProductID]
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

	orderAmount := money.Round2(report.Subtotal + money.Round2(s.taxRate*report.Subtotal))
	res, err := s.resolver.Resolve(ctx, promotion.ResolveInput{
		UserID:      in.UserID,
		Code:        in.CouponCode,
		Subtotal:    report.Subtotal,
		OrderAmount: orderAmount,
		ProductIDs:  productIDs,
		Categories:  categories,
		Locale:      in.Locale,
	})
	if err != nil {
		*hardErr = multierr.Append(*hardErr, err)
		return
	}
	if res.Outcome == promotion.OutcomeRejected {
		result.Warnings = append(result.Warnings, res.Message)
	}
}
