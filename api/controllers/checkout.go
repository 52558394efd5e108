package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/api/middleware"
	"github.com/mvidales/storefront-backend/api/responses"
	"github.com/mvidales/storefront-backend/api/validators"
	checkoutsvc "github.com/mvidales/storefront-backend/internal/checkout"
	"github.com/mvidales/storefront-backend/pkg/config"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/enums"
	"github.com/mvidales/storefront-backend/pkg/logger"
)

// CheckoutValidator is the slice of the checkout service this handler needs.
type CheckoutValidator interface {
	Validate(ctx context.Context, in checkoutsvc.ValidateInput) (*checkoutsvc.ValidationResult, error)
}

type priceRequest struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"required,oneof=USD EUR GBP"`
}

type validateItemRequest struct {
	ProductID      uuid.UUID    `json:"product_id" validate:"required"`
	VariantID      *uuid.UUID   `json:"variant_id,omitempty"`
	Quantity       int          `json:"quantity" validate:"required,gt=0"`
	Price          priceRequest `json:"price" validate:"required"`
	DurationMonths int          `json:"duration_months,omitempty" validate:"omitempty,gt=0"`
}

type membershipRequest struct {
	IsMember      bool    `json:"is_member"`
	DiscountType  string  `json:"discount_type,omitempty"`
	DiscountValue float64 `json:"discount_value,omitempty" validate:"gte=0"`
}

type familyMemberRequest struct {
	IsBuyingForFamily bool      `json:"is_buying_for_family"`
	FamilyMemberID    uuid.UUID `json:"family_member_id,omitempty"`
}

type validateCheckoutRequest struct {
	Items             []validateItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddressID uuid.UUID             `json:"shipping_address_id" validate:"required"`
	BillingAddressID  *uuid.UUID            `json:"billing_address_id,omitempty"`
	Membership        *membershipRequest    `json:"membership,omitempty"`
	FamilyMember      *familyMemberRequest  `json:"family_member,omitempty"`
	CouponCode        string                `json:"coupon_code,omitempty"`
	FulfillmentType   string                `json:"fulfillment_type,omitempty" validate:"omitempty,oneof=one_time subscription"`
}

// ValidateCheckout runs every pre-checkout validation phase and returns the
// aggregated report. It never mutates the caller's cart.
func ValidateCheckout(svc CheckoutValidator, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload validateCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		locale, err := validators.ParseQueryLocale(r, cfg.Checkout.DefaultLocale)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(userID, locale)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Validate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

func (p validateCheckoutRequest) toInput(userID uuid.UUID, locale string) (checkoutsvc.ValidateInput, error) {
	fulfillment := enums.FulfillmentOneTime
	if p.FulfillmentType != "" {
		parsed, err := enums.ParseFulfillmentType(p.FulfillmentType)
		if err != nil {
			return checkoutsvc.ValidateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid fulfillment type")
		}
		fulfillment = parsed
	}

	items := make([]checkoutsvc.ItemInput, 0, len(p.Items))
	for _, item := range p.Items {
		currency, err := enums.ParseCurrency(item.Price.Currency)
		if err != nil {
			return checkoutsvc.ValidateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item currency")
		}
		duration := item.DurationMonths
		if duration == 0 {
			duration = 1
		}
		items = append(items, checkoutsvc.ItemInput{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPrice:      item.Price.Amount,
			Currency:       currency,
			DurationMonths: duration,
		})
	}

	input := checkoutsvc.ValidateInput{
		UserID:            userID,
		Items:             items,
		ShippingAddressID: p.ShippingAddressID,
		BillingAddressID:  p.BillingAddressID,
		CouponCode:        p.CouponCode,
		FulfillmentType:   fulfillment,
		Locale:            locale,
	}

	if p.Membership != nil {
		membership := &checkoutsvc.MembershipInput{IsMember: p.Membership.IsMember}
		if p.Membership.DiscountType != "" {
			if parsed, err := enums.ParseDiscountType(p.Membership.DiscountType); err == nil {
				membership.DiscountType = parsed
			}
		}
		membership.DiscountValue = p.Membership.DiscountValue
		input.Membership = membership
	}

	if p.FamilyMember != nil {
		input.Family = &checkoutsvc.FamilyInput{
			IsBuyingForFamily: p.FamilyMember.IsBuyingForFamily,
			FamilyMemberID:    p.FamilyMember.FamilyMemberID,
		}
	}

	return input, nil
}
