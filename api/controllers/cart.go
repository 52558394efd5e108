package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/api/middleware"
	"github.com/mvidales/storefront-backend/api/responses"
	"github.com/mvidales/storefront-backend/api/validators"
	"github.com/mvidales/storefront-backend/internal/promotion"
	"github.com/mvidales/storefront-backend/pkg/config"
	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/logger"
)

// CouponApplier is the slice of the promotion applier these handlers need.
type CouponApplier interface {
	Apply(ctx context.Context, userID, cartID uuid.UUID, code, locale string) (*promotion.ApplyResult, error)
}

type applyCouponRequest struct {
	CouponCode string `json:"coupon_code" validate:"required,max=64"`
	Language   string `json:"language,omitempty" validate:"omitempty,len=2"`
}

type cartItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	ProductID      uuid.UUID  `json:"product_id"`
	VariantID      *uuid.UUID `json:"variant_id,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPrice      float64    `json:"unit_price"`
	Currency       string     `json:"currency"`
	DurationMonths int        `json:"duration_months"`
}

type cartResponse struct {
	ID                   uuid.UUID          `json:"id"`
	Status               string             `json:"status"`
	FulfillmentType      string             `json:"fulfillment_type"`
	Currency             string             `json:"currency"`
	CouponCode           *string            `json:"coupon_code,omitempty"`
	CouponDiscountAmount float64            `json:"coupon_discount_amount"`
	IsReferralCode       bool               `json:"is_referral_code"`
	Version              int                `json:"version"`
	Items                []cartItemResponse `json:"items"`
}

type couponOutcomeResponse struct {
	Success    bool                  `json:"success"`
	Message    string                `json:"message,omitempty"`
	Cart       *cartResponse         `json:"cart,omitempty"`
	CouponCode string                `json:"coupon_code,omitempty"`
	Coupon     *promotion.CouponInfo `json:"coupon,omitempty"`
}

// ApplyCoupon applies a coupon or referral code to the caller's cart. A
// rejected code is a successful HTTP exchange; the body carries the rejection
// message and the cart with its promotion fields cleared.
func ApplyCoupon(applier CouponApplier, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID, err := parseCartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		locale := payload.Language
		if locale == "" {
			locale = cfg.Checkout.DefaultLocale
		}

		result, err := applier.Apply(r.Context(), userID, cartID, payload.CouponCode, locale)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, couponOutcome(result))
	}
}

// RemoveCoupon clears any applied promotion from the caller's cart.
func RemoveCoupon(applier CouponApplier, cfg *config.Config, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := middleware.RequireUserID(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cartID, err := parseCartID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := applier.Apply(r.Context(), userID, cartID, "", cfg.Checkout.DefaultLocale)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, couponOutcome(result))
	}
}

func parseCartID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "cartID")
	cartID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart id")
	}
	return cartID, nil
}

func couponOutcome(result *promotion.ApplyResult) couponOutcomeResponse {
	out := couponOutcomeResponse{
		Success: result.Resolution.Outcome != promotion.OutcomeRejected,
		Message: result.Resolution.Message,
		Cart:    toCartResponse(result.Cart),
	}
	if result.Resolution.Outcome == promotion.OutcomeApplied {
		out.CouponCode = result.Resolution.Code
		out.Coupon = result.Resolution.Coupon
	}
	return out
}

func toCartResponse(cart *models.Cart) *cartResponse {
	if cart == nil {
		return nil
	}
	items := make([]cartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemResponse{
			ID:             item.ID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			Currency:       string(item.Currency),
			DurationMonths: item.DurationMonths,
		})
	}
	return &cartResponse{
		ID:                   cart.ID,
		Status:               string(cart.Status),
		FulfillmentType:      string(cart.FulfillmentType),
		Currency:             string(cart.Currency),
		CouponCode:           cart.CouponCode,
		CouponDiscountAmount: cart.CouponDiscountAmount,
		IsReferralCode:       cart.IsReferralCode,
		Version:              cart.Version,
		Items:                items,
	}
}
