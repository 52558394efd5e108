package promotion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/internal/coupons"
	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/money"
)

// Outcome is the terminal state of a promotion resolution.
type Outcome string

const (
	// OutcomeNone means no code was supplied; any existing promotion is
	// cleared and resolution stops.
	OutcomeNone Outcome = "none"
	// OutcomeApplied means the code validated and a discount was computed.
	OutcomeApplied Outcome = "applied"
	// OutcomeRejected means the code failed a rule; Message carries the
	// specific reason.
	OutcomeRejected Outcome = "rejected"
)

// CouponInfo is the display payload for an applied coupon.
type CouponInfo struct {
	Code           string             `json:"code"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	Type           enums.DiscountType `json:"type"`
	Value          float64            `json:"value"`
	DiscountAmount float64            `json:"discount_amount"`
}

// Resolution is the outcome of resolving a single code against a cart.
// Resolve never mutates anything; persistence is the Applier's job.
type Resolution struct {
	Outcome        Outcome
	Code           string
	IsReferral     bool
	DiscountAmount float64
	Coupon         *CouponInfo
	Message        string
}

type couponSource interface {
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
}

type usageCounter interface {
	CountCouponUsage(ctx context.Context, userID uuid.UUID, code string) (int64, error)
}

// Resolver decides whether a code is a referral code or a coupon, validates
// the applicable rules, and computes the discount. Referral resolution runs
// first; the two mechanisms are mutually exclusive.
type Resolver struct {
	coupons   couponSource
	referrals ReferralValidator
	orders    usageCounter
	now       func() time.Time
}

// NewResolver builds a resolver over the coupon, referral, and order-history
// sources.
func NewResolver(couponStore couponSource, referrals ReferralValidator, orders usageCounter) *Resolver {
	return &Resolver{
		coupons:   couponStore,
		referrals: referrals,
		orders:    orders,
		now:       time.Now,
	}
}

// ResolveInput carries everything resolution needs. Subtotal caps discount
// computation; OrderAmount is the pre-promotion payable figure used for
// minimum-order rules. ProductIDs and Categories feed applicability checks.
type ResolveInput struct {
	UserID      uuid.UUID
	Code        string
	Subtotal    float64
	OrderAmount float64
	ProductIDs  []string
	Categories  []string
	Locale      string
}

// Resolve runs the promotion state machine for one code. Returned errors are
// infrastructure failures only; rule rejections come back as OutcomeRejected
// with a human-readable message.
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (*Resolution, error) {
	code := coupons.NormalizeCode(in.Code)
	if code == "" {
		return &Resolution{Outcome: OutcomeNone}, nil
	}

	check, err := r.referrals.Validate(ctx, code, in.UserID, in.OrderAmount, in.Subtotal)
	if err != nil {
		return nil, err
	}
	switch {
	case check.Reason == ReferralApproved:
		return &Resolution{
			Outcome:        OutcomeApplied,
			Code:           code,
			IsReferral:     true,
			DiscountAmount: check.DiscountAmount,
		}, nil
	case check.Reason.Rejects():
		return &Resolution{
			Outcome: OutcomeRejected,
			Code:    code,
			Message: check.Message,
		}, nil
	}

	return r.resolveCoupon(ctx, code, in)
}

func (r *Resolver) resolveCoupon(ctx context.Context, code string, in ResolveInput) (*Resolution, error) {
	reject := func(message string) *Resolution {
		return &Resolution{Outcome: OutcomeRejected, Code: code, Message: message}
	}

	coupon, err := r.coupons.FindByCode(ctx, code)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			return reject("Invalid coupon code"), nil
		}
		return nil, err
	}

	if !coupon.IsActive {
		return reject("Coupon is not active"), nil
	}

	now := r.now()
	if coupon.ValidFrom != nil && now.Before(*coupon.ValidFrom) {
		return reject("Coupon is not yet valid"), nil
	}
	if coupon.ValidUntil != nil && now.After(*coupon.ValidUntil) {
		return reject("Coupon has expired"), nil
	}

	if coupon.UsageExhausted() {
		return reject("Coupon usage limit has been reached"), nil
	}
	if coupon.UserUsageLimit != nil {
		used, err := r.orders.CountCouponUsage(ctx, in.UserID, code)
		if err != nil {
			return nil, err
		}
		if used >= int64(*coupon.UserUsageLimit) {
			return reject("You have reached the usage limit for this coupon"), nil
		}
	}

	if in.OrderAmount < coupon.MinOrderAmount {
		return reject(fmt.Sprintf("Minimum order amount of %.2f is required to use this coupon", coupon.MinOrderAmount)), nil
	}

	if msg := applicabilityFailure(coupon, in.ProductIDs, in.Categories); msg != "" {
		return reject(msg), nil
	}

	amount := money.Discount(coupon.DiscountType, coupon.DiscountValue, in.Subtotal)
	return &Resolution{
		Outcome:        OutcomeApplied,
		Code:           code,
		DiscountAmount: amount,
		Coupon: &CouponInfo{
			Code:           code,
			Name:           coupon.Name(in.Locale),
			Description:    coupon.Description(in.Locale),
			Type:           coupon.DiscountType,
			Value:          coupon.DiscountValue,
			DiscountAmount: amount,
		},
	}, nil
}

// applicabilityFailure checks the coupon's product and category scoping
// against the cart contents. Exclusions win over inclusions.
func applicabilityFailure(coupon *models.Coupon, productIDs, categories []string) string {
	if len(coupon.ExcludedProducts) > 0 && intersects(coupon.ExcludedProducts, productIDs) {
		return "Coupon cannot be applied to one or more items in your cart"
	}

	restricted := len(coupon.ApplicableProducts) > 0 || len(coupon.ApplicableCategories) > 0
	if !restricted {
		return ""
	}
	if intersects(coupon.ApplicableProducts, productIDs) {
		return ""
	}
	if intersects(coupon.ApplicableCategories, categories) {
		return ""
	}
	return "Coupon is not applicable to the items in your cart"
}

func intersects(list []string, values []string) bool {
	if len(list) == 0 || len(values) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(list))
	for _, v := range list {
		set[v] = struct{}{}
	}
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
