package promotion

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/money"
)

// ReferralReason is the structured outcome of a referral code probe. The
// resolver branches on the reason, never on message text.
type ReferralReason string

const (
	// ReferralApproved means the code resolved to an eligible referrer.
	ReferralApproved ReferralReason = "approved"
	// ReferralUnknownCode means no referral code matches; the resolver
	// falls through to the coupon lookup.
	ReferralUnknownCode ReferralReason = "unknown_code"
	// ReferralInactive means the code exists but has been disabled.
	ReferralInactive ReferralReason = "inactive"
	// ReferralSelfUse means the requesting user owns the code.
	ReferralSelfUse ReferralReason = "self_use"
	// ReferralReferrerInactive means the owning account is disabled.
	ReferralReferrerInactive ReferralReason = "referrer_inactive"
	// ReferralMinOrderNotMet means the order is below the code's threshold.
	ReferralMinOrderNotMet ReferralReason = "min_order_not_met"
)

// Rejects reports whether the reason terminates resolution with a rejection.
// Only an unknown code falls through to the coupon path.
func (r ReferralReason) Rejects() bool {
	return r != ReferralApproved && r != ReferralUnknownCode
}

// ReferralCheck is the result of probing a code against the referral tables.
type ReferralCheck struct {
	Reason         ReferralReason
	ReferrerID     uuid.UUID
	DiscountAmount float64
	Message        string
}

// ReferralValidator probes a code as a referral code for the given user and
// order amount. The subtotal caps the computed discount.
type ReferralValidator interface {
	Validate(ctx context.Context, code string, userID uuid.UUID, orderAmount, subtotal float64) (*ReferralCheck, error)
}

type referralFinder interface {
	FindReferralByCode(ctx context.Context, code string) (*models.ReferralCode, error)
}

type referrerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// DBReferralValidator validates referral codes against the referral_codes
// and users tables.
type DBReferralValidator struct {
	referrals referralFinder
	users     referrerFinder
}

// NewDBReferralValidator builds the database-backed referral validator.
func NewDBReferralValidator(referrals referralFinder, users referrerFinder) *DBReferralValidator {
	return &DBReferralValidator{referrals: referrals, users: users}
}

// Validate implements ReferralValidator.
func (v *DBReferralValidator) Validate(ctx context.Context, code string, userID uuid.UUID, orderAmount, subtotal float64) (*ReferralCheck, error) {
	row, err := v.referrals.FindReferralByCode(ctx, code)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			return &ReferralCheck{Reason: ReferralUnknownCode}, nil
		}
		return nil, err
	}

	if !row.IsActive {
		return &ReferralCheck{
			Reason:  ReferralInactive,
			Message: "Referral code is no longer active",
		}, nil
	}
	if row.ReferrerID == userID {
		return &ReferralCheck{
			Reason:  ReferralSelfUse,
			Message: "You cannot use your own referral code",
		}, nil
	}

	referrer, err := v.users.FindByID(ctx, row.ReferrerID)
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeNotFound {
			return &ReferralCheck{
				Reason:  ReferralReferrerInactive,
				Message: "Referral code is no longer active",
			}, nil
		}
		return nil, err
	}
	if !referrer.IsActive {
		return &ReferralCheck{
			Reason:  ReferralReferrerInactive,
			Message: "Referral code is no longer active",
		}, nil
	}

	if orderAmount < row.MinOrderAmount {
		return &ReferralCheck{
			Reason:  ReferralMinOrderNotMet,
			Message: fmt.Sprintf("Referral code requires a minimum order of %.2f", row.MinOrderAmount),
		}, nil
	}

	return &ReferralCheck{
		Reason:         ReferralApproved,
		ReferrerID:     row.ReferrerID,
		DiscountAmount: money.Discount(row.DiscountType, row.DiscountValue, subtotal),
	}, nil
}
