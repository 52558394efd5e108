package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// Cart is the mutable pre-order container for a single user. Promotion
// fields change only through the atomic SetPromotion path; validation reads
// never mutate a cart.
type Cart struct {
	ID                   uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID               uuid.UUID             `gorm:"column:user_id;type:uuid;not null"`
	Status               enums.CartStatus      `gorm:"column:status;not null;default:'active'"`
	FulfillmentType      enums.FulfillmentType `gorm:"column:fulfillment_type;not null;default:'one_time'"`
	Currency             enums.Currency        `gorm:"column:currency;not null;default:'USD'"`
	CouponCode           *string               `gorm:"column:coupon_code"`
	CouponDiscountAmount float64               `gorm:"column:coupon_discount_amount;type:numeric(12,2);not null;default:0"`
	IsReferralCode       bool                  `gorm:"column:is_referral_code;not null;default:false"`
	Version              int                   `gorm:"column:version;not null;default:1"`
	Items                []CartItem            `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// HasPromotion reports whether a promotion is currently applied.
func (c *Cart) HasPromotion() bool {
	return c != nil && c.CouponCode != nil && c.CouponDiscountAmount > 0
}
