package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// ReferralCode ties a shareable code to the referring user. Shares a lookup
// namespace with coupon codes; referral resolution runs first.
type ReferralCode struct {
	ID             uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code           string             `gorm:"column:code;not null;uniqueIndex"`
	ReferrerID     uuid.UUID          `gorm:"column:referrer_id;type:uuid;not null"`
	IsActive       bool               `gorm:"column:is_active;not null;default:true"`
	DiscountType   enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue  float64            `gorm:"column:discount_value;type:numeric(12,2);not null"`
	MinOrderAmount float64            `gorm:"column:min_order_amount;type:numeric(12,2);not null;default:0"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
