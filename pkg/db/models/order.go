package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// Order is the minimal order-history row the engine consults when counting
// per-user coupon redemptions. Order creation itself lives elsewhere.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Status      enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	CouponCode  *string           `gorm:"column:coupon_code"`
	TotalAmount float64           `gorm:"column:total_amount;type:numeric(12,2);not null;default:0"`
	Currency    enums.Currency    `gorm:"column:currency;not null;default:'USD'"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
