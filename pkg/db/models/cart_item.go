package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// CartItem snapshots one cart line as submitted by the client. Immutable
// once handed to validation.
type CartItem struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID      `gorm:"column:cart_id;type:uuid;not null"`
	ProductID      uuid.UUID      `gorm:"column:product_id;type:uuid;not null"`
	VariantID      *uuid.UUID     `gorm:"column:variant_id;type:uuid"`
	Quantity       int            `gorm:"column:quantity;not null"`
	UnitPrice      float64        `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Currency       enums.Currency `gorm:"column:currency;not null;default:'USD'"`
	DurationMonths int            `gorm:"column:duration_months;not null;default:1"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
