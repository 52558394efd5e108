package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// ProductVariant is a sellable variation of a product with its own price
// and inventory record.
type ProductVariant struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID      `gorm:"column:product_id;type:uuid;not null;index"`
	Name             string         `gorm:"column:name;not null"`
	Price            float64        `gorm:"column:price;type:numeric(12,2);not null"`
	Currency         enums.Currency `gorm:"column:currency;not null;default:'USD'"`
	IsActive         bool           `gorm:"column:is_active;not null;default:true"`
	TrackQuantity    bool           `gorm:"column:track_quantity;not null;default:false"`
	Quantity         int            `gorm:"column:quantity;not null;default:0"`
	ReservedQuantity int            `gorm:"column:reserved_quantity;not null;default:0"`
	AllowBackorder   bool           `gorm:"column:allow_backorder;not null;default:false"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// AvailableQuantity returns sellable stock after reservations.
func (v *ProductVariant) AvailableQuantity() int {
	if v == nil {
		return 0
	}
	return v.Quantity - v.ReservedQuantity
}
