package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"gorm.io/gorm"
)

// Product is the canonical catalog listing.
type Product struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string           `gorm:"column:name;not null"`
	Price      float64          `gorm:"column:price;type:numeric(12,2);not null"`
	Categories pq.StringArray   `gorm:"column:categories;type:text[]"`
	IsActive   bool             `gorm:"column:is_active;not null;default:true"`
	Variants   []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt  gorm.DeletedAt   `gorm:"column:deleted_at;index"`
}

// ActiveVariants returns the variants currently purchasable.
func (p *Product) ActiveVariants() []ProductVariant {
	if p == nil {
		return nil
	}
	out := make([]ProductVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		if v.IsActive {
			out = append(out, v)
		}
	}
	return out
}
