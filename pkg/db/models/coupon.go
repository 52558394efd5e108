package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mvidales/storefront-backend/pkg/enums"
)

// Coupon is a merchant-issued promotion code. Codes are stored upper-cased;
// lookups normalize before comparing.
type Coupon struct {
	ID                      uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code                    string             `gorm:"column:code;not null;uniqueIndex"`
	IsActive                bool               `gorm:"column:is_active;not null;default:true"`
	ValidFrom               *time.Time         `gorm:"column:valid_from"`
	ValidUntil              *time.Time         `gorm:"column:valid_until"`
	UsageCount              int                `gorm:"column:usage_count;not null;default:0"`
	UsageLimit              *int               `gorm:"column:usage_limit"`
	UserUsageLimit          *int               `gorm:"column:user_usage_limit"`
	MinOrderAmount          float64            `gorm:"column:min_order_amount;type:numeric(12,2);not null;default:0"`
	DiscountType            enums.DiscountType `gorm:"column:discount_type;not null"`
	DiscountValue           float64            `gorm:"column:discount_value;type:numeric(12,2);not null"`
	ApplicableProducts      pq.StringArray     `gorm:"column:applicable_products;type:text[]"`
	ApplicableCategories    pq.StringArray     `gorm:"column:applicable_categories;type:text[]"`
	ExcludedProducts        pq.StringArray     `gorm:"column:excluded_products;type:text[]"`
	NameTranslations        map[string]string  `gorm:"column:name_translations;type:jsonb;serializer:json"`
	DescriptionTranslations map[string]string  `gorm:"column:description_translations;type:jsonb;serializer:json"`
	CreatedAt               time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

const fallbackLocale = "en"

// Name returns the display name for the requested locale.
func (c *Coupon) Name(locale string) string {
	return pickTranslation(c.NameTranslations, locale, c.Code)
}

// Description returns the display description for the requested locale.
func (c *Coupon) Description(locale string) string {
	return pickTranslation(c.DescriptionTranslations, locale, "")
}

// UsageExhausted reports whether the global usage limit has been reached.
func (c *Coupon) UsageExhausted() bool {
	return c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit
}

func pickTranslation(translations map[string]string, locale, fallback string) string {
	if len(translations) == 0 {
		return fallback
	}
	if v, ok := translations[locale]; ok && v != "" {
		return v
	}
	if v, ok := translations[fallbackLocale]; ok && v != "" {
		return v
	}
	return fallback
}
