package coupons

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
)

// NormalizeCode canonicalizes a coupon or referral code for lookup.
// Codes are stored uppercase; user input arrives in any casing with
// incidental whitespace.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Repository exposes coupon and referral code persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByCode loads a coupon by its normalized code. A missing row yields
// CodeNotFound so callers can distinguish absence from infrastructure
// failures.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var row models.Coupon
	err := r.db.WithContext(ctx).First(&row, "code = ?", NormalizeCode(code)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "coupon not found")
		}
		return nil, err
	}
	return &row, nil
}

// FindReferralByCode loads a referral code row by its normalized code.
func (r *Repository) FindReferralByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	var row models.ReferralCode
	err := r.db.WithContext(ctx).First(&row, "code = ?", NormalizeCode(code)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "referral code not found")
		}
		return nil, err
	}
	return &row, nil
}

// IncrementUsage bumps the coupon's global usage counter. The guard clause
// keeps the counter under the usage limit even when two appliers race.
func (r *Repository) IncrementUsage(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Coupon{}).
		Where("code = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", NormalizeCode(code)).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "coupon usage limit reached")
	}
	return nil
}
