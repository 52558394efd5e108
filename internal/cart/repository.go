package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
)

// Repository exposes persistence operations for carts and their items.
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

// FindByID loads a cart with its items.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	var row models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ?", id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, err
	}
	return &row, nil
}

// FindByIDAndUser loads a cart with its items, scoped to the owning user.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.Cart, error) {
	var row models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&row, "id = ? AND user_id = ?", id, userID).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, err
	}
	return &row, nil
}

// PromotionUpdate carries the promotion columns written by SetPromotion.
// A nil CouponCode clears the promotion.
type PromotionUpdate struct {
	CouponCode     *string
	DiscountAmount float64
	IsReferral     bool
}

// SetPromotion writes the promotion columns guarded by the cart's version
// counter. The update only lands when the version still matches the value the
// caller read, so two concurrent appliers cannot both win. A stale version
// yields CodeStateConflict and the caller is expected to re-read the cart.
func (r *Repository) SetPromotion(ctx context.Context, cartID uuid.UUID, expectedVersion int, update PromotionUpdate) error {
	values := map[string]any{
		"coupon_code":            update.CouponCode,
		"coupon_discount_amount": update.DiscountAmount,
		"is_referral_code":       update.IsReferral,
		"version":                gorm.Expr("version + 1"),
	}
	if update.CouponCode == nil {
		values["coupon_discount_amount"] = float64(0)
		values["is_referral_code"] = false
	}

	res := r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ? AND version = ?", cartID, expectedVersion).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "cart was modified concurrently")
	}
	return nil
}

// ClearPromotion removes any applied promotion from the cart. Unlike
// SetPromotion it is unconditional; clearing is idempotent and safe to apply
// regardless of concurrent edits.
func (r *Repository) ClearPromotion(ctx context.Context, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"coupon_code":            nil,
			"coupon_discount_amount": float64(0),
			"is_referral_code":       false,
			"version":                gorm.Expr("version + 1"),
		}).
		Error
}
