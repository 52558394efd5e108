package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvidales/storefront-backend/pkg/db"
	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
)

// Repository exposes order persistence used by promotion checks.
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

// CountCouponUsage returns how many of the user's orders used the coupon.
// Cancelled orders do not count toward per-user limits.
func (r *Repository) CountCouponUsage(ctx context.Context, userID uuid.UUID, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND coupon_code = ? AND status <> ?", userID, code, enums.OrderStatusCancelled).
		Count(&count).
		Error
	return count, err
}

// Create inserts a new order row.
func (r *Repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order already exists")
		}
		return nil, err
	}
	return order, nil
}
