package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
)

// Repository exposes user persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a user row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var row models.User
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, err
	}
	return &row, nil
}

// FindActive loads a user row and rejects disabled accounts.
func (r *Repository) FindActive(ctx context.Context, id uuid.UUID) (*models.User, error) {
	row, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !row.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "user account is disabled")
	}
	return row, nil
}
