package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Cart{}, &models.CartItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedCart(t *testing.T, conn *gorm.DB, userID uuid.UUID) *models.Cart {
	t.Helper()
	record := &models.Cart{
		ID:              uuid.New(),
		UserID:          userID,
		Status:          enums.CartStatusActive,
		FulfillmentType: enums.FulfillmentOneTime,
		Currency:        enums.CurrencyUSD,
		Version:         1,
	}
	if err := conn.Create(record).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	item := &models.CartItem{
		ID:             uuid.New(),
		CartID:         record.ID,
		ProductID:      uuid.New(),
		Quantity:       1,
		UnitPrice:      10,
		Currency:       enums.CurrencyUSD,
		DurationMonths: 1,
	}
	if err := conn.Create(item).Error; err != nil {
		t.Fatalf("seed cart item: %v", err)
	}
	return record
}

func TestFindByIDAndUserEnforcesOwnership(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	record := seedCart(t, conn, userID)

	found, err := repo.FindByIDAndUser(ctx, record.ID, userID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(found.Items) != 1 {
		t.Fatalf("items not preloaded: %d", len(found.Items))
	}

	_, err = repo.FindByIDAndUser(ctx, record.ID, uuid.New())
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign user, got %v", err)
	}
}

func TestSetPromotionVersionGuard(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := seedCart(t, conn, uuid.New())
	code := "SAVE10"

	err := repo.SetPromotion(ctx, record.ID, record.Version, PromotionUpdate{
		CouponCode:     &code,
		DiscountAmount: 10,
	})
	if err != nil {
		t.Fatalf("set promotion: %v", err)
	}

	found, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if found.CouponCode == nil || *found.CouponCode != code {
		t.Fatalf("coupon code not written")
	}
	if found.CouponDiscountAmount != 10 {
		t.Fatalf("discount not written: %.2f", found.CouponDiscountAmount)
	}
	if found.Version != 2 {
		t.Fatalf("version not bumped: %d", found.Version)
	}

	// Stale version must not win.
	stale := "OTHER"
	err = repo.SetPromotion(ctx, record.ID, record.Version, PromotionUpdate{
		CouponCode:     &stale,
		DiscountAmount: 5,
	})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}

	found, err = repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if *found.CouponCode != code {
		t.Fatalf("stale writer overwrote promotion")
	}
}

func TestSetPromotionNilCodeClearsAmount(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := seedCart(t, conn, uuid.New())
	code := "SAVE10"
	if err := repo.SetPromotion(ctx, record.ID, 1, PromotionUpdate{CouponCode: &code, DiscountAmount: 10, IsReferral: true}); err != nil {
		t.Fatalf("set promotion: %v", err)
	}

	if err := repo.SetPromotion(ctx, record.ID, 2, PromotionUpdate{CouponCode: nil, DiscountAmount: 99}); err != nil {
		t.Fatalf("clear via set: %v", err)
	}

	found, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if found.CouponCode != nil || found.CouponDiscountAmount != 0 || found.IsReferralCode {
		t.Fatalf("promotion not fully cleared: %+v", found)
	}
}

func TestClearPromotionIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	record := seedCart(t, conn, uuid.New())
	code := "SAVE10"
	if err := repo.SetPromotion(ctx, record.ID, 1, PromotionUpdate{CouponCode: &code, DiscountAmount: 10}); err != nil {
		t.Fatalf("set promotion: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := repo.ClearPromotion(ctx, record.ID); err != nil {
			t.Fatalf("clear promotion attempt %d: %v", i+1, err)
		}
	}

	found, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if found.HasPromotion() {
		t.Fatalf("promotion survived clear: %+v", found)
	}
}
