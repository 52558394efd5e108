package orders

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.Order{}))
	return conn
}

func seedOrder(t *testing.T, conn *gorm.DB, userID uuid.UUID, code string, status enums.OrderStatus) {
	t.Helper()
	var couponCode *string
	if code != "" {
		couponCode = &code
	}
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Status:      status,
		CouponCode:  couponCode,
		TotalAmount: 50,
		Currency:    enums.CurrencyUSD,
	}
	require.NoError(t, conn.Create(order).Error)
}

func TestCountCouponUsageExcludesCancelled(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	userID := uuid.New()
	otherUser := uuid.New()

	seedOrder(t, conn, userID, "SAVE10", enums.OrderStatusCompleted)
	seedOrder(t, conn, userID, "SAVE10", enums.OrderStatusPending)
	seedOrder(t, conn, userID, "SAVE10", enums.OrderStatusCancelled)
	seedOrder(t, conn, userID, "OTHER", enums.OrderStatusCompleted)
	seedOrder(t, conn, userID, "", enums.OrderStatusCompleted)
	seedOrder(t, conn, otherUser, "SAVE10", enums.OrderStatusCompleted)

	count, err := repo.CountCouponUsage(ctx, userID, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountCouponUsage(ctx, userID, "UNUSED")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCreatePersistsOrder(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	code := "SAVE10"
	order, err := repo.Create(ctx, &models.Order{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Status:      enums.OrderStatusPending,
		CouponCode:  &code,
		TotalAmount: 99.5,
		Currency:    enums.CurrencyUSD,
	})
	require.NoError(t, err)

	var got models.Order
	require.NoError(t, conn.First(&got, "id = ?", order.ID).Error)
	assert.Equal(t, order.UserID, got.UserID)
	assert.Equal(t, 99.5, got.TotalAmount)
	require.NotNil(t, got.CouponCode)
	assert.Equal(t, "SAVE10", *got.CouponCode)
}
