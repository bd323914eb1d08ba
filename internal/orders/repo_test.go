package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/pkg/db/models"
	"github.com/freshfold/freshfold-backend/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  customer_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT,
  pickup_address TEXT NOT NULL,
  delivery_address TEXT NOT NULL,
  pickup_date DATETIME,
  delivery_notes TEXT,
  subtotal NUMERIC NOT NULL,
  tax NUMERIC NOT NULL,
  shipping_fee NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  currency TEXT NOT NULL DEFAULT 'EUR',
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  item_name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  unit_price NUMERIC NOT NULL,
  subtotal NUMERIC NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, gdb.Exec(ordersTable).Error)
	require.NoError(t, gdb.Exec(orderItems).Error)
	return gdb
}

func newOrder(number string, customerID uuid.UUID) *models.Order {
	return &models.Order{
		ID:              uuid.New(),
		OrderNumber:     number,
		CustomerID:      customerID,
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		PickupAddress:   "Main St 1",
		DeliveryAddress: "Main St 1",
		Subtotal:        decimal.RequireFromString("24.99"),
		Tax:             decimal.RequireFromString("5.25"),
		ShippingFee:     decimal.Zero,
		Total:           decimal.RequireFromString("30.24"),
		Currency:        enums.CurrencyEUR,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
	}
}

func TestRepositoryCreateAndFind(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	customerID := uuid.New()
	order, err := repo.CreateOrder(ctx, newOrder("ORD-123456", customerID))
	require.NoError(t, err)

	require.NoError(t, repo.CreateOrderItems(ctx, []models.OrderItem{{
		ID:        uuid.New(),
		OrderID:   order.ID,
		ItemID:    uuid.New(),
		ItemName:  "Duvet",
		Quantity:  1,
		UnitPrice: decimal.RequireFromString("24.99"),
		Subtotal:  decimal.RequireFromString("24.99"),
	}}))

	found, err := repo.FindByOrderNumber(ctx, "ORD-123456")
	require.NoError(t, err)
	assert.Equal(t, customerID, found.CustomerID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Duvet", found.Items[0].ItemName)
}

func TestRepositoryOrderNumberExists(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	_, err := repo.CreateOrder(ctx, newOrder("ORD-111111", uuid.New()))
	require.NoError(t, err)

	exists, err := repo.OrderNumberExists(ctx, "ORD-111111")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.OrderNumberExists(ctx, "ORD-222222")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRepositoryUniqueOrderNumberEnforced(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	_, err := repo.CreateOrder(ctx, newOrder("ORD-333333", uuid.New()))
	require.NoError(t, err)

	_, err = repo.CreateOrder(ctx, newOrder("ORD-333333", uuid.New()))
	require.Error(t, err)
}

func TestRepositoryUpdateStatusByNumber(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	_, err := repo.CreateOrder(ctx, newOrder("ORD-444444", uuid.New()))
	require.NoError(t, err)

	method := enums.PaymentMethodCard
	require.NoError(t, repo.UpdateStatusByNumber(ctx, "ORD-444444", enums.OrderStatusProcessing, enums.PaymentStatusPaid, &method))

	updated, err := repo.FindByOrderNumber(ctx, "ORD-444444")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, updated.Status)
	assert.Equal(t, enums.PaymentStatusPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentMethod)
	assert.Equal(t, enums.PaymentMethodCard, *updated.PaymentMethod)

	err = repo.UpdateStatusByNumber(ctx, "ORD-999999", enums.OrderStatusProcessing, enums.PaymentStatusPaid, nil)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryFindPendingOrdersBefore(t *testing.T) {
	gdb := setupOrdersTestDB(t)
	repo := NewRepository(gdb)
	ctx := context.Background()

	stale := newOrder("ORD-555555", uuid.New())
	stale.CreatedAt = time.Now().Add(-72 * time.Hour)
	_, err := repo.CreateOrder(ctx, stale)
	require.NoError(t, err)

	fresh := newOrder("ORD-666666", uuid.New())
	_, err = repo.CreateOrder(ctx, fresh)
	require.NoError(t, err)

	found, err := repo.FindPendingOrdersBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "ORD-555555", found[0].OrderNumber)
}
