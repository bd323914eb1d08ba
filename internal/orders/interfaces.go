package orders

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/pkg/db/models"
	"github.com/freshfold/freshfold-backend/pkg/enums"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	UpdateStatusByNumber(ctx context.Context, orderNumber string, status enums.OrderStatus, paymentStatus enums.PaymentStatus, paymentMethod *enums.PaymentMethod) error
	FindPendingOrdersBefore(ctx context.Context, cutoff time.Time) ([]models.Order, error)
}
