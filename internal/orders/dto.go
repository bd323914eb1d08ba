package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/freshfold-backend/pkg/enums"
)

// Customer identifies who is placing the order.
type Customer struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone *string
}

// CartLine is one storefront cart entry. ItemID is kept as a string because the
// storefront may send a non-persisted placeholder identifier; see reconcileItemID.
type CartLine struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateOrderInput carries everything needed to persist a new order.
type CreateOrderInput struct {
	Customer        Customer
	Lines           []CartLine
	PickupAddress   string
	DeliveryAddress string
	PickupDate      *time.Time
	DeliveryNotes   *string
	Currency        enums.Currency
}

// StatusUpdateInput describes an in-place order status transition.
type StatusUpdateInput struct {
	OrderNumber   string
	Status        enums.OrderStatus
	PaymentStatus enums.PaymentStatus
	PaymentMethod *enums.PaymentMethod
}

// OrderLineSummary is one persisted line item as returned to clients.
type OrderLineSummary struct {
	ItemID    uuid.UUID       `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderSummary is the client-facing view of a persisted order.
type OrderSummary struct {
	OrderNumber   string               `json:"order_number"`
	Status        enums.OrderStatus    `json:"status"`
	PaymentStatus enums.PaymentStatus  `json:"payment_status"`
	PaymentMethod *enums.PaymentMethod `json:"payment_method,omitempty"`
	Currency      enums.Currency       `json:"currency"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Tax           decimal.Decimal      `json:"tax"`
	ShippingFee   decimal.Decimal      `json:"shipping_fee"`
	Total         decimal.Decimal      `json:"total"`
	Items         []OrderLineSummary   `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
}
