package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/freshfold-backend/pkg/enums"
)

// Order is a placed storefront order. Monetary columns are stored as numeric(10,2);
// total = subtotal + tax + shipping_fee is enforced at write time, not by the schema.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID      uuid.UUID            `gorm:"column:customer_id;type:uuid;not null"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerEmail   string               `gorm:"column:customer_email;not null"`
	CustomerPhone   *string              `gorm:"column:customer_phone"`
	PickupAddress   string               `gorm:"column:pickup_address;not null"`
	DeliveryAddress string               `gorm:"column:delivery_address;not null"`
	PickupDate      *time.Time           `gorm:"column:pickup_date"`
	DeliveryNotes   *string              `gorm:"column:delivery_notes"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax             decimal.Decimal      `gorm:"column:tax;type:numeric(10,2);not null"`
	ShippingFee     decimal.Decimal      `gorm:"column:shipping_fee;type:numeric(10,2);not null"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(10,2);not null"`
	Currency        enums.Currency       `gorm:"column:currency;type:text;not null;default:'EUR'"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentMethod   *enums.PaymentMethod `gorm:"column:payment_method;type:text"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
