package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/freshfold/freshfold-backend/pkg/db"
	"github.com/freshfold/freshfold-backend/pkg/db/models"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
	"github.com/freshfold/freshfold-backend/pkg/metrics"
)

type txRunner interface {
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order-writer operations.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderSummary, error)
	GetOrder(ctx context.Context, customerID uuid.UUID, orderNumber string) (*OrderSummary, error)
	UpdateOrderStatus(ctx context.Context, input StatusUpdateInput) error
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	numbers *NumberPolicy
	events  EventPublisher
	stats   *metrics.OrderMetrics
	logg    *logger.Logger
}

// NewService builds the order writer with the required dependencies. The event
// publisher and metrics are optional.
func NewService(repo Repository, tx txRunner, numbers *NumberPolicy, events EventPublisher, stats *metrics.OrderMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if numbers == nil {
		return nil, fmt.Errorf("number policy required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		numbers: numbers,
		events:  events,
		stats:   stats,
		logg:    logg,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderSummary, error) {
	if err := validateCreateOrder(input); err != nil {
		return nil, err
	}

	currency := input.Currency
	if currency == "" {
		currency = enums.CurrencyEUR
	}

	totals := ComputeTotals(input.Lines)
	orderNumber, fellBack := s.numbers.Generate(ctx, s.repo.OrderNumberExists)
	if fellBack {
		s.stats.IncNumberFallback()
		s.logg.Warn(s.logg.WithOrderNumber(ctx, orderNumber), "order number minted via timestamp fallback")
	}

	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		CustomerID:      input.Customer.ID,
		CustomerName:    input.Customer.Name,
		CustomerEmail:   input.Customer.Email,
		CustomerPhone:   input.Customer.Phone,
		PickupAddress:   input.PickupAddress,
		DeliveryAddress: input.DeliveryAddress,
		PickupDate:      input.PickupDate,
		DeliveryNotes:   input.DeliveryNotes,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		ShippingFee:     totals.ShippingFee,
		Total:           totals.Total,
		Currency:        currency,
		Status:          enums.OrderStatusPending,
		PaymentStatus:   enums.PaymentStatusPending,
	}

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number already taken")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}

		items := make([]models.OrderItem, 0, len(input.Lines))
		for _, line := range input.Lines {
			items = append(items, models.OrderItem{
				ID:        uuid.New(),
				OrderID:   created.ID,
				ItemID:    reconcileItemID(line.ItemID),
				ItemName:  line.Name,
				Quantity:  line.Quantity,
				UnitPrice: line.UnitPrice,
				Subtotal:  LineSubtotal(line),
			})
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order items")
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.stats.IncCreated(currency.String())
	s.publish(ctx, OrderEvent{
		Type:          EventOrderCreated,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total,
		Currency:      order.Currency,
		OccurredAt:    time.Now().UTC(),
	})

	summary := toSummary(order)
	return &summary, nil
}

func (s *service) GetOrder(ctx context.Context, customerID uuid.UUID, orderNumber string) (*OrderSummary, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if strings.TrimSpace(orderNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	order, err := s.repo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to customer")
	}

	summary := toSummary(order)
	return &summary, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, input StatusUpdateInput) error {
	if strings.TrimSpace(input.OrderNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if !input.PaymentStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
	}
	if input.PaymentMethod != nil && !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	err := s.repo.UpdateStatusByNumber(ctx, input.OrderNumber, input.Status, input.PaymentStatus, input.PaymentMethod)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	s.stats.IncPayment(input.PaymentStatus.String())
	s.publish(ctx, OrderEvent{
		Type:          EventOrderStatusUpdated,
		OrderNumber:   input.OrderNumber,
		Status:        input.Status,
		PaymentStatus: input.PaymentStatus,
		OccurredAt:    time.Now().UTC(),
	})
	return nil
}

func (s *service) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	stale, err := s.repo.FindPendingOrdersBefore(ctx, cutoff)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stale pending orders")
	}

	expired := 0
	for _, order := range stale {
		err := s.repo.UpdateStatusByNumber(ctx, order.OrderNumber, enums.OrderStatusExpired, enums.PaymentStatusExpired, nil)
		if err != nil {
			s.logg.Error(s.logg.WithOrderNumber(ctx, order.OrderNumber), "expiring stale order", err)
			continue
		}
		expired++
		s.publish(ctx, OrderEvent{
			Type:          EventOrderExpired,
			OrderNumber:   order.OrderNumber,
			CustomerID:    order.CustomerID,
			Status:        enums.OrderStatusExpired,
			PaymentStatus: enums.PaymentStatusExpired,
			Total:         order.Total,
			Currency:      order.Currency,
			OccurredAt:    time.Now().UTC(),
		})
	}
	return expired, nil
}

// publish is best-effort: event delivery failures never fail the write that
// already committed.
func (s *service) publish(ctx context.Context, event OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishOrderEvent(ctx, event); err != nil {
		s.logg.Error(s.logg.WithOrderNumber(ctx, event.OrderNumber), "publishing order event", err)
	}
}

func validateCreateOrder(input CreateOrderInput) error {
	if input.Customer.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if strings.TrimSpace(input.Customer.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name required")
	}
	if strings.TrimSpace(input.Customer.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email required")
	}
	if strings.TrimSpace(input.PickupAddress) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "pickup address required")
	}
	if strings.TrimSpace(input.DeliveryAddress) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "delivery address required")
	}
	if len(input.Lines) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if input.Currency != "" && !input.Currency.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid currency")
	}
	for _, line := range input.Lines {
		if strings.TrimSpace(line.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart line name required")
		}
		if line.Quantity < 1 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart line quantity must be at least 1")
		}
		if line.UnitPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart line price cannot be negative")
		}
	}
	return nil
}

// reconcileItemID validates the storefront-supplied item identifier. Placeholder
// identifiers from non-persisted catalog entries fail to parse; mint a fresh ID
// for the snapshot row instead of rejecting the order.
func reconcileItemID(raw string) uuid.UUID {
	if id, err := uuid.Parse(strings.TrimSpace(raw)); err == nil {
		return id
	}
	return uuid.New()
}

func toSummary(order *models.Order) OrderSummary {
	lines := make([]OrderLineSummary, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, OrderLineSummary{
			ItemID:    item.ItemID,
			ItemName:  item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return OrderSummary{
		OrderNumber:   order.OrderNumber,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		PaymentMethod: order.PaymentMethod,
		Currency:      order.Currency,
		Subtotal:      order.Subtotal,
		Tax:           order.Tax,
		ShippingFee:   order.ShippingFee,
		Total:         order.Total,
		Items:         lines,
		CreatedAt:     order.CreatedAt,
	}
}
