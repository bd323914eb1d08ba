package confirmation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/freshfold/freshfold-backend/internal/orders"
	"github.com/freshfold/freshfold-backend/internal/payments"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type orderWriter interface {
	CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderSummary, error)
	GetOrder(ctx context.Context, customerID uuid.UUID, orderNumber string) (*orders.OrderSummary, error)
	UpdateOrderStatus(ctx context.Context, input orders.StatusUpdateInput) error
}

type sessionCreator interface {
	CreateSession(ctx context.Context, input payments.CreateSessionInput) (*payments.Session, error)
}

// PayInput describes a payment submission for a saved order.
type PayInput struct {
	CustomerID    uuid.UUID
	OrderNumber   string
	PaymentMethod enums.PaymentMethod
	RedirectURL   string
}

// PayResult carries the hosted checkout handle back to the client.
type PayResult struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Service orchestrates the order-confirmation flow: persist the order once,
// then open a payment session and advance the order state.
type Service interface {
	EnsureOrder(ctx context.Context, orderNumber string, input orders.CreateOrderInput) (*orders.OrderSummary, error)
	Pay(ctx context.Context, input PayInput) (*PayResult, error)
}

type service struct {
	orders   orderWriter
	sessions sessionCreator
	logg     *logger.Logger
}

// NewService builds the confirmation-flow orchestrator.
func NewService(orderSvc orderWriter, sessionSvc sessionCreator, logg *logger.Logger) (Service, error) {
	if orderSvc == nil {
		return nil, fmt.Errorf("order writer required")
	}
	if sessionSvc == nil {
		return nil, fmt.Errorf("session creator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{orders: orderSvc, sessions: sessionSvc, logg: logg}, nil
}

// EnsureOrder returns the already-saved order when orderNumber resolves, and
// creates it otherwise. This backs the at-most-once guard on the client plus
// the defensive re-check before payment submission.
func (s *service) EnsureOrder(ctx context.Context, orderNumber string, input orders.CreateOrderInput) (*orders.OrderSummary, error) {
	if strings.TrimSpace(orderNumber) != "" {
		existing, err := s.orders.GetOrder(ctx, input.Customer.ID, orderNumber)
		if err == nil {
			return existing, nil
		}
		if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
			return nil, err
		}
		// Not found: fall through and persist.
	}
	return s.orders.CreateOrder(ctx, input)
}

// Pay opens a hosted payment session for a saved order and moves it to
// processing/paid. Provider failures leave the order pending/pending so the
// submission stays retryable.
func (s *service) Pay(ctx context.Context, input PayInput) (*PayResult, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	if strings.TrimSpace(input.OrderNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}
	if strings.TrimSpace(input.RedirectURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redirect url required")
	}

	order, err := s.orders.GetOrder(ctx, input.CustomerID, input.OrderNumber)
	if err != nil {
		return nil, err
	}
	if order.PaymentStatus == enums.PaymentStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order already paid")
	}
	// Only a fresh pending/pending order may open a session; expired or
	// cancelled orders must not be resurrected by a late payment submission.
	if order.Status != enums.OrderStatusPending || order.PaymentStatus != enums.PaymentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order not payable in state %s/%s", order.Status, order.PaymentStatus))
	}

	ctx = s.logg.WithOrderNumber(ctx, order.OrderNumber)

	session, err := s.sessions.CreateSession(ctx, payments.CreateSessionInput{
		Amount:      order.Total,
		Currency:    order.Currency.String(),
		Description: fmt.Sprintf("Order %s", order.OrderNumber),
		RedirectURL: input.RedirectURL,
		ReferenceID: order.OrderNumber,
		Metadata:    map[string]string{"order_number": order.OrderNumber},
	})
	if err != nil {
		s.logg.Error(ctx, "payment session creation failed, order left pending", err)
		return nil, err
	}

	method := input.PaymentMethod
	err = s.orders.UpdateOrderStatus(ctx, orders.StatusUpdateInput{
		OrderNumber:   order.OrderNumber,
		Status:        enums.OrderStatusProcessing,
		PaymentStatus: enums.PaymentStatusPaid,
		PaymentMethod: &method,
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(ctx, "payment submitted")
	return &PayResult{
		SessionID:   session.ID,
		CheckoutURL: session.CheckoutURL,
	}, nil
}
