package squarewebhook

import (
	"context"
	"strings"

	sq "github.com/square/square-go-sdk"

	"github.com/freshfold/freshfold-backend/internal/orders"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type orderStatusUpdater interface {
	UpdateOrderStatus(ctx context.Context, input orders.StatusUpdateInput) error
}

type paymentFetcher interface {
	GetPayment(ctx context.Context, paymentID string) (*sq.Payment, error)
}

type ServiceParams struct {
	Orders orderStatusUpdater
	Square paymentFetcher
	Logger *logger.Logger
}

type Service struct {
	orders orderStatusUpdater
	square paymentFetcher
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Orders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "order service required")
	}
	if params.Square == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "square client required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &Service{
		orders: params.Orders,
		square: params.Square,
		logg:   params.Logger,
	}, nil
}

type SquareWebhookEvent struct {
	EventID string            `json:"event_id"`
	Type    string            `json:"type"`
	Data    SquareWebhookData `json:"data"`
}

type SquareWebhookData struct {
	Type   string              `json:"type"`
	ID     string              `json:"id"`
	Object SquareWebhookObject `json:"object"`
}

type SquareWebhookObject struct {
	Payment *SquarePayment `json:"payment"`
}

// SquarePayment is the payment payload carried on payment.* events.
type SquarePayment struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	ReferenceID string `json:"reference_id"`
	Note        string `json:"note"`
}

// HandleEvent processes Square payment lifecycle events and reflects the
// outcome on the referenced order. Unrecognized event types are ignored.
func (s *Service) HandleEvent(ctx context.Context, event *SquareWebhookEvent) error {
	if event == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "square event required")
	}

	switch strings.ToLower(event.Type) {
	case "payment.created", "payment.updated":
		payment := event.Data.Object.Payment
		if payment == nil {
			fetched, err := s.fetchPayment(ctx, event.Data.ID)
			if err != nil {
				return err
			}
			payment = fetched
		}
		return s.syncPayment(ctx, payment)
	default:
		return nil
	}
}

func (s *Service) fetchPayment(ctx context.Context, paymentID string) (*SquarePayment, error) {
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id missing")
	}
	remote, err := s.square.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetch square payment")
	}
	return &SquarePayment{
		ID:          stringValue(remote.GetID()),
		Status:      stringValue(remote.GetStatus()),
		ReferenceID: stringValue(remote.GetReferenceID()),
		Note:        stringValue(remote.GetNote()),
	}, nil
}

func (s *Service) syncPayment(ctx context.Context, payment *SquarePayment) error {
	if payment == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment payload missing")
	}

	orderNumber := orderNumberFromPayment(payment)
	if orderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "payment carries no order reference")
	}

	ctx = s.logg.WithOrderNumber(ctx, orderNumber)

	status, paymentStatus, actionable := orderStateForPayment(payment.Status)
	if !actionable {
		s.logg.Info(s.logg.WithField(ctx, "square_status", payment.Status), "square payment status ignored")
		return nil
	}

	err := s.orders.UpdateOrderStatus(ctx, orders.StatusUpdateInput{
		OrderNumber:   orderNumber,
		Status:        status,
		PaymentStatus: paymentStatus,
	})
	if err != nil {
		return err
	}

	s.logg.Info(s.logg.WithField(ctx, "square_status", payment.Status), "order synced from square payment")
	return nil
}

func orderNumberFromPayment(payment *SquarePayment) string {
	if ref := strings.TrimSpace(payment.ReferenceID); ref != "" {
		return ref
	}
	return strings.TrimSpace(payment.Note)
}

// orderStateForPayment maps a Square payment status onto the order lifecycle.
// Intermediate states (APPROVED, PENDING) are left for a later event.
func orderStateForPayment(squareStatus string) (enums.OrderStatus, enums.PaymentStatus, bool) {
	switch strings.ToUpper(strings.TrimSpace(squareStatus)) {
	case "COMPLETED":
		return enums.OrderStatusProcessing, enums.PaymentStatusPaid, true
	case "FAILED":
		return enums.OrderStatusPending, enums.PaymentStatusFailed, true
	case "CANCELED":
		return enums.OrderStatusCancelled, enums.PaymentStatusFailed, true
	default:
		return "", "", false
	}
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
