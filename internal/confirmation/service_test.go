package confirmation

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freshfold/freshfold-backend/internal/orders"
	"github.com/freshfold/freshfold-backend/internal/payments"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type stubOrderWriter struct {
	saved        map[string]*orders.OrderSummary
	createCalls  int
	updateCalls  int
	lastUpdate   orders.StatusUpdateInput
	createErr    error
	updateErr    error
	nextOrderNum string
}

func newStubOrderWriter() *stubOrderWriter {
	return &stubOrderWriter{saved: make(map[string]*orders.OrderSummary), nextOrderNum: "ORD-123456"}
}

func (s *stubOrderWriter) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderSummary, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	summary := &orders.OrderSummary{
		OrderNumber:   s.nextOrderNum,
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		Currency:      enums.CurrencyEUR,
		Total:         decimal.RequireFromString("30.24"),
	}
	s.saved[summary.OrderNumber] = summary
	return summary, nil
}

func (s *stubOrderWriter) GetOrder(ctx context.Context, customerID uuid.UUID, orderNumber string) (*orders.OrderSummary, error) {
	if summary, ok := s.saved[orderNumber]; ok {
		return summary, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
}

func (s *stubOrderWriter) UpdateOrderStatus(ctx context.Context, input orders.StatusUpdateInput) error {
	s.updateCalls++
	s.lastUpdate = input
	if s.updateErr != nil {
		return s.updateErr
	}
	if summary, ok := s.saved[input.OrderNumber]; ok {
		summary.Status = input.Status
		summary.PaymentStatus = input.PaymentStatus
		summary.PaymentMethod = input.PaymentMethod
	}
	return nil
}

type stubSessionCreator struct {
	calls   int
	lastIn  payments.CreateSessionInput
	session *payments.Session
	err     error
}

func (s *stubSessionCreator) CreateSession(ctx context.Context, input payments.CreateSessionInput) (*payments.Session, error) {
	s.calls++
	s.lastIn = input
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func newTestService(t *testing.T, writer orderWriter, sessions sessionCreator) Service {
	t.Helper()
	svc, err := NewService(writer, sessions, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	require.NoError(t, err)
	return svc
}

func cartInput(customerID uuid.UUID) orders.CreateOrderInput {
	return orders.CreateOrderInput{
		Customer: orders.Customer{ID: customerID, Name: "Jane Doe", Email: "jane@example.com"},
		Lines: []orders.CartLine{
			{ItemID: uuid.NewString(), Name: "Duvet", Quantity: 1, UnitPrice: decimal.RequireFromString("24.99")},
		},
		PickupAddress:   "Main St 1",
		DeliveryAddress: "Main St 1",
	}
}

func TestEnsureOrderCreatesWhenMissing(t *testing.T) {
	writer := newStubOrderWriter()
	svc := newTestService(t, writer, &stubSessionCreator{})

	customerID := uuid.New()
	summary, err := svc.EnsureOrder(context.Background(), "", cartInput(customerID))
	require.NoError(t, err)
	assert.Equal(t, "ORD-123456", summary.OrderNumber)
	assert.Equal(t, 1, writer.createCalls)
}

func TestEnsureOrderReturnsExistingWithoutRecreate(t *testing.T) {
	writer := newStubOrderWriter()
	svc := newTestService(t, writer, &stubSessionCreator{})

	customerID := uuid.New()
	first, err := svc.EnsureOrder(context.Background(), "", cartInput(customerID))
	require.NoError(t, err)

	second, err := svc.EnsureOrder(context.Background(), first.OrderNumber, cartInput(customerID))
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, second.OrderNumber)
	assert.Equal(t, 1, writer.createCalls, "saved orders must not be recreated")
}

func TestEnsureOrderRecreatesWhenNumberStale(t *testing.T) {
	writer := newStubOrderWriter()
	svc := newTestService(t, writer, &stubSessionCreator{})

	summary, err := svc.EnsureOrder(context.Background(), "ORD-000000", cartInput(uuid.New()))
	require.NoError(t, err)
	assert.Equal(t, "ORD-123456", summary.OrderNumber)
	assert.Equal(t, 1, writer.createCalls)
}

func TestPayAdvancesOrderState(t *testing.T) {
	writer := newStubOrderWriter()
	sessions := &stubSessionCreator{session: &payments.Session{ID: "plink_1", CheckoutURL: "https://square.link/u/abc"}}
	svc := newTestService(t, writer, sessions)

	customerID := uuid.New()
	summary, err := svc.EnsureOrder(context.Background(), "", cartInput(customerID))
	require.NoError(t, err)

	result, err := svc.Pay(context.Background(), PayInput{
		CustomerID:    customerID,
		OrderNumber:   summary.OrderNumber,
		PaymentMethod: enums.PaymentMethodCard,
		RedirectURL:   "https://example.com/confirm",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://square.link/u/abc", result.CheckoutURL)

	assert.Equal(t, enums.OrderStatusProcessing, writer.lastUpdate.Status)
	assert.Equal(t, enums.PaymentStatusPaid, writer.lastUpdate.PaymentStatus)
	require.NotNil(t, writer.lastUpdate.PaymentMethod)
	assert.Equal(t, enums.PaymentMethodCard, *writer.lastUpdate.PaymentMethod)

	assert.True(t, sessions.lastIn.Amount.Equal(decimal.RequireFromString("30.24")))
	assert.Equal(t, "EUR", sessions.lastIn.Currency)
}

func TestPayProviderFailureLeavesOrderPending(t *testing.T) {
	writer := newStubOrderWriter()
	sessions := &stubSessionCreator{err: pkgerrors.New(pkgerrors.CodeDependency, "provider down")}
	svc := newTestService(t, writer, sessions)

	customerID := uuid.New()
	summary, err := svc.EnsureOrder(context.Background(), "", cartInput(customerID))
	require.NoError(t, err)

	_, err = svc.Pay(context.Background(), PayInput{
		CustomerID:    customerID,
		OrderNumber:   summary.OrderNumber,
		PaymentMethod: enums.PaymentMethodCard,
		RedirectURL:   "https://example.com/confirm",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	assert.Equal(t, 0, writer.updateCalls, "failed session must not advance the order")
	stored := writer.saved[summary.OrderNumber]
	assert.Equal(t, enums.OrderStatusPending, stored.Status)
	assert.Equal(t, enums.PaymentStatusPending, stored.PaymentStatus)
}

func TestPayAlreadyPaidRejected(t *testing.T) {
	writer := newStubOrderWriter()
	sessions := &stubSessionCreator{session: &payments.Session{ID: "plink_1", CheckoutURL: "https://square.link/u/abc"}}
	svc := newTestService(t, writer, sessions)

	customerID := uuid.New()
	summary, err := svc.EnsureOrder(context.Background(), "", cartInput(customerID))
	require.NoError(t, err)
	writer.saved[summary.OrderNumber].PaymentStatus = enums.PaymentStatusPaid

	_, err = svc.Pay(context.Background(), PayInput{
		CustomerID:    customerID,
		OrderNumber:   summary.OrderNumber,
		PaymentMethod: enums.PaymentMethodCard,
		RedirectURL:   "https://example.com/confirm",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	assert.Equal(t, 0, sessions.calls)
}

func TestPayNonPendingOrderRejected(t *testing.T) {
	writer := newStubOrderWriter()
	sessions := &stubSessionCreator{session: &payments.Session{ID: "plink_1", CheckoutURL: "https://square.link/u/abc"}}
	svc := newTestService(t, writer, sessions)

	customerID := uuid.New()
	summary, err := svc.EnsureOrder(context.Background(), "", cartInput(customerID))
	require.NoError(t, err)

	for _, state := range []struct {
		status  enums.OrderStatus
		payment enums.PaymentStatus
	}{
		{enums.OrderStatusExpired, enums.PaymentStatusExpired},
		{enums.OrderStatusCancelled, enums.PaymentStatusFailed},
		{enums.OrderStatusProcessing, enums.PaymentStatusPending},
	} {
		writer.saved[summary.OrderNumber].Status = state.status
		writer.saved[summary.OrderNumber].PaymentStatus = state.payment

		_, err = svc.Pay(context.Background(), PayInput{
			CustomerID:    customerID,
			OrderNumber:   summary.OrderNumber,
			PaymentMethod: enums.PaymentMethodCard,
			RedirectURL:   "https://example.com/confirm",
		})
		require.Error(t, err, "state %s/%s must not be payable", state.status, state.payment)
		assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
	}

	assert.Equal(t, 0, sessions.calls, "non-pending orders must never reach the provider")
	assert.Equal(t, 0, writer.updateCalls)
	assert.Equal(t, enums.OrderStatusProcessing, writer.saved[summary.OrderNumber].Status,
		"rejected submission must not mutate the order")
}

func TestPayInvalidMethodRejected(t *testing.T) {
	writer := newStubOrderWriter()
	svc := newTestService(t, writer, &stubSessionCreator{})

	_, err := svc.Pay(context.Background(), PayInput{
		CustomerID:    uuid.New(),
		OrderNumber:   "ORD-123456",
		PaymentMethod: enums.PaymentMethod("bitcoin"),
		RedirectURL:   "https://example.com/confirm",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
