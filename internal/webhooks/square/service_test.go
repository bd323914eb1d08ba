package squarewebhook

import (
	"context"
	"io"
	"testing"

	sq "github.com/square/square-go-sdk"

	"github.com/freshfold/freshfold-backend/internal/orders"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type stubOrderUpdater struct {
	updates []orders.StatusUpdateInput
	err     error
}

func (s *stubOrderUpdater) UpdateOrderStatus(ctx context.Context, input orders.StatusUpdateInput) error {
	s.updates = append(s.updates, input)
	return s.err
}

type stubPaymentFetcher struct {
	calls   int
	payment *sq.Payment
	err     error
}

func (s *stubPaymentFetcher) GetPayment(ctx context.Context, paymentID string) (*sq.Payment, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.payment, nil
}

func newWebhookService(t *testing.T, updater orderStatusUpdater, fetcher paymentFetcher) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Orders: updater,
		Square: fetcher,
		Logger: logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
	})
	if err != nil {
		t.Fatalf("setup service: %v", err)
	}
	return svc
}

func paymentEvent(status, referenceID string) *SquareWebhookEvent {
	return &SquareWebhookEvent{
		EventID: "evt_1",
		Type:    "payment.updated",
		Data: SquareWebhookData{
			ID: "pay_1",
			Object: SquareWebhookObject{
				Payment: &SquarePayment{ID: "pay_1", Status: status, ReferenceID: referenceID},
			},
		},
	}
}

func TestService_HandleCompletedPaymentMarksOrderPaid(t *testing.T) {
	updater := &stubOrderUpdater{}
	svc := newWebhookService(t, updater, &stubPaymentFetcher{})

	if err := svc.HandleEvent(context.Background(), paymentEvent("COMPLETED", "ORD-123456")); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(updater.updates) != 1 {
		t.Fatalf("expected one order update, got %d", len(updater.updates))
	}
	update := updater.updates[0]
	if update.OrderNumber != "ORD-123456" {
		t.Fatalf("unexpected order number %q", update.OrderNumber)
	}
	if update.Status != enums.OrderStatusProcessing || update.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("unexpected transition %s/%s", update.Status, update.PaymentStatus)
	}
}

func TestService_HandleFailedPaymentKeepsOrderPending(t *testing.T) {
	updater := &stubOrderUpdater{}
	svc := newWebhookService(t, updater, &stubPaymentFetcher{})

	if err := svc.HandleEvent(context.Background(), paymentEvent("FAILED", "ORD-123456")); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	update := updater.updates[0]
	if update.Status != enums.OrderStatusPending || update.PaymentStatus != enums.PaymentStatusFailed {
		t.Fatalf("unexpected transition %s/%s", update.Status, update.PaymentStatus)
	}
}

func TestService_IntermediateStatusIgnored(t *testing.T) {
	updater := &stubOrderUpdater{}
	svc := newWebhookService(t, updater, &stubPaymentFetcher{})

	if err := svc.HandleEvent(context.Background(), paymentEvent("APPROVED", "ORD-123456")); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(updater.updates) != 0 {
		t.Fatalf("intermediate status must not touch the order")
	}
}

func TestService_UnknownEventTypeIgnored(t *testing.T) {
	updater := &stubOrderUpdater{}
	svc := newWebhookService(t, updater, &stubPaymentFetcher{})

	event := &SquareWebhookEvent{Type: "refund.created"}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if len(updater.updates) != 0 {
		t.Fatalf("unrelated events must not touch orders")
	}
}

func TestService_MissingPayloadFetchesPayment(t *testing.T) {
	updater := &stubOrderUpdater{}
	status := "COMPLETED"
	id := "pay_1"
	ref := "ORD-654321"
	fetcher := &stubPaymentFetcher{payment: &sq.Payment{ID: &id, Status: &status, ReferenceID: &ref}}
	svc := newWebhookService(t, updater, fetcher)

	event := &SquareWebhookEvent{
		Type: "payment.updated",
		Data: SquareWebhookData{ID: "pay_1"},
	}
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("handle event: %v", err)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected payment lookup")
	}
	if len(updater.updates) != 1 || updater.updates[0].OrderNumber != "ORD-654321" {
		t.Fatalf("expected order update from fetched payment")
	}
}

func TestService_PaymentWithoutReferenceRejected(t *testing.T) {
	updater := &stubOrderUpdater{}
	svc := newWebhookService(t, updater, &stubPaymentFetcher{})

	err := svc.HandleEvent(context.Background(), paymentEvent("COMPLETED", ""))
	if err == nil {
		t.Fatalf("expected error for unreferenced payment")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected code %v", pkgerrors.As(err).Code())
	}
}
