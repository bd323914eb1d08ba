package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/freshfold-backend/api/middleware"
	"github.com/freshfold/freshfold-backend/internal/confirmation"
	"github.com/freshfold/freshfold-backend/internal/orders"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
)

type stubConfirmationService struct {
	summary     *orders.OrderSummary
	payResult   *confirmation.PayResult
	err         error
	ensureCalls int
	payCalls    int
	lastNumber  string
	lastInput   orders.CreateOrderInput
	lastPay     confirmation.PayInput
}

func (s *stubConfirmationService) EnsureOrder(ctx context.Context, orderNumber string, input orders.CreateOrderInput) (*orders.OrderSummary, error) {
	s.ensureCalls++
	s.lastNumber = orderNumber
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func (s *stubConfirmationService) Pay(ctx context.Context, input confirmation.PayInput) (*confirmation.PayResult, error) {
	s.payCalls++
	s.lastPay = input
	if s.err != nil {
		return nil, s.err
	}
	return s.payResult, nil
}

type stubOrdersService struct {
	summary *orders.OrderSummary
	err     error
}

func (s *stubOrdersService) CreateOrder(ctx context.Context, input orders.CreateOrderInput) (*orders.OrderSummary, error) {
	panic("not implemented")
}

func (s *stubOrdersService) GetOrder(ctx context.Context, customerID uuid.UUID, orderNumber string) (*orders.OrderSummary, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}

func (s *stubOrdersService) UpdateOrderStatus(ctx context.Context, input orders.StatusUpdateInput) error {
	panic("not implemented")
}

func (s *stubOrdersService) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int, error) {
	panic("not implemented")
}

func withCustomer(req *http.Request, customerID uuid.UUID) *http.Request {
	return req.WithContext(middleware.WithCustomerID(req.Context(), customerID.String()))
}

func withOrderNumber(req *http.Request, orderNumber string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("orderNumber", orderNumber)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func createOrderBody() string {
	return `{
		"order_number": "ORD-482913",
		"items": [{"item_id": "itm-1", "name": "Wash & Fold", "quantity": 2, "unit_price": "12.50"}],
		"pickup_address": "12 Rua das Flores, Lisboa",
		"delivery_address": "12 Rua das Flores, Lisboa",
		"currency": "EUR"
	}`
}

func TestCreateOrderRequiresCustomerIdentity(t *testing.T) {
	svc := &stubConfirmationService{}
	handler := CreateOrder(svc, testLogger())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(createOrderBody()))
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", resp.Code)
	}
	if svc.ensureCalls != 0 {
		t.Fatalf("unauthenticated request must not reach the service")
	}
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	svc := &stubConfirmationService{}
	handler := CreateOrder(svc, testLogger())
	body := `{"items": [], "pickup_address": "a", "delivery_address": "b"}`
	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body)), uuid.New())
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", resp.Code)
	}
	if svc.ensureCalls != 0 {
		t.Fatalf("invalid payload must not reach the service")
	}
}

func TestCreateOrderReturnsCreatedSummary(t *testing.T) {
	customerID := uuid.New()
	svc := &stubConfirmationService{summary: &orders.OrderSummary{
		OrderNumber:   "ORD-482913",
		Status:        enums.OrderStatusPending,
		PaymentStatus: enums.PaymentStatusPending,
		Currency:      enums.CurrencyEUR,
		Total:         decimal.RequireFromString("30.24"),
	}}
	handler := CreateOrder(svc, testLogger())
	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(createOrderBody())), customerID)
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data orders.OrderSummary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderNumber != "ORD-482913" {
		t.Fatalf("unexpected order number %q", envelope.Data.OrderNumber)
	}
	if svc.lastNumber != "ORD-482913" {
		t.Fatalf("client order number not forwarded, got %q", svc.lastNumber)
	}
	if svc.lastInput.Customer.ID != customerID {
		t.Fatalf("customer identity not forwarded")
	}
	if len(svc.lastInput.Lines) != 1 || svc.lastInput.Lines[0].Quantity != 2 {
		t.Fatalf("cart lines not forwarded: %+v", svc.lastInput.Lines)
	}
}

func TestOrderDetailScopedToCustomer(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another customer")}
	handler := OrderDetail(svc, testLogger())
	req := withCustomer(httptest.NewRequest(http.MethodGet, "/api/v1/orders/ORD-482913", nil), uuid.New())
	req = withOrderNumber(req, "ORD-482913")
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign order, got %d", resp.Code)
	}
}

func TestPayOrderRejectsUnknownMethod(t *testing.T) {
	svc := &stubConfirmationService{}
	handler := PayOrder(svc, testLogger())
	body := `{"payment_method": "wire_transfer", "redirect_url": "https://freshfold.app/confirm"}`
	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-482913/pay", strings.NewReader(body)), uuid.New())
	req = withOrderNumber(req, "ORD-482913")
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown payment method, got %d", resp.Code)
	}
	if svc.payCalls != 0 {
		t.Fatalf("invalid method must not reach the service")
	}
}

func TestPayOrderReturnsCheckoutHandle(t *testing.T) {
	customerID := uuid.New()
	svc := &stubConfirmationService{payResult: &confirmation.PayResult{
		SessionID:   "plink_123",
		CheckoutURL: "https://square.link/u/abc",
	}}
	handler := PayOrder(svc, testLogger())
	body := `{"payment_method": "card", "redirect_url": "https://freshfold.app/confirm"}`
	req := withCustomer(httptest.NewRequest(http.MethodPost, "/api/v1/orders/ORD-482913/pay", strings.NewReader(body)), customerID)
	req = withOrderNumber(req, "ORD-482913")
	resp := httptest.NewRecorder()
	handler(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data confirmation.PayResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.CheckoutURL != "https://square.link/u/abc" {
		t.Fatalf("unexpected checkout url %q", envelope.Data.CheckoutURL)
	}
	if svc.lastPay.CustomerID != customerID || svc.lastPay.OrderNumber != "ORD-482913" {
		t.Fatalf("pay input not forwarded: %+v", svc.lastPay)
	}
	if svc.lastPay.PaymentMethod != enums.PaymentMethodCard {
		t.Fatalf("unexpected payment method %s", svc.lastPay.PaymentMethod)
	}
}
