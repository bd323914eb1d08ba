package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshfold/freshfold-backend/api/middleware"
	"github.com/freshfold/freshfold-backend/api/responses"
	"github.com/freshfold/freshfold-backend/api/validators"
	"github.com/freshfold/freshfold-backend/internal/confirmation"
	"github.com/freshfold/freshfold-backend/internal/orders"
	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type createOrderRequest struct {
	OrderNumber     string             `json:"order_number"`
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	PickupAddress   string             `json:"pickup_address" validate:"required"`
	DeliveryAddress string             `json:"delivery_address" validate:"required"`
	PickupDate      *time.Time         `json:"pickup_date"`
	DeliveryNotes   *string            `json:"delivery_notes"`
	Currency        string             `json:"currency"`
	Phone           *string            `json:"phone"`
}

type orderItemRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Name      string          `json:"name" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" validate:"required"`
}

type payOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	RedirectURL   string `json:"redirect_url" validate:"required,url"`
}

// CreateOrder persists a new order, or returns the existing one when the
// client retries with an order number that is already saved.
func CreateOrder(svc confirmation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customer, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req createOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := orders.CreateOrderInput{
			Customer:        customer,
			Lines:           buildCartLines(req.Items),
			PickupAddress:   req.PickupAddress,
			DeliveryAddress: req.DeliveryAddress,
			PickupDate:      req.PickupDate,
			DeliveryNotes:   req.DeliveryNotes,
			Currency:        enums.Currency(req.Currency),
		}
		if req.Phone != nil {
			input.Customer.Phone = req.Phone
		}

		summary, err := svc.EnsureOrder(r.Context(), req.OrderNumber, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// OrderDetail returns a saved order, scoped to the authenticated customer.
func OrderDetail(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		customer, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderNumber := chi.URLParam(r, "orderNumber")
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number required"))
			return
		}

		summary, err := svc.GetOrder(r.Context(), customer.ID, orderNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// PayOrder opens a hosted checkout session for a saved order.
func PayOrder(svc confirmation.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "confirmation service unavailable"))
			return
		}

		customer, err := customerFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderNumber := chi.URLParam(r, "orderNumber")
		if orderNumber == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order number required"))
			return
		}

		var req payOrderRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParsePaymentMethod(req.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		result, err := svc.Pay(r.Context(), confirmation.PayInput{
			CustomerID:    customer.ID,
			OrderNumber:   orderNumber,
			PaymentMethod: method,
			RedirectURL:   req.RedirectURL,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func customerFromContext(r *http.Request) (orders.Customer, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return orders.Customer{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	customerID, err := uuid.Parse(raw)
	if err != nil {
		return orders.Customer{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid customer identity")
	}
	return orders.Customer{
		ID:    customerID,
		Name:  middleware.CustomerNameFromContext(r.Context()),
		Email: middleware.CustomerEmailFromContext(r.Context()),
	}, nil
}

func buildCartLines(items []orderItemRequest) []orders.CartLine {
	lines := make([]orders.CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, orders.CartLine{
			ItemID:    item.ItemID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lines
}
