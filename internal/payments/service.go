package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	sq "github.com/square/square-go-sdk"

	"github.com/freshfold/freshfold-backend/pkg/enums"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
	"github.com/freshfold/freshfold-backend/pkg/square"
)

type linkCreator interface {
	CreatePaymentLink(ctx context.Context, params square.PaymentLinkCreateParams) (*sq.PaymentLink, error)
}

// CreateSessionInput carries the hosted-checkout request fields.
type CreateSessionInput struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	RedirectURL string
	WebhookURL  string
	Metadata    map[string]string
	ReferenceID string
}

// Session is the created hosted-checkout session.
type Session struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

// Service opens hosted payment sessions with the external provider.
type Service interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
}

type service struct {
	provider linkCreator
	logg     *logger.Logger
}

// NewService builds the payment-session creator.
func NewService(provider linkCreator, logg *logger.Logger) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("payment provider required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{provider: provider, logg: logg}, nil
}

func (s *service) CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error) {
	// Validation short-circuits before any provider call.
	if err := validateSession(input); err != nil {
		return nil, err
	}

	amountCents := input.Amount.Shift(2).Round(0).IntPart()
	params := square.PaymentLinkCreateParams{
		AmountCents:      amountCents,
		Currency:         strings.ToUpper(strings.TrimSpace(input.Currency)),
		Name:             input.Description,
		RedirectURL:      input.RedirectURL,
		ReferenceID:      input.ReferenceID,
		PaymentNote:      input.Metadata["order_number"],
		AcceptApplePay:   true,
		AcceptGooglePay:  true,
		AcceptCashAppPay: true,
	}

	link, err := s.provider.CreatePaymentLink(ctx, params)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:          stringValue(link.GetID()),
		CheckoutURL: stringValue(link.GetURL()),
	}
	if session.ID == "" || session.CheckoutURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "provider returned incomplete payment link")
	}

	s.logg.Info(s.logg.WithField(ctx, "payment_link_id", session.ID), "payment session created")
	return session, nil
}

func validateSession(input CreateSessionInput) error {
	missing := []string{}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(input.Currency) == "" {
		missing = append(missing, "currency")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(input.RedirectURL) == "" {
		missing = append(missing, "redirectUrl")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", "))).
			WithDetails(map[string]any{"missing": missing})
	}
	if _, err := enums.ParseCurrency(strings.ToUpper(strings.TrimSpace(input.Currency))); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unsupported currency")
	}
	return nil
}

func stringValue(ptr *string) string {
	if ptr == nil {
		return ""
	}
	return *ptr
}
