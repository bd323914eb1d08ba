package square

import (
	"strings"

	sq "github.com/square/square-go-sdk"
	sqcheckout "github.com/square/square-go-sdk/checkout"
)

// PaymentLinkCreateParams contains the fields required to create a hosted checkout link.
type PaymentLinkCreateParams struct {
	AmountCents      int64
	Currency         string
	Name             string
	RedirectURL      string
	ReferenceID      string
	PaymentNote      string
	IdempotencyKey   string
	AcceptApplePay   bool
	AcceptGooglePay  bool
	AcceptCashAppPay bool
}

func (p PaymentLinkCreateParams) toSquareRequest(locationID, idempotencyKey string) *sqcheckout.CreatePaymentLinkRequest {
	req := &sqcheckout.CreatePaymentLinkRequest{
		IdempotencyKey: ptrString(idempotencyKey),
		QuickPay: &sq.QuickPay{
			Name:       p.Name,
			LocationID: locationID,
			PriceMoney: moneyPtr(p.AmountCents, p.Currency),
		},
	}

	opts := &sq.CheckoutOptions{}
	hasOpts := false
	if trimmed := strings.TrimSpace(p.RedirectURL); trimmed != "" {
		opts.RedirectURL = ptrString(trimmed)
		hasOpts = true
	}
	if p.AcceptApplePay || p.AcceptGooglePay || p.AcceptCashAppPay {
		opts.AcceptedPaymentMethods = &sq.AcceptedPaymentMethods{
			ApplePay:   boolPtr(p.AcceptApplePay),
			GooglePay:  boolPtr(p.AcceptGooglePay),
			CashAppPay: boolPtr(p.AcceptCashAppPay),
		}
		hasOpts = true
	}
	if hasOpts {
		req.CheckoutOptions = opts
	}

	if trimmed := strings.TrimSpace(p.PaymentNote); trimmed != "" {
		req.PaymentNote = ptrString(trimmed)
	}
	return req
}

func ptrString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func int64Ptr(value int64) *int64 {
	return &value
}

func currencyPtr(code string) *sq.Currency {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		trimmed = "EUR"
	}
	c := sq.Currency(trimmed)
	return &c
}

func moneyPtr(amount int64, currency string) *sq.Money {
	if amount == 0 {
		return nil
	}
	return &sq.Money{
		Amount:   int64Ptr(amount),
		Currency: currencyPtr(currency),
	}
}
