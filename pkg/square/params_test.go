package square

import (
	"testing"
)

func TestToSquareRequestQuickPay(t *testing.T) {
	params := PaymentLinkCreateParams{
		AmountCents:      3024,
		Currency:         "EUR",
		Name:             "Wash & Fold",
		RedirectURL:      "https://freshfold.app/confirm",
		PaymentNote:      "ORD-482913",
		AcceptApplePay:   true,
		AcceptGooglePay:  true,
		AcceptCashAppPay: true,
	}

	req := params.toSquareRequest("LOC123", "ff-key-1")

	if req.IdempotencyKey == nil || *req.IdempotencyKey != "ff-key-1" {
		t.Fatalf("idempotency key not carried: %v", req.IdempotencyKey)
	}
	if req.QuickPay == nil {
		t.Fatal("quick pay block missing")
	}
	if req.QuickPay.Name != "Wash & Fold" || req.QuickPay.LocationID != "LOC123" {
		t.Fatalf("unexpected quick pay fields: %+v", req.QuickPay)
	}
	money := req.QuickPay.PriceMoney
	if money == nil || money.Amount == nil || *money.Amount != 3024 {
		t.Fatalf("unexpected price money: %+v", money)
	}
	if money.Currency == nil || string(*money.Currency) != "EUR" {
		t.Fatalf("unexpected currency: %v", money.Currency)
	}
	if req.CheckoutOptions == nil || req.CheckoutOptions.RedirectURL == nil {
		t.Fatal("redirect url not set in checkout options")
	}
	accepted := req.CheckoutOptions.AcceptedPaymentMethods
	if accepted == nil || accepted.ApplePay == nil || !*accepted.ApplePay {
		t.Fatalf("accepted payment methods not carried: %+v", accepted)
	}
	if req.PaymentNote == nil || *req.PaymentNote != "ORD-482913" {
		t.Fatalf("payment note not carried: %v", req.PaymentNote)
	}
}

func TestToSquareRequestOmitsEmptyOptions(t *testing.T) {
	params := PaymentLinkCreateParams{
		AmountCents: 500,
		Currency:    "EUR",
		Name:        "Ironing",
	}

	req := params.toSquareRequest("LOC123", "ff-key-2")

	if req.CheckoutOptions != nil {
		t.Fatalf("expected no checkout options, got %+v", req.CheckoutOptions)
	}
	if req.PaymentNote != nil {
		t.Fatalf("expected no payment note, got %v", req.PaymentNote)
	}
}
