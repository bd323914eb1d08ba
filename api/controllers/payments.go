package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/freshfold/freshfold-backend/api/responses"
	"github.com/freshfold/freshfold-backend/internal/payments"
	pkgerrors "github.com/freshfold/freshfold-backend/pkg/errors"
	"github.com/freshfold/freshfold-backend/pkg/logger"
)

type paymentSessionRequest struct {
	Amount      decimal.Decimal   `json:"amount"`
	Currency    string            `json:"currency"`
	Description string            `json:"description"`
	RedirectURL string            `json:"redirectUrl"`
	WebhookURL  string            `json:"webhookUrl"`
	Metadata    map[string]string `json:"metadata"`
	ReferenceID string            `json:"referenceId"`
}

// PaymentSessions is the thin public endpoint consumed directly by the
// storefront. Its wire format is fixed: raw {id, checkoutUrl} on success and
// {"error": message} on failure, with CORS headers on every response.
func PaymentSessions(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSessionCORS(w)

		switch r.Method {
		case http.MethodOptions:
			w.WriteHeader(http.StatusNoContent)
		case http.MethodPost:
			handlePaymentSession(svc, logg, w, r)
		default:
			writeSessionError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

func handlePaymentSession(svc payments.Service, logg *logger.Logger, w http.ResponseWriter, r *http.Request) {
	if svc == nil {
		writeSessionError(w, http.StatusInternalServerError, "payment service unavailable")
		return
	}

	var req paymentSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeSessionError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := svc.CreateSession(r.Context(), payments.CreateSessionInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Description: req.Description,
		RedirectURL: req.RedirectURL,
		WebhookURL:  req.WebhookURL,
		Metadata:    req.Metadata,
		ReferenceID: req.ReferenceID,
	})
	if err != nil {
		if logg != nil {
			logg.Error(r.Context(), "payment session request failed", err)
		}
		status := http.StatusInternalServerError
		message := "payment session creation failed"
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeValidation {
			status = http.StatusBadRequest
			message = typed.Message()
		}
		writeSessionError(w, status, message)
		return
	}

	responses.WriteRaw(w, http.StatusOK, session)
}

func writeSessionCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Idempotency-Key")
}

func writeSessionError(w http.ResponseWriter, status int, message string) {
	responses.WriteRaw(w, status, map[string]string{"error": message})
}
