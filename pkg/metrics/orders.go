package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics tracks order and payment lifecycle counters.
type OrderMetrics struct {
	created         *prometheus.CounterVec
	numberFallbacks prometheus.Counter
	payments        *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Orders created, labeled by currency.",
	}, []string{"currency"})
	numberFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_number_fallbacks_total",
		Help: "Order numbers minted via the timestamp fallback.",
	})
	payments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_payments_total",
		Help: "Payment status transitions, labeled by resulting status.",
	}, []string{"status"})
	reg.MustRegister(created, numberFallbacks, payments)
	return &OrderMetrics{
		created:         created,
		numberFallbacks: numberFallbacks,
		payments:        payments,
	}
}

// IncCreated increments the created counter for the given currency.
func (m *OrderMetrics) IncCreated(currency string) {
	if m == nil || m.created == nil {
		return
	}
	m.created.WithLabelValues(normalizeLabel(currency)).Inc()
}

// IncNumberFallback increments the timestamp-fallback counter.
func (m *OrderMetrics) IncNumberFallback() {
	if m == nil || m.numberFallbacks == nil {
		return
	}
	m.numberFallbacks.Inc()
}

// IncPayment increments the payment counter for the resulting status.
func (m *OrderMetrics) IncPayment(status string) {
	if m == nil || m.payments == nil {
		return
	}
	m.payments.WithLabelValues(normalizeLabel(status)).Inc()
}
