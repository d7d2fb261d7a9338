package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records checkout outcomes and entitlement authority calls.
// All methods are nil-safe so callers never need a registry in tests.
type CheckoutMetrics struct {
	duration     *prometheus.HistogramVec
	ordersPlaced prometheus.Counter
	entitlement  *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of checkout attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders successfully committed.",
	})
	entitlement := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "entitlement_decisions_total",
		Help: "Entitlement authority call results by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, ordersPlaced, entitlement)
	return &CheckoutMetrics{
		duration:     duration,
		ordersPlaced: ordersPlaced,
		entitlement:  entitlement,
	}
}

// ObserveDuration records the duration for one checkout attempt.
func (c *CheckoutMetrics) ObserveDuration(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeOutcome(outcome)).Observe(duration.Seconds())
}

// IncOrdersPlaced increments the committed-order counter.
func (c *CheckoutMetrics) IncOrdersPlaced() {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.Inc()
}

// IncEntitlement increments the entitlement decision counter for the outcome.
func (c *CheckoutMetrics) IncEntitlement(outcome string) {
	if c == nil || c.entitlement == nil {
		return
	}
	c.entitlement.WithLabelValues(normalizeOutcome(outcome)).Inc()
}

// Entitlement decision outcomes.
const (
	EntitlementApproved        = "approved"
	EntitlementFailedStrict    = "failed_strict"
	EntitlementFailedFallback  = "failed_fallback"
	CheckoutOutcomeCommitted   = "committed"
	CheckoutOutcomeRejected    = "rejected"
	CheckoutOutcomeUnavailable = "unavailable"
)

func normalizeOutcome(outcome string) string {
	if outcome == "" {
		return "unknown"
	}
	return outcome
}
