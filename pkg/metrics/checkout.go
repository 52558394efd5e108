package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records validation and promotion outcomes.
type CheckoutMetrics struct {
	validationDuration *prometheus.HistogramVec
	validationOutcome  *prometheus.CounterVec
	promotionOutcome   *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_validation_duration_seconds",
		Help:    "Duration of pre-checkout validation calls in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"result"})
	outcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_validation_total",
		Help: "Pre-checkout validation calls by result.",
	}, []string{"result"})
	promotion := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "promotion_resolution_total",
		Help: "Promotion resolutions by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, outcome, promotion)
	return &CheckoutMetrics{
		validationDuration: duration,
		validationOutcome:  outcome,
		promotionOutcome:   promotion,
	}
}

// ObserveValidation records one validation call.
func (m *CheckoutMetrics) ObserveValidation(valid bool, duration time.Duration) {
	if m == nil || m.validationDuration == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.validationDuration.WithLabelValues(result).Observe(duration.Seconds())
	m.validationOutcome.WithLabelValues(result).Inc()
}

// IncPromotionOutcome counts one promotion resolution.
func (m *CheckoutMetrics) IncPromotionOutcome(outcome string) {
	if m == nil || m.promotionOutcome == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.promotionOutcome.WithLabelValues(outcome).Inc()
}
