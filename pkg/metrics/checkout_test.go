package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNilSafeWithoutRegisterer(t *testing.T) {
	t.Parallel()

	m := NewCheckoutMetrics(nil)
	m.ObserveValidation(true, time.Millisecond)
	m.IncPromotionOutcome("applied")

	var zero *CheckoutMetrics
	zero.ObserveValidation(false, time.Millisecond)
	zero.IncPromotionOutcome("")
}

func TestCountersIncrement(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := NewCheckoutMetrics(reg)

	m.ObserveValidation(true, 10*time.Millisecond)
	m.ObserveValidation(false, 10*time.Millisecond)
	m.ObserveValidation(false, 10*time.Millisecond)
	m.IncPromotionOutcome("rejected")

	if got := testutil.ToFloat64(m.validationOutcome.WithLabelValues("invalid")); got != 2 {
		t.Fatalf("expected 2 invalid validations, got %v", got)
	}
	if got := testutil.ToFloat64(m.validationOutcome.WithLabelValues("valid")); got != 1 {
		t.Fatalf("expected 1 valid validation, got %v", got)
	}
	if got := testutil.ToFloat64(m.promotionOutcome.WithLabelValues("rejected")); got != 1 {
		t.Fatalf("expected 1 rejected promotion, got %v", got)
	}
}
