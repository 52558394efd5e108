package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/mvidales/storefront-backend/api/middleware"
	checkoutsvc "github.com/mvidales/storefront-backend/internal/checkout"
	"github.com/mvidales/storefront-backend/pkg/config"
	"github.com/mvidales/storefront-backend/pkg/enums"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
)

type stubCheckoutService struct {
	result    *checkoutsvc.ValidationResult
	err       error
	lastInput checkoutsvc.ValidateInput
}

func (s *stubCheckoutService) Validate(ctx context.Context, in checkoutsvc.ValidateInput) (*checkoutsvc.ValidationResult, error) {
	s.lastInput = in
	return s.result, s.err
}

func testControllerConfig() *config.Config {
	return &config.Config{
		App:      config.AppConfig{Env: "test"},
		Checkout: config.CheckoutConfig{DefaultLocale: "en"},
	}
}

func validateBody(productID, addressID uuid.UUID) string {
	return fmt.Sprintf(`{
		"items": [{"product_id": %q, "quantity": 2, "price": {"amount": 19.99, "currency": "USD"}}],
		"shipping_address_id": %q,
		"coupon_code": "SAVE10"
	}`, productID, addressID)
}

func TestValidateCheckoutSuccess(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	addressID := uuid.New()
	svc := &stubCheckoutService{result: &checkoutsvc.ValidationResult{IsValid: true}}
	handler := ValidateCheckout(svc, testControllerConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(validateBody(productID, addressID)))
	req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data checkoutsvc.ValidationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.IsValid {
		t.Fatalf("expected valid result")
	}

	in := svc.lastInput
	if in.UserID != userID {
		t.Fatalf("unexpected user id: %s", in.UserID)
	}
	if len(in.Items) != 1 || in.Items[0].ProductID != productID {
		t.Fatalf("item mapping lost: %+v", in.Items)
	}
	if in.Items[0].DurationMonths != 1 {
		t.Fatalf("expected duration default of 1, got %d", in.Items[0].DurationMonths)
	}
	if in.FulfillmentType != enums.FulfillmentOneTime {
		t.Fatalf("expected one_time default, got %s", in.FulfillmentType)
	}
	if in.CouponCode != "SAVE10" {
		t.Fatalf("coupon code lost: %q", in.CouponCode)
	}
	if in.Locale != "en" {
		t.Fatalf("expected default locale, got %q", in.Locale)
	}
}

func TestValidateCheckoutReadsLocaleFromQuery(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{result: &checkoutsvc.ValidationResult{IsValid: true}}
	handler := ValidateCheckout(svc, testControllerConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate?lang=fr", strings.NewReader(validateBody(uuid.New(), uuid.New())))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastInput.Locale != "fr" {
		t.Fatalf("expected locale fr, got %q", svc.lastInput.Locale)
	}
}

func TestValidateCheckoutRequiresIdentity(t *testing.T) {
	t.Parallel()

	handler := ValidateCheckout(&stubCheckoutService{}, testControllerConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(validateBody(uuid.New(), uuid.New())))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestValidateCheckoutRejectsEmptyItems(t *testing.T) {
	t.Parallel()

	handler := ValidateCheckout(&stubCheckoutService{}, testControllerConfig(), nil)

	body := fmt.Sprintf(`{"items": [], "shipping_address_id": %q}`, uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestValidateCheckoutRejectsUnknownCurrency(t *testing.T) {
	t.Parallel()

	handler := ValidateCheckout(&stubCheckoutService{}, testControllerConfig(), nil)

	body := fmt.Sprintf(`{
		"items": [{"product_id": %q, "quantity": 1, "price": {"amount": 5, "currency": "JPY"}}],
		"shipping_address_id": %q
	}`, uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestValidateCheckoutPropagatesServiceError(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeDependency, "lookup failed")}
	handler := ValidateCheckout(svc, testControllerConfig(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(validateBody(uuid.New(), uuid.New())))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestValidateCheckoutMapsMembershipAndFamily(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{result: &checkoutsvc.ValidationResult{IsValid: true}}
	handler := ValidateCheckout(svc, testControllerConfig(), nil)

	familyID := uuid.New()
	body := fmt.Sprintf(`{
		"items": [{"product_id": %q, "quantity": 1, "price": {"amount": 30, "currency": "USD"}, "duration_months": 6}],
		"shipping_address_id": %q,
		"fulfillment_type": "subscription",
		"membership": {"is_member": true, "discount_type": "percentage", "discount_value": 10},
		"family_member": {"is_buying_for_family": true, "family_member_id": %q}
	}`, uuid.New(), uuid.New(), familyID)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.New().String()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	in := svc.lastInput
	if in.FulfillmentType != enums.FulfillmentSubscription {
		t.Fatalf("expected subscription fulfillment, got %s", in.FulfillmentType)
	}
	if in.Items[0].DurationMonths != 6 {
		t.Fatalf("duration lost: %d", in.Items[0].DurationMonths)
	}
	if in.Membership == nil || !in.Membership.IsMember || in.Membership.DiscountValue != 10 {
		t.Fatalf("membership mapping lost: %+v", in.Membership)
	}
	if in.Membership.DiscountType != enums.DiscountTypePercentage {
		t.Fatalf("discount type lost: %s", in.Membership.DiscountType)
	}
	if in.Family == nil || !in.Family.IsBuyingForFamily || in.Family.FamilyMemberID != familyID {
		t.Fatalf("family mapping lost: %+v", in.Family)
	}
}
