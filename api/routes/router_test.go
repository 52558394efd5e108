package routes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	checkoutsvc "github.com/mvidales/storefront-backend/internal/checkout"
	"github.com/mvidales/storefront-backend/internal/promotion"
	pkgAuth "github.com/mvidales/storefront-backend/pkg/auth"
	"github.com/mvidales/storefront-backend/pkg/config"
	"github.com/mvidales/storefront-backend/pkg/db/models"
	"github.com/mvidales/storefront-backend/pkg/enums"
	"github.com/mvidales/storefront-backend/pkg/logger"
	"github.com/mvidales/storefront-backend/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubCheckoutService struct{}

func (stubCheckoutService) Validate(ctx context.Context, in checkoutsvc.ValidateInput) (*checkoutsvc.ValidationResult, error) {
	return &checkoutsvc.ValidationResult{IsValid: true}, nil
}

type stubApplier struct{}

func (stubApplier) Apply(ctx context.Context, userID, cartID uuid.UUID, code, locale string) (*promotion.ApplyResult, error) {
	return &promotion.ApplyResult{
		Cart:       &models.Cart{ID: cartID, Status: enums.CartStatusActive, Version: 1},
		Resolution: &promotion.Resolution{Outcome: promotion.OutcomeNone},
	}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
		Checkout: config.CheckoutConfig{DefaultLocale: "en"},
	}
}

func newTestRouter(cfg *config.Config, dbP, redisP stubPinger) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	registry := prometheus.NewRegistry()
	metrics.NewCheckoutMetrics(registry)
	return NewRouter(
		cfg,
		logg,
		dbP,
		redisP,
		registry,
		stubCheckoutService{},
		stubApplier{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, userID uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: userID,
		Role:   enums.RoleCustomer,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), stubPinger{}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if env := resp.Header().Get("X-Storefront-Env"); env != "test" {
		t.Fatalf("expected env header, got %q", env)
	}
}

func TestHealthReadyOK(t *testing.T) {
	router := newTestRouter(testConfig(), stubPinger{}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestHealthReadyFailsWhenDependencyDown(t *testing.T) {
	router := newTestRouter(testConfig(), stubPinger{}, stubPinger{err: errors.New("connection refused")})

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "redis") {
		t.Fatalf("expected failing dependency in body: %s", resp.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(testConfig(), stubPinger{}, stubPinger{})

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := newTestRouter(testConfig(), stubPinger{}, stubPinger{})

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/v1/checkout/validate"},
		{http.MethodPost, fmt.Sprintf("/api/v1/cart/%s/coupon", uuid.New())},
		{http.MethodDelete, fmt.Sprintf("/api/v1/cart/%s/coupon", uuid.New())},
	} {
		req := httptest.NewRequest(tc.method, tc.path, strings.NewReader("{}"))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token got %d", tc.method, tc.path, resp.Code)
		}
	}
}

func TestCheckoutValidateWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubPinger{}, stubPinger{})

	body := fmt.Sprintf(`{
		"items": [{"product_id": %q, "quantity": 1, "price": {"amount": 10, "currency": "USD"}}],
		"shipping_address_id": %q
	}`, uuid.New(), uuid.New())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout/validate", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCouponRemoveWithToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, stubPinger{}, stubPinger{})

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/v1/cart/%s/coupon", uuid.New()), nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, uuid.New()))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
}
