package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvidales/storefront-backend/api/controllers"
	"github.com/mvidales/storefront-backend/api/middleware"
	"github.com/mvidales/storefront-backend/pkg/config"
	"github.com/mvidales/storefront-backend/pkg/db"
	"github.com/mvidales/storefront-backend/pkg/logger"
	"github.com/mvidales/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	gatherer prometheus.Gatherer,
	checkoutService controllers.CheckoutValidator,
	couponApplier controllers.CouponApplier,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Post("/checkout/validate", controllers.ValidateCheckout(checkoutService, cfg, logg))

		r.Route("/cart/{cartID}/coupon", func(r chi.Router) {
			r.Post("/", controllers.ApplyCoupon(couponApplier, cfg, logg))
			r.Delete("/", controllers.RemoveCoupon(couponApplier, cfg, logg))
		})
	})

	return r
}
