package controllers

import (
	"net/http"

	"github.com/mvidales/storefront-backend/api/responses"
	"github.com/mvidales/storefront-backend/pkg/config"
	"github.com/mvidales/storefront-backend/pkg/db"
	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
	"github.com/mvidales/storefront-backend/pkg/logger"
	"github.com/mvidales/storefront-backend/pkg/redis"
)

const envHeader = "X-Storefront-Env"

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing store answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)

		statuses := map[string]string{}
		healthy := true

		check := func(name string, ping func() error, configured bool) {
			if !configured {
				statuses[name] = "not configured"
				return
			}
			if err := ping(); err != nil {
				statuses[name] = err.Error()
				healthy = false
				return
			}
			statuses[name] = "ok"
		}

		check("database", func() error { return dbP.Ping(r.Context()) }, dbP != nil)
		check("redis", func() error { return redisP.Ping(r.Context()) }, redisP != nil)

		if !healthy {
			err := pkgerrors.New(pkgerrors.CodeDependency, "dependencies unavailable").WithDetails(statuses)
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "dependencies": statuses})
	}
}
