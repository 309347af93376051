package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/modern-pedagogues/platform-backend/api/responses"
	"github.com/modern-pedagogues/platform-backend/pkg/logger"
	"github.com/modern-pedagogues/platform-backend/pkg/types"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness only. No dependency checks.
func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "ok"})
	}
}

// HealthReady verifies the database and cache before reporting ready, so load
// balancers stop routing when either dependency drops.
func HealthReady(db, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if err := ping(ctx, db); err != nil {
			checks["database"] = err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}

		if err := ping(ctx, cache); err != nil {
			checks["cache"] = err.Error()
			healthy = false
		} else {
			checks["cache"] = "ok"
		}

		if !healthy {
			if logg != nil {
				logCtx := logg.WithFields(r.Context(), map[string]any{"checks": checks})
				logg.Warn(logCtx, "health.ready.degraded")
			}
			writeHealthStatus(w, http.StatusServiceUnavailable, "degraded", checks)
			return
		}

		writeHealthStatus(w, http.StatusOK, "ready", checks)
	}
}

func ping(ctx context.Context, p pinger) error {
	if p == nil {
		return nil
	}
	return p.Ping(ctx)
}

func writeHealthStatus(w http.ResponseWriter, status int, label string, checks map[string]string) {
	responses.WriteSuccessStatus(w, status, types.HealthStatus{
		Status: label,
		Checks: checks,
	})
}
