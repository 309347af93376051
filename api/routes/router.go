package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/modern-pedagogues/platform-backend/api/controllers"
	"github.com/modern-pedagogues/platform-backend/api/middleware"
	"github.com/modern-pedagogues/platform-backend/internal/activity"
	"github.com/modern-pedagogues/platform-backend/internal/auth"
	"github.com/modern-pedagogues/platform-backend/pkg/auth/session"
	"github.com/modern-pedagogues/platform-backend/pkg/config"
	"github.com/modern-pedagogues/platform-backend/pkg/db/models"
	"github.com/modern-pedagogues/platform-backend/pkg/enums"
	"github.com/modern-pedagogues/platform-backend/pkg/logger"
)

// RateLimitStore is the counter backend used by the auth throttles.
type RateLimitStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// DependencyPinger reports reachability of an external dependency.
type DependencyPinger interface {
	Ping(ctx context.Context) error
}

// ActivityLister reads the audit trail for admin endpoints.
type ActivityLister interface {
	List(ctx context.Context, params activity.ListParams) ([]models.ActivityLog, string, error)
}

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Auth       auth.Service
	Register   auth.RegisterService
	Activity   ActivityLister
	Sessions   session.AccessSessionChecker
	RateLimits RateLimitStore
	DB         DependencyPinger
	Cache      DependencyPinger
	Metrics    prometheus.Gatherer
}

// NewRouter assembles the chi router with the full middleware chain and all
// public, authenticated, and admin routes.
func NewRouter(params RouterParams) *chi.Mux {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(middleware.Recoverer(logg))
	r.Use(middleware.RequestID(logg))
	r.Use(middleware.Logging(logg))
	r.Use(middleware.CORS())

	r.Get("/health/live", controllers.HealthLive())
	r.Get("/health/ready", controllers.HealthReady(params.DB, params.Cache, logg))
	r.Handle("/metrics", metricsHandler(params.Metrics))

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	if cfg.App.IsDev() {
		r.Post("/api/dev/admin/register", controllers.DevRegisterAdmin(params.Register, logg))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			registerPolicy := middleware.NewAuthRateLimitPolicy(
				"register",
				cfg.AuthRateLimit.RegisterWindow,
				cfg.AuthRateLimit.RegisterIPLimit,
				cfg.AuthRateLimit.RegisterEmailLimit,
			)
			loginPolicy := middleware.NewAuthRateLimitPolicy(
				"login",
				cfg.AuthRateLimit.LoginWindow,
				cfg.AuthRateLimit.LoginIPLimit,
				cfg.AuthRateLimit.LoginEmailLimit,
			)

			r.With(middleware.AuthRateLimit(registerPolicy, params.RateLimits, logg)).
				Post("/register", controllers.AuthRegister(params.Register, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, params.RateLimits, logg)).
				Post("/login", controllers.AuthLogin(params.Auth, logg))

			// Refresh authenticates with the (possibly expired) token itself,
			// so it stays outside the Auth middleware.
			r.Post("/refresh", controllers.AuthRefresh(params.Auth, logg))

			r.With(middleware.Auth(cfg.JWT, params.Sessions, logg)).
				Post("/logout", controllers.AuthLogout(params.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, params.Sessions, logg))

			r.Get("/session", controllers.GetSession(logg))
			r.Get("/me", controllers.GetMe(params.Auth, logg))

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/activity", controllers.AdminListActivity(params.Activity, logg))
			})
		})
	})

	return r
}

func metricsHandler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
