package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mygroup/mygroup-backend/api/controllers"
	"github.com/mygroup/mygroup-backend/api/middleware"
	"github.com/mygroup/mygroup-backend/internal/auth"
	"github.com/mygroup/mygroup-backend/internal/geo"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"github.com/mygroup/mygroup-backend/pkg/metrics"
	"github.com/mygroup/mygroup-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RateLimiter is the subset of the redis client used by the auth throttles.
type RateLimiter interface {
	controllers.Pinger
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (redis.Window, error)
}

// Dependencies are the collaborators the HTTP surface is built from. Redis,
// Metrics and Gatherer are optional.
type Dependencies struct {
	DB                controllers.Pinger
	Redis             RateLimiter
	AuthService       auth.Service
	RegisterService   auth.RegisterService
	UniquenessService auth.UniquenessService
	GeoService        geo.Service
	AuthMetrics       *metrics.AuthMetrics
	HTTPMetrics       *metrics.HTTPMetrics
	Gatherer          prometheus.Gatherer
}

// NewRouter wires the middleware chain and every route of the api binary.
func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)
	loginLimit := middleware.AuthRateLimit(loginPolicy, deps.Redis, deps.AuthMetrics, logg)
	registerLimit := middleware.AuthRateLimit(registerPolicy, deps.Redis, deps.AuthMetrics, logg)

	readiness := map[string]controllers.Pinger{"db": deps.DB}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimit).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(registerLimit).Post("/register", controllers.AuthRegister(deps.RegisterService, logg))
		r.With(registerLimit).Post("/register-step1", controllers.AuthRegisterStep1(deps.RegisterService, logg))
		r.With(registerLimit).Post("/register-step2", controllers.AuthRegisterStep2(deps.RegisterService, logg))
		r.Get("/unique-mobile", controllers.AuthUniqueMobile(deps.UniquenessService, logg))
		r.Get("/unique-email", controllers.AuthUniqueEmail(deps.UniquenessService, logg))
		r.Get("/register-metadata", controllers.RegisterMetadata(deps.GeoService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Get("/me", controllers.AuthMe(deps.AuthService, logg))
			r.Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
		})
	})

	r.Route("/api/v1/geographic", func(r chi.Router) {
		r.Get("/states/{countryId}", controllers.GeoStates(deps.GeoService, logg))
		r.Get("/districts/{stateId}", controllers.GeoDistricts(deps.GeoService, logg))
	})

	return r
}
