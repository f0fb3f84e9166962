package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/assetmanage/assetmanage-backend/api/controllers"
	"github.com/assetmanage/assetmanage-backend/api/middleware"
	"github.com/assetmanage/assetmanage-backend/internal/assets"
	"github.com/assetmanage/assetmanage-backend/internal/payments"
	"github.com/assetmanage/assetmanage-backend/internal/requests"
	"github.com/assetmanage/assetmanage-backend/internal/users"
	"github.com/assetmanage/assetmanage-backend/pkg/config"
	"github.com/assetmanage/assetmanage-backend/pkg/db"
	"github.com/assetmanage/assetmanage-backend/pkg/enums"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
	"github.com/assetmanage/assetmanage-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	usersService users.Service,
	assetsService assets.Service,
	requestsService requests.Service,
	paymentsService payments.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	tokenPolicy := middleware.NewAuthRateLimitPolicy(
		"token",
		cfg.AuthRateLimit.TokenWindow,
		cfg.AuthRateLimit.TokenIPLimit,
		cfg.AuthRateLimit.TokenEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.TokenWindow,
		cfg.AuthRateLimit.TokenIPLimit,
		cfg.AuthRateLimit.TokenEmailLimit,
	)

	// A typed nil client would slip past the middleware's store check, so the
	// limiter is disabled explicitly when redis is absent.
	tokenLimiter := middleware.AuthRateLimit(tokenPolicy, nil, logg)
	registerLimiter := middleware.AuthRateLimit(registerPolicy, nil, logg)
	if redisClient != nil {
		tokenLimiter = middleware.AuthRateLimit(tokenPolicy, redisClient, logg)
		registerLimiter = middleware.AuthRateLimit(registerPolicy, redisClient, logg)
	}

	var cachePinger redis.Pinger
	if redisClient != nil {
		cachePinger = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cachePinger))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.With(tokenLimiter).
			Post("/auth/token", controllers.IssueToken(cfg.JWT, usersService, logg))

		// Registration runs before a token exists, so it stays outside the
		// authenticated group behind its own rate limit window.
		r.With(registerLimiter).
			Post("/users", controllers.RegisterUser(usersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/ping", controllers.PrivatePing())

			// The users collection shares its root with the public POST
			// above, so these stay flat instead of mounting a subrouter.
			r.With(middleware.RequireRole(enums.UserRoleHR, logg)).
				Get("/users", controllers.ListOwnCompanyUsers(usersService, logg))
			r.Get("/users/hr/{email}", controllers.ProbeRole(usersService, enums.UserRoleHR, logg))
			r.Get("/users/employee/{email}", controllers.ProbeRole(usersService, enums.UserRoleEmployee, logg))
			r.Get("/users/company/{companyName}", controllers.ListCompanyUsers(usersService, logg))
			r.Get("/users/{email}", controllers.GetUser(usersService, logg))
			r.Patch("/users", controllers.RenameUser(usersService, logg))
			r.With(middleware.RequireRole(enums.UserRoleHR, logg)).
				Patch("/users/{userId}/company", controllers.UpdateUserCompany(usersService, logg))

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", controllers.ListAssets(assetsService, logg))
				r.Get("/limited-stock", controllers.ListLimitedStock(assetsService, logg))
				r.Get("/{assetId}", controllers.GetAsset(assetsService, logg))

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(enums.UserRoleHR, logg))
					r.Post("/", controllers.CreateAsset(assetsService, logg))
					r.Put("/{assetId}", controllers.UpdateAsset(assetsService, logg))
					r.Delete("/{assetId}", controllers.DeleteAsset(assetsService, logg))
				})
			})

			r.Route("/requests", func(r chi.Router) {
				r.Get("/", controllers.ListRequests(requestsService, logg))
				r.With(middleware.RequireRole(enums.UserRoleEmployee, logg)).
					Post("/", controllers.CreateRequest(requestsService, logg))
				r.With(middleware.RequireRole(enums.UserRoleHR, logg)).
					Post("/{requestId}/decision", controllers.DecideRequest(requestsService, logg))
				r.With(middleware.RequireRole(enums.UserRoleEmployee, logg)).
					Post("/{requestId}/cancel", controllers.CancelRequest(requestsService, logg))
				r.With(middleware.RequireRole(enums.UserRoleEmployee, logg)).
					Post("/{requestId}/return", controllers.ReturnRequest(requestsService, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.UserRoleHR, logg))
				r.Get("/", controllers.ListPayments(paymentsService, logg))
				r.Post("/intent", controllers.CreatePaymentIntent(paymentsService, logg))
				r.Post("/", controllers.RecordPayment(paymentsService, logg))
				r.Put("/package", controllers.UpgradePackage(paymentsService, logg))
			})
		})
	})

	return r
}
