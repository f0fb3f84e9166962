package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/assetmanage/assetmanage-backend/api/routes"
	"github.com/assetmanage/assetmanage-backend/internal/assets"
	"github.com/assetmanage/assetmanage-backend/internal/payments"
	"github.com/assetmanage/assetmanage-backend/internal/requests"
	"github.com/assetmanage/assetmanage-backend/internal/users"
	"github.com/assetmanage/assetmanage-backend/pkg/config"
	"github.com/assetmanage/assetmanage-backend/pkg/db"
	"github.com/assetmanage/assetmanage-backend/pkg/logger"
	"github.com/assetmanage/assetmanage-backend/pkg/metrics"
	"github.com/assetmanage/assetmanage-backend/pkg/migrate"
	"github.com/assetmanage/assetmanage-backend/pkg/redis"
	pkgstripe "github.com/assetmanage/assetmanage-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	var stripeClient *pkgstripe.Client
	if cfg.Stripe.APIKey != "" {
		stripeClient, err = pkgstripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap stripe", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(context.Background(), "stripe api key not set, payment intents disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	reservationMetrics := metrics.NewReservationMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	assetsRepo := assets.NewRepository(dbClient.DB())
	requestsRepo := requests.NewRepository(dbClient.DB())
	paymentsRepo := payments.NewRepository(dbClient.DB())

	usersService, err := users.NewService(usersRepo)
	requireService(logg, "users", err)
	assetsService, err := assets.NewService(assetsRepo)
	requireService(logg, "assets", err)
	requestsService, err := requests.NewService(
		requestsRepo,
		dbClient,
		requests.NewInventoryStore(assetsRepo),
		reservationMetrics,
	)
	requireService(logg, "requests", err)
	paymentsService, err := payments.NewService(
		paymentsRepo,
		usersRepo,
		dbClient,
		payments.NewStripeClient(stripeClient),
	)
	requireService(logg, "payments", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			usersService,
			assetsService,
			requestsService,
			paymentsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	ctx := logg.WithField(context.Background(), "service", name)
	logg.Error(ctx, "failed to create service", err)
	os.Exit(1)
}
