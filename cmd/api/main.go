package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mygroup/mygroup-backend/api/routes"
	"github.com/mygroup/mygroup-backend/internal/auth"
	"github.com/mygroup/mygroup-backend/internal/geo"
	"github.com/mygroup/mygroup-backend/internal/users"
	"github.com/mygroup/mygroup-backend/pkg/config"
	"github.com/mygroup/mygroup-backend/pkg/db"
	"github.com/mygroup/mygroup-backend/pkg/logger"
	"github.com/mygroup/mygroup-backend/pkg/metrics"
	"github.com/mygroup/mygroup-backend/pkg/migrate"
	"github.com/mygroup/mygroup-backend/pkg/redis"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

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
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	if err := run(cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logg *logger.Logger) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	closers := []func() error{dbClient.Close}
	defer func() {
		for _, closeFn := range closers {
			err = multierr.Append(err, closeFn())
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	authMetrics := metrics.NewAuthMetrics(registry)

	deps := routes.Dependencies{
		DB:          dbClient,
		AuthMetrics: authMetrics,
		HTTPMetrics: metrics.NewHTTPMetrics(registry),
		Gatherer:    registry,
	}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return err
		}
		closers = append(closers, redisClient.Close)
		deps.Redis = redisClient
	} else {
		logg.Warn(ctx, "redis not configured, auth rate limiting disabled")
	}

	userRepo := users.NewRepository(dbClient.DB())
	if deps.AuthService, err = auth.NewService(auth.ServiceParams{
		UserRepo:         userRepo,
		JWTConfig:        cfg.JWT,
		PasswordConfig:   cfg.Password,
		AcceptLegacyHash: cfg.FeatureFlags.LegacyHash,
		Metrics:          authMetrics,
		Logger:           logg,
	}); err != nil {
		return err
	}
	if deps.RegisterService, err = auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Metrics:        authMetrics,
	}); err != nil {
		return err
	}
	if deps.UniquenessService, err = auth.NewUniquenessService(userRepo); err != nil {
		return err
	}
	if deps.GeoService, err = geo.NewService(geo.NewRepository(dbClient.DB())); err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
