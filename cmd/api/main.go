package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/cart"
	carthttp "github.com/example/storefront/internal/cart/http"
	cartredis "github.com/example/storefront/internal/cart/redis"
	cataloghttp "github.com/example/storefront/internal/catalog/adapters/http"
	catalogpostgres "github.com/example/storefront/internal/catalog/adapters/postgres"
	catalogapp "github.com/example/storefront/internal/catalog/app"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/httpx"
	idempostgres "github.com/example/storefront/internal/idempotency/postgres"
	"github.com/example/storefront/internal/kafka"
	ordershttp "github.com/example/storefront/internal/orders/adapters/http"
	orderspostgres "github.com/example/storefront/internal/orders/adapters/postgres"
	ordersapp "github.com/example/storefront/internal/orders/app"
	ordersmetrics "github.com/example/storefront/internal/orders/metrics"
	"github.com/example/storefront/internal/orders/ports"
	"github.com/example/storefront/internal/telemetry"
	usershttp "github.com/example/storefront/internal/users/adapters/http"
	userspostgres "github.com/example/storefront/internal/users/adapters/postgres"
	usersapp "github.com/example/storefront/internal/users/app"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := telemetry.NewLogger(parseLogLevel(cfg.Telemetry.LogLevel))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Initialize(ctx, telemetry.Config{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
		Environment:    cfg.Service.Environment,
		OTLPEndpoint:   cfg.Telemetry.OTelEndpoint,
		EnableTracing:  cfg.Telemetry.EnableTracing,
		EnableMetrics:  cfg.Telemetry.EnableMetrics,
		SampleRate:     cfg.Telemetry.SampleRate,
	})
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		logger.Info("running database migrations", "path", cfg.Database.MigrationsPath)
		if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	meter := otel.Meter(cfg.Service.Name)

	httpMetrics, err := httpx.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create http metrics", "error", err)
		os.Exit(1)
	}
	orderMetrics, err := ordersmetrics.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create order metrics", "error", err)
		os.Exit(1)
	}
	dbMetrics, err := database.NewMetrics(meter)
	if err != nil {
		logger.Error("failed to create database metrics", "error", err)
		os.Exit(1)
	}

	var eventBus ports.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaMetrics, err := kafka.NewMetrics(meter)
		if err != nil {
			logger.Error("failed to create kafka metrics", "error", err)
			os.Exit(1)
		}
		bus := kafka.NewEventBus(cfg.Kafka.Brokers, cfg.Kafka.Topic, kafkaMetrics)
		defer func() {
			if err := bus.Close(); err != nil {
				logger.Error("kafka writer close failed", "error", err)
			}
		}()
		eventBus = bus
		logger.Info("publishing order events to kafka",
			"brokers", strings.Join(cfg.Kafka.Brokers, ","),
			"topic", cfg.Kafka.Topic)
	} else {
		eventBus = kafka.NewNoopEventBus()
		logger.Info("kafka brokers not configured, order events disabled")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer redisClient.Close()

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	productRepo := catalogpostgres.NewRepository(pool)
	categoryRepo := catalogpostgres.NewCategoryRepository(pool)
	orderRepo := orderspostgres.NewRepository(pool).WithMetrics(dbMetrics)
	userRepo := userspostgres.NewRepository(pool)
	idemStore := idempostgres.NewStore(pool)
	cartStore := cartredis.NewStore(redisClient, cfg.Redis.CartTTL)

	catalogService := catalogapp.NewService(productRepo, categoryRepo, logger)
	orderService := ordersapp.NewService(orderRepo, productRepo, eventBus, idemStore, logger, orderMetrics)
	cartService := cart.NewService(cartStore, productRepo, orderService, logger)
	userService := usersapp.NewService(userRepo, tokens, logger)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(httpx.WithMetrics(httpMetrics))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := database.CheckHealth(r.Context(), pool); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready", "error": err.Error()})
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	// Metrics are pushed over OTLP; this endpoint only confirms the service
	// is instrumented.
	router.Get(cfg.HTTP.MetricsPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("# metrics are exported via OTLP\n"))
	})

	cataloghttp.NewHandler(catalogService, tokens).Register(router)
	ordershttp.NewHandler(orderService, tokens).Register(router)
	carthttp.NewHandler(cartService, tokens).Register(router)
	usershttp.NewHandler(userService, tokens).Register(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server starting", "port", cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownGrace)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown failed", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
