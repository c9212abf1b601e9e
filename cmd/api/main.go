package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/storekeeper/connector/api/routes"
	"github.com/storekeeper/connector/internal/checkout"
	"github.com/storekeeper/connector/internal/connection"
	"github.com/storekeeper/connector/internal/customers"
	"github.com/storekeeper/connector/internal/orders"
	"github.com/storekeeper/connector/internal/payment"
	"github.com/storekeeper/connector/pkg/config"
	"github.com/storekeeper/connector/pkg/db"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/metrics"
	"github.com/storekeeper/connector/pkg/migrate"
	"github.com/storekeeper/connector/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
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

	connectionService, err := connection.NewService(connection.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create connection service", err)
		os.Exit(1)
	}

	sessionStore, err := checkout.NewSessionStore(redisClient, cfg.Checkout.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customers.NewConnectionModules(connectionService), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create customer service", err)
		os.Exit(1)
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	paymentMetrics := metrics.NewPaymentMetrics(prometheus.DefaultRegisterer)
	orchestrator, err := payment.NewOrchestrator(
		payment.NewConnectionModules(connectionService),
		customerService,
		checkout.NewQuoteRepository(dbClient),
		ordersRepo,
		sessionStore,
		cfg.Checkout.FinishPageURL,
		logg,
		paymentMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment orchestrator", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(routes.Deps{
		Config:     cfg,
		Logger:     logg,
		DB:         dbClient,
		Redis:      redisClient,
		Orders:     ordersRepo,
		Redirector: orchestrator,
		StoreAdmin: connectionService,
	})

	addr := ":" + cfg.App.Port
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown failed", err)
		}
	}()

	startCtx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(startCtx, "server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(startCtx, "api server shut down gracefully")
}
