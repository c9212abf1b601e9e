package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/storekeeper/connector/internal/catalog"
	"github.com/storekeeper/connector/internal/connection"
	"github.com/storekeeper/connector/pkg/config"
	"github.com/storekeeper/connector/pkg/db"
	"github.com/storekeeper/connector/pkg/logger"
	"github.com/storekeeper/connector/pkg/metrics"
	"github.com/storekeeper/connector/pkg/migrate"
	"github.com/storekeeper/connector/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "sync-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "sync-worker",
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

	categoryRepo := catalog.NewCategoryRepository(dbClient.DB())
	matcher := catalog.NewMatcher(categoryRepo)
	upserter := catalog.NewUpserter(categoryRepo, logg)
	syncMetrics := metrics.NewSyncMetrics(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var runErr error
	for _, rawStoreID := range cfg.Sync.StoreIDs {
		storeID, err := uuid.Parse(rawStoreID)
		if err != nil {
			logg.Error(ctx, "invalid store id in sync config", err)
			runErr = multierr.Append(runErr, err)
			continue
		}
		runErr = multierr.Append(runErr, reconcileStore(ctx, storeID, cfg, logg, connectionService, matcher, upserter, syncMetrics, redisClient))
	}

	if runErr != nil {
		logg.Error(ctx, "sync worker finished with errors", runErr)
		os.Exit(1)
	}
	logg.Info(ctx, "sync worker finished")
}

func reconcileStore(
	ctx context.Context,
	storeID uuid.UUID,
	cfg *config.Config,
	logg *logger.Logger,
	connections *connection.Service,
	matcher *catalog.Matcher,
	upserter *catalog.Upserter,
	syncMetrics *metrics.SyncMetrics,
	redisClient *redis.Client,
) error {
	ctx = logg.WithStoreID(ctx, storeID.String())

	module, err := connections.ShopModule(ctx, storeID)
	if err != nil {
		logg.Error(ctx, "store has no usable connection", err)
		return err
	}

	reconciler, err := catalog.NewReconciler(module, matcher, upserter, logg, syncMetrics)
	if err != nil {
		return err
	}

	lock := catalog.NewRunLock(
		redisClient,
		redisClient.SyncLockKey(storeID.String(), catalog.EntityCategories),
		uuid.NewString(),
		cfg.Sync.LockTTL,
	)
	if err := lock.Acquire(ctx); err != nil {
		logg.Warn(ctx, "skipping store, reconciliation already running")
		return err
	}
	defer func() {
		if err := lock.Release(ctx); err != nil {
			logg.Error(ctx, "failed to release run lock", err)
		}
	}()

	summary, err := reconciler.Reconcile(ctx, storeID, catalog.Params{PageSize: cfg.Sync.PageSize})
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{
		"processed": summary.Processed,
		"total":     summary.Total,
		"errors":    len(summary.Errors),
	})
	logg.Info(ctx, "store reconciliation summary")
	return summary.Err()
}
