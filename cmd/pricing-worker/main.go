package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/internal/ingest"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/ledger"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/pricing"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/config"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/metrics"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/migrate"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox/idempotency"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/pubsub"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/redis"
)

// Processed-event markers outlive any realistic redelivery window.
const processedEventTTL = 7 * 24 * time.Hour

func main() {
	logg := logger.New(logger.Options{ServiceName: "pricing-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "pricing-worker"

	logg = logger.New(logger.Options{
		ServiceName: "pricing-worker",
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

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap pubsub", err)
		os.Exit(1)
	}
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub client", err)
		}
	}()

	guard, err := idempotency.NewManager(redisClient, processedEventTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency manager", err)
		os.Exit(1)
	}

	rules, err := loadRules(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "invalid pricing policy config", err)
		os.Exit(1)
	}

	pricingMetrics := metrics.NewPricingMetrics(prometheus.DefaultRegisterer)
	handler, err := ingest.NewHandler(ingest.HandlerParams{
		Ledger:  ledger.NewRepository(dbClient.DB()),
		Rules:   rules,
		Metrics: pricingMetrics,
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create order ingestion handler", err)
		os.Exit(1)
	}

	consumer, err := ingest.NewConsumer(handler, guard, pubsubClient.OrdersSubscription(), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create order consumer", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting pricing worker")

	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "pricing worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "pricing worker shutting down gracefully")
}

func loadRules(cfg config.PricingConfig) (pricing.Rules, error) {
	increase, err := decimal.NewFromString(cfg.IncreaseRate)
	if err != nil {
		return pricing.Rules{}, err
	}
	decay, err := decimal.NewFromString(cfg.DecayFactor)
	if err != nil {
		return pricing.Rules{}, err
	}
	return pricing.NewRules(increase, decay), nil
}
