package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/ChemistryHero11/BarExchange-Pro/internal/cron"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/decay"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/ledger"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/pricing"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/config"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/metrics"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/migrate"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/redis"
)

const lockKeyFormat = "barex:decay-worker:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "decay-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "decay-worker"

	logg = logger.New(logger.Options{
		ServiceName: "decay-worker",
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

	rules, err := loadRules(cfg.Pricing)
	if err != nil {
		logg.Error(context.Background(), "invalid pricing policy config", err)
		os.Exit(1)
	}

	decayJob, err := decay.NewJob(decay.JobParams{
		Ledger:  ledger.NewRepository(dbClient.DB()),
		Rules:   rules,
		Metrics: metrics.NewPricingMetrics(prometheus.DefaultRegisterer),
		Logger:  logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create decay job", err)
		os.Exit(1)
	}

	retentionJob, err := cron.NewOutboxRetentionJob(cron.OutboxRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: outbox.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create outbox retention job", err)
		os.Exit(1)
	}

	lock, err := cron.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler lock", err)
		os.Exit(1)
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(decayJob, retentionJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Pricing.DecayInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduler", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"interval":    cfg.Pricing.DecayInterval.String(),
	})
	logg.Info(ctx, "starting decay worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "decay worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "decay worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}

func loadRules(cfg config.PricingConfig) (pricing.Rules, error) {
	increase, err := decimal.NewFromString(cfg.IncreaseRate)
	if err != nil {
		return pricing.Rules{}, err
	}
	decayFactor, err := decimal.NewFromString(cfg.DecayFactor)
	if err != nil {
		return pricing.Rules{}, err
	}
	return pricing.NewRules(increase, decayFactor), nil
}
