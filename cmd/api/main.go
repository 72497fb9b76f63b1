package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/ChemistryHero11/BarExchange-Pro/api/routes"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/bars"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/drinks"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/orders"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/config"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/migrate"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/outbox"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/redis"
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

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	barRepo := bars.NewRepository(dbClient.DB())
	barService, err := bars.NewService(barRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create bar service", err)
		os.Exit(1)
	}

	drinkRepo := drinks.NewRepository(dbClient.DB())
	drinkService, err := drinks.NewService(drinkRepo, barRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create drink service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orders.NewRepository(dbClient.DB()), barRepo, drinkRepo, dbClient, outboxService)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, barService, drinkService, orderService),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
