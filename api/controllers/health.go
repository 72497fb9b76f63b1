package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/ChemistryHero11/BarExchange-Pro/api/responses"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/config"
	dbpkg "github.com/ChemistryHero11/BarExchange-Pro/pkg/db"
	pkgerrors "github.com/ChemistryHero11/BarExchange-Pro/pkg/errors"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/redis"
)

const readinessTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BarExchange-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the backing stores. Nil pingers are skipped so the
// endpoint works for binaries that only carry a subset of dependencies.
// All stores are checked on every call so a single probe reports every
// unreachable dependency at once.
func HealthReady(cfg *config.Config, logg *logger.Logger, db dbpkg.Pinger, cache redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-BarExchange-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var pingErr error
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				pingErr = multierr.Append(pingErr, fmt.Errorf("database unreachable: %w", err))
			}
		}
		if cache != nil {
			if err := cache.Ping(ctx); err != nil {
				pingErr = multierr.Append(pingErr, fmt.Errorf("redis unreachable: %w", err))
			}
		}
		if pingErr != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, pingErr, "backing stores unreachable"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
