package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ChemistryHero11/BarExchange-Pro/api/controllers"
	"github.com/ChemistryHero11/BarExchange-Pro/api/middleware"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/bars"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/drinks"
	"github.com/ChemistryHero11/BarExchange-Pro/internal/orders"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/config"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/db"
	"github.com/ChemistryHero11/BarExchange-Pro/pkg/logger"
	pkgredis "github.com/ChemistryHero11/BarExchange-Pro/pkg/redis"
)

// NewRouter wires the HTTP surface: venue and menu management, the patron
// ticker, and order intake. Mutating endpoints sit behind the redis-backed
// idempotency middleware.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	barService bars.Service,
	drinkService drinks.Service,
	orderService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var idempotencyStore pkgredis.IdempotencyStore
	var cachePinger pkgredis.Pinger
	if redisClient != nil {
		idempotencyStore = redisClient
		cachePinger = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cachePinger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/bars", func(r chi.Router) {
			r.Post("/", controllers.BarCreate(barService, logg))
			r.Get("/", controllers.BarList(barService, logg))
			r.Route("/{barID}", func(r chi.Router) {
				r.Get("/", controllers.BarGet(barService, logg))
				r.Get("/drinks", controllers.BarDashboard(drinkService, logg))
				r.Get("/ticker", controllers.BarTicker(drinkService, logg))
				r.Get("/orders", controllers.BarOrders(orderService, logg))
			})
		})

		r.Route("/drinks", func(r chi.Router) {
			r.Post("/", controllers.DrinkCreate(drinkService, logg))
			r.Route("/{drinkID}", func(r chi.Router) {
				r.Get("/", controllers.DrinkGet(drinkService, logg))
				r.Patch("/", controllers.DrinkUpdate(drinkService, logg))
				r.Delete("/", controllers.DrinkDelete(drinkService, logg))
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCreate(orderService, logg))
			r.Route("/{orderID}", func(r chi.Router) {
				r.Get("/", controllers.OrderGet(orderService, logg))
				r.Post("/cancel", controllers.OrderCancel(orderService, logg))
			})
		})
	})

	return r
}
