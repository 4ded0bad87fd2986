package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/storefront-backend/api/controllers/cart"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	products "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

// NewRouter wires the storefront API. redisClient may be nil, which disables
// idempotent replays and drops redis from the readiness checks. registry may
// be nil, which disables /metrics.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	productService products.Service,
	cartService cart.Service,
) http.Handler {
	r := chi.NewRouter()

	var idempotencyStore redis.IdempotencyStore
	readiness := map[string]controllers.Pinger{}
	if dbP != nil {
		readiness["database"] = dbP
	}
	if redisClient != nil {
		idempotencyStore = redisClient
		readiness["redis"] = redisClient
	}

	var httpMetrics *metrics.HTTPMetrics
	if registry != nil {
		httpMetrics = metrics.NewHTTPMetrics(registry)
	}

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.UserID(logg),
		middleware.Idempotency(idempotencyStore, logg),
	)

	r.Get("/health-check", controllers.HealthCheck())
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(productService, logg))
		r.Post("/", controllers.ProductCreate(productService, logg))
		r.Get("/{id}", controllers.ProductGet(productService, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", cartcontrollers.CartGet(cartService, logg))
		r.Post("/add", cartcontrollers.CartAdd(cartService, logg))
		r.Put("/update", cartcontrollers.CartUpdate(cartService, logg))
		r.Delete("/item/{itemId}", cartcontrollers.CartRemove(cartService, logg))
		r.Delete("/clear", cartcontrollers.CartClear(cartService, logg))
	})

	return r
}
