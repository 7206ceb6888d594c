package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/storefront-catalog/api/controllers"
	"github.com/angelmondragon/storefront-catalog/api/middleware"
	"github.com/angelmondragon/storefront-catalog/internal/storefront"
	"github.com/angelmondragon/storefront-catalog/pkg/config"
	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	"github.com/angelmondragon/storefront-catalog/pkg/logger"
	"github.com/angelmondragon/storefront-catalog/pkg/metrics"
)

// Dependencies are the collaborators the router hands to controllers.
// Readiness pingers and the metrics handler are optional.
type Dependencies struct {
	Storefront     storefront.Service
	Readiness      map[string]controllers.Pinger
	HTTPMetrics    *metrics.HTTPMetrics
	MetricsHandler http.Handler
	// ImportEnabled exposes the catalog document import route.
	ImportEnabled bool
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	defaultLocale, err := enums.ParseLocale(cfg.Catalog.DefaultLocale)
	if err != nil {
		defaultLocale = enums.DefaultLocale
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Locale(defaultLocale, logg))

		r.Get("/public/ping", controllers.PublicPing())

		r.Route("/v1/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Storefront, logg))
			r.Get("/{productId}", controllers.GetProduct(deps.Storefront, logg))
			r.Post("/{productId}/selection", controllers.SelectOption(deps.Storefront, logg))
		})

		if deps.ImportEnabled {
			r.Post("/v1/catalog/documents", controllers.ImportProduct(deps.Storefront, logg))
		}
	})

	return r
}
