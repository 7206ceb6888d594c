package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront-catalog/api/controllers"
	"github.com/angelmondragon/storefront-catalog/api/routes"
	"github.com/angelmondragon/storefront-catalog/internal/catalog"
	"github.com/angelmondragon/storefront-catalog/internal/catalogcache"
	"github.com/angelmondragon/storefront-catalog/internal/catalogstore"
	"github.com/angelmondragon/storefront-catalog/internal/storefront"
	"github.com/angelmondragon/storefront-catalog/internal/upstream"
	"github.com/angelmondragon/storefront-catalog/pkg/config"
	"github.com/angelmondragon/storefront-catalog/pkg/db"
	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	"github.com/angelmondragon/storefront-catalog/pkg/logger"
	"github.com/angelmondragon/storefront-catalog/pkg/metrics"
	"github.com/angelmondragon/storefront-catalog/pkg/migrate"
	"github.com/angelmondragon/storefront-catalog/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	readiness := map[string]controllers.Pinger{}

	var closers []func() error
	defer func() {
		var errs error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = multierr.Append(errs, closers[i]())
		}
		if errs != nil {
			logg.Error(context.Background(), "error closing dependencies", errs)
		}
	}()

	var (
		source      catalog.Source
		writer      storefront.DocumentWriter
		invalidator storefront.CacheInvalidator
	)

	switch cfg.Catalog.Source {
	case config.CatalogSourceDB:
		dbClient, err := db.New(context.Background(), cfg.DB, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap database", err)
			os.Exit(1)
		}
		closers = append(closers, dbClient.Close)

		if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}

		repo := catalogstore.NewRepository(dbClient.DB())
		source, writer = repo, repo
		readiness["db"] = dbClient
	default:
		client, err := upstream.New(upstream.Options{
			BaseURL:           cfg.Catalog.BaseURL,
			Timeout:           cfg.Catalog.RequestTimeout,
			RequestsPerSecond: cfg.Catalog.RateLimit,
			Burst:             cfg.Catalog.RateBurst,
		})
		if err != nil {
			logg.Error(context.Background(), "failed to create catalog upstream client", err)
			os.Exit(1)
		}
		source = client
	}

	if cfg.Cache.Enabled {
		redisClient, err := redis.New(context.Background(), cfg.Redis, cfg.Cache.Namespace, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient.Close)

		cached := catalogcache.New(source, redisClient, catalogcache.Options{
			TTL:         cfg.Cache.TTL,
			LoadTimeout: cfg.Catalog.RequestTimeout,
			Logger:      logg,
		})
		source, invalidator = cached, cached
		readiness["redis"] = redisClient
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	defaultLocale, err := enums.ParseLocale(cfg.Catalog.DefaultLocale)
	if err != nil {
		logg.Warn(logg.WithField(context.Background(), "locale", cfg.Catalog.DefaultLocale), "unsupported default locale, using en")
		defaultLocale = enums.DefaultLocale
	}

	storefrontService, err := storefront.NewService(storefront.Config{
		Source:             source,
		Writer:             writer,
		Invalidator:        invalidator,
		PlaceholderImage:   cfg.Catalog.PlaceholderImage,
		DefaultLocale:      defaultLocale,
		ListingConcurrency: cfg.Listing.Concurrency,
		FetchTimeout:       cfg.Listing.FetchTimeout,
		Metrics:            metrics.NewListingMetrics(registry),
		Logger:             logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":            cfg.App.Env,
		"addr":           addr,
		"catalog_source": cfg.Catalog.Source,
		"cache_enabled":  cfg.Cache.Enabled,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Dependencies{
			Storefront:     storefrontService,
			Readiness:      readiness,
			HTTPMetrics:    metrics.NewHTTPMetrics(registry),
			MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ImportEnabled:  writer != nil,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
		logg.Info(ctx, "api server shutting down gracefully")
	}
}
