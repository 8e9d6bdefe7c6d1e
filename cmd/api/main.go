package main

import (
	"context"
	"errors"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"storefront/internal/adapter/repo"
	"storefront/internal/app"
	"storefront/internal/http/handlers"
	httpapi "storefront/internal/http/httpapi"
	"storefront/internal/infra"
	"storefront/internal/infra/geoip"
	"storefront/internal/middleware"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)
	metrics := infra.NewMetrics()

	ctx := context.Background()

	pipeline, err := app.NewMedia(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build media pipeline")
	}
	defer pipeline.Close()

	application := handlers.NewApp(logger, pipeline.Resolver, pipeline.Hooks, cfg.SiteBaseURL)

	routerOpts := httpapi.Options{
		Logger:             logger,
		Recorder:           metrics,
		Metrics:            metrics.Handler(),
		MediaRoot:          pipeline.Store.BasePath(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		EventsPerMinute:    cfg.RateLimitPerMin,
	}

	// The database is optional: without it events run inline and legacy
	// product links are not redirected.
	dbpool, err := infra.NewDBPool(ctx, cfg)
	switch {
	case errors.Is(err, infra.ErrDatabaseDisabled):
		logger.Warn().Msg("DATABASE_URL not set, variant jobs run in-process")
	case err != nil:
		logger.Fatal().Err(err).Msg("failed to connect database")
	default:
		defer dbpool.Close()
		runner := infra.NewSQLRunner(dbpool, logger)
		jobs := repo.NewVariantJobRepository(runner)
		if err := jobs.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure variant job schema")
		}
		application.Jobs = jobs
		application.DB = dbpool
		routerOpts.Products = repo.NewProductRepository(runner)
	}

	geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer geo.Close()
	var lookup middleware.CountryLookup
	if geo != nil {
		lookup = geo.CountryCode
	}
	routerOpts.Language = middleware.DefaultLanguageOptions(lookup)

	if cfg.PagesUpstreamURL != "" {
		upstream, err := url.Parse(cfg.PagesUpstreamURL)
		if err != nil || upstream.Host == "" {
			logger.Fatal().Str("url", cfg.PagesUpstreamURL).Msg("invalid PAGES_UPSTREAM_URL")
		}
		routerOpts.Pages = handlers.PageProxy(upstream, logger)
	}

	router := httpapi.NewRouter(application, routerOpts)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
