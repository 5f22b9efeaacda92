package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leadspeed/internal/cache"
	"leadspeed/internal/conversion"
	"leadspeed/internal/conversion/service"
	"leadspeed/internal/gcal"
	apphttp "leadspeed/internal/http"
	"leadspeed/internal/http/router"
	leadsrepo "leadspeed/internal/leads/repository"
	"leadspeed/platform/config"
	"leadspeed/platform/db"
	"leadspeed/platform/logger"
	"leadspeed/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// No consent flow on the server: the stored token must already exist
	// (run the report CLI once to authorize).
	provider, err := gcal.NewCredentialProvider(cfg, nil)
	if err != nil {
		log.Error("failed to initialize Google credentials", "error", err)
		panic("failed to initialize Google credentials: " + err.Error())
	}

	reportCache, closeCache := initReportCache(cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	val := validator.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	conversionModule := conversion.NewModule(
		leadsrepo.New(pool, cfg.GetLeadsTable()),
		gcal.NewFetcher(provider, log),
		reportCache,
		log,
		val,
	)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			conversionModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initReportCache(cfg config.CacheConfig, log *logger.Logger) (service.ReportCache, func()) {
	if !cfg.IsCacheEnabled() {
		log.Warn("REDIS_URL not configured; report caching disabled")
		return nil, nil
	}

	reportCache, err := cache.New(cfg.GetRedisURL(), cfg.GetReportCacheTTL())
	if err != nil {
		log.Error("failed to initialize report cache", "error", err)
		return nil, nil
	}

	return reportCache, func() {
		_ = reportCache.Close()
	}
}
