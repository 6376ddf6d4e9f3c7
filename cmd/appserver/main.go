// Command appserver runs the NEET prep HTTP API.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	app "github.com/neetprep/service_layer/internal/app"
	"github.com/neetprep/service_layer/internal/app/httpapi"
	"github.com/neetprep/service_layer/internal/app/storage/cache"
	"github.com/neetprep/service_layer/internal/app/storage/postgres"
	"github.com/neetprep/service_layer/internal/config"
	"github.com/neetprep/service_layer/internal/platform/database"
	"github.com/neetprep/service_layer/internal/platform/migrations"
	"github.com/neetprep/service_layer/pkg/logger"
)

func main() {
	var (
		envFile = flag.String("env", ".env.local", "dotenv file loaded before reading the environment")
		addr    = flag.String("addr", "", "listen address (overrides HTTP_ADDR)")
		migrate = flag.Bool("migrate", false, "run database migrations before serving")
	)
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.HTTPAddr = *addr
	}

	settings, err := config.LoadSettingsOrDefault(cfg.SettingsFile)
	if err != nil {
		log.Fatalf("load server settings: %v", err)
	}

	rootLog := logger.New(logger.LoggingConfig{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cfg.LogOutput})
	appLog := rootLog.Named("appserver")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *migrate {
		if err := migrations.Up(cfg.DatabaseURL); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		appLog.Info("migrations applied")
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	store := postgres.New(db)
	stores := app.Stores{Questions: store, Sessions: store, Querier: store}

	if cfg.RedisURL != "" {
		redisCache, err := cache.NewRedis(cfg.RedisURL, cfg.LookupCacheTTL)
		if err != nil {
			log.Fatalf("redis cache: %v", err)
		}
		defer redisCache.Close()
		if err := redisCache.Ping(ctx); err != nil {
			appLog.WithError(err).Warn("redis unavailable; lookups will not be cached")
		} else {
			stores.LookupCache = redisCache
		}
	}

	application, err := app.New(stores, rootLog.Named("app"))
	if err != nil {
		log.Fatalf("build application: %v", err)
	}

	handler, err := httpapi.NewRouter(application, *settings, rootLog.Named("httpapi"))
	if err != nil {
		log.Fatalf("build router: %v", err)
	}
	if err := application.Attach(httpapi.NewService(cfg.HTTPAddr, handler, settings.Server, rootLog.Named("http"))); err != nil {
		log.Fatalf("attach http service: %v", err)
	}

	if err := application.Start(ctx); err != nil {
		log.Fatalf("start application: %v", err)
	}
	appLog.WithField("addr", cfg.HTTPAddr).Info("appserver started")

	<-ctx.Done()
	appLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), settings.Server.ShutdownTimeout)
	defer cancel()
	if err := application.Stop(shutdownCtx); err != nil {
		appLog.WithError(err).Error("shutdown")
	}
}
