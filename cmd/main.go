package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/suteetoe/honeydew/internal/handler"
	"github.com/suteetoe/honeydew/internal/migration"
	"github.com/suteetoe/honeydew/internal/repository"
	"github.com/suteetoe/honeydew/internal/seed"
	"github.com/suteetoe/honeydew/pkg/config"
	"github.com/suteetoe/honeydew/pkg/database"
	"github.com/suteetoe/honeydew/pkg/jwtutil"
	"github.com/suteetoe/honeydew/pkg/logger"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(&logger.LogConfig{
		Level:       cfg.Log.Level,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting honeydew", cfg.LogConfig()...)

	db, err := database.InitDB(&cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(db)

	ctx := context.Background()
	if err := database.Migrate(ctx, db, log, migration.All()); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}

	plans := repository.NewBillingPlanRepository(db)
	if err := seed.EnsureBillingPlans(ctx, plans, log); err != nil {
		log.Fatal("Failed to seed billing plans", zap.Error(err))
	}
	if cfg.Seed.DevData {
		if _, err := seed.DevData(ctx,
			repository.NewTenantRepository(db),
			repository.NewApiClientRepository(db),
			plans,
			log,
		); err != nil {
			log.Fatal("Failed to seed development data", zap.Error(err))
		}
	}

	jwtUtil := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{
		SigningKey:         cfg.JWT.SigningKey,
		Issuer:             cfg.JWT.Issuer,
		Audience:           cfg.JWT.Audience,
		AccessTokenMinutes: cfg.JWT.AccessTokenMinutes,
	})
	log.Info("JWT utility initialized")

	e := handler.NewRouter(handler.NewServices(db, jwtUtil, log), jwtUtil, cfg.Metrics.Prefix)

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		errCh <- e.Start(":" + cfg.Server.Port)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server error", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down server", zap.Error(err))
	}
}
