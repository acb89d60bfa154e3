package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-order/app"
	"food-order/config"
	_ "food-order/docs"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

// @title Food Order API
// @version 1.0
// @description Cart, checkout and menu API of the food ordering app.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	envFile := pflag.String("env-file", ".env", "path of the .env file to load")
	skipMigrations := pflag.Bool("skip-migrations", false, "do not apply database migrations on start")
	migrateOnly := pflag.Bool("migrate-only", false, "apply database migrations and exit")
	pflag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger := config.NewLogger(cfg)

	if *migrateOnly {
		if err := config.RunMigrations(cfg); err != nil {
			logger.Fatal().Err(err).Msg("migration failed")
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, app.Options{SkipMigrations: *skipMigrations})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start")
	}
	defer application.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.AppEnv).
			Str("swagger", "http://localhost:"+cfg.Port+"/swagger/index.html").
			Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
