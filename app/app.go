// Package app wires configuration, stores, services and routes into one
// gin engine. Both the standalone server and the serverless entry point
// build through here.
package app

import (
	"context"
	"fmt"

	"food-order/config"
	"food-order/controllers"
	"food-order/libs"
	"food-order/middleware"
	"food-order/repositories"
	"food-order/routes"
	"food-order/services"
	"food-order/utils"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type App struct {
	Router *gin.Engine

	db     *pgxpool.Pool
	cache  *redis.Client
	orders *services.OrderService
	events *libs.OrderEventPublisher
	log    zerolog.Logger
}

type Options struct {
	SkipMigrations bool
}

func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger, opts Options) (*App, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if !opts.SkipMigrations {
		if err := config.RunMigrations(cfg); err != nil {
			return nil, err
		}
	}

	db, err := config.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	a := &App{db: db, log: logger}
	a.cache = config.ConnectRedis(ctx, cfg)

	var notifiers []services.OrderNotifier
	if mailer, err := libs.NewMailer(libs.MailConfig{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	}); err == nil {
		notifiers = append(notifiers, mailer)
	} else {
		logger.Info().Msg("SMTP not configured, order confirmation emails disabled")
	}

	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		events, err := libs.NewOrderEventPublisher(brokers, cfg.KafkaOrderTopic, logger)
		if err != nil {
			db.Close()
			return nil, err
		}
		a.events = events
		notifiers = append(notifiers, events)
	}

	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)

	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	addressRepo := repositories.NewAddressRepository(db)
	userRepo := repositories.NewUserRepository(db)
	menuRepo := repositories.NewMenuRepository(db)

	passwords := utils.NewPasswordHasher(cfg.Argon2Time, cfg.Argon2MemoryKiB, cfg.Argon2Threads)
	authService := services.NewAuthService(userRepo, tokens, passwords)
	a.orders = services.NewOrderService(orderRepo, logger, notifiers...)

	router := gin.New()
	router.Use(middleware.Defaults(logger, cfg.OriginURL)...)

	routes.SetupRoutes(router, routes.Handlers{
		Auth:          controllers.NewAuthController(authService, logger),
		Cart:          controllers.NewCartController(services.NewCartService(cartRepo, logger), logger),
		Order:         controllers.NewOrderController(a.orders, logger),
		Address:       controllers.NewAddressController(services.NewAddressService(addressRepo), logger),
		Menu:          controllers.NewMenuController(services.NewMenuService(menuRepo, a.cache, cfg.MenuCacheTTL, logger), logger),
		Health:        controllers.NewHealthController(menuRepo, logger),
		Authenticator: authService,
	})

	a.Router = router
	return a, nil
}

// Close waits for in-flight order notifications, then releases every
// connection.
func (a *App) Close() {
	a.orders.Wait()
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing kafka writer")
		}
	}
	if a.cache != nil {
		_ = a.cache.Close()
	}
	a.db.Close()
}
