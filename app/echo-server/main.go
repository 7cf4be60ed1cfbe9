package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pokePortMarket/app/echo-server/router"
	"pokePortMarket/business/card"
	"pokePortMarket/business/orders"
	"pokePortMarket/business/pokedex"
	userService "pokePortMarket/business/user"
	"pokePortMarket/internal/middleware"
	"pokePortMarket/internal/repository/notification"
	psqlRepo "pokePortMarket/internal/repository/postgres"
	redisRepo "pokePortMarket/internal/repository/redis"
	"pokePortMarket/internal/rest"
	"pokePortMarket/pkg/config"
	"pokePortMarket/pkg/database"
	redisClient "pokePortMarket/pkg/database/redis"
	"pokePortMarket/pkg/logger"
	"pokePortMarket/pkg/metrics"
	"pokePortMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
)

// redisPinger adapts a go-redis client to rest.Pinger.
type redisPinger struct {
	client *goredis.Client
}

func (p redisPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting PokePort Market", "version", cfg.App.Version, "env", cfg.App.Environment)

	utils.InitJWT(cfg.JWT.SecretKey, cfg.JWT.TTL)
	if !utils.JWTEnabled() {
		logger.Warn("JWT_SECRET not set, admin routes are unauthenticated")
	}

	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := psqlRepo.RunMigrations(context.Background(), db); err != nil {
			logger.Fatal("Failed to run migrations", "error", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("Failed to get database handle", "error", err)
	}

	healthChecks := map[string]rest.Pinger{"database": sqlDB}

	// Catalog cache is optional; keep the interface nil when disabled
	var catalogCache card.CatalogCache
	var rdb *goredis.Client
	if cfg.Redis.RedisHost != "" {
		rdb, err = redisClient.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, catalog cache disabled", "error", err)
		} else {
			catalogCache = redisRepo.NewCatalogCache(rdb, cfg.Redis.CacheTTL)
			healthChecks["redis"] = redisPinger{client: rdb}
			logger.Info("Redis connected successfully")
		}
	}

	// Init notification from mailjet
	var notifier orders.NotificationRepository
	mailjetEmail := notification.NewMailjetRepository(
		notification.MailjetConfig{
			MailjetBaseURL:           cfg.Mailjet.MailjetBaseUrl,
			MailjetBasicAuthUsername: cfg.Mailjet.MailjetBasicAuthUsername,
			MailjetBasicAuthPassword: cfg.Mailjet.MailjetBasicAuthPassword,
			MailjetSenderEmail:       cfg.Mailjet.MailjetSenderEmail,
			MailjetSenderName:        cfg.Mailjet.MailjetSenderName,
		},
	)
	if mailjetEmail.Enabled() {
		notifier = mailjetEmail
	}

	// Init validate
	validate := validator.New()

	// Init repo
	store := psqlRepo.NewStore(db)

	// Init service
	userService := userService.NewUserService(store.Users(), validate)
	cardService := card.NewCardService(store.Cards(), catalogCache)
	ordersService := orders.NewOrdersService(store, store, catalogCache, notifier, cfg.Mailjet.AdminEmail)
	pokedexService := pokedex.NewPokedexService(store.Users(), store.Pokedex())

	// Init handler
	timeout := cfg.Server.RequestTimeout
	userHandler := rest.NewUserHandler(userService, timeout)
	cardHandler := rest.NewCardHandler(cardService, timeout)
	ordersHandler := rest.NewOrdersHandler(ordersService, timeout)
	pokedexHandler := rest.NewPokedexHandler(pokedexService, timeout)
	healthHandler := rest.NewHealthHandler(cfg.App.Version, healthChecks)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.Metrics())

	// Setup routes
	adminGuard := middleware.AdminGuard(utils.JWTEnabled())

	api := e.Group("/api/v1")
	router.SetupCardRoutes(api, cardHandler, adminGuard...)
	router.SetOrdersRoutes(api, ordersHandler, adminGuard...)
	router.SetupUserRoutes(api, userHandler, adminGuard...)
	router.SetupPokedexRoutes(api, pokedexHandler)
	router.SetupOpsRoutes(e, healthHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	if err := redisClient.CloseRedisClient(rdb); err != nil {
		logger.Error("Redis close error", "error", err)
	}

	if err := sqlDB.Close(); err != nil {
		logger.Error("Database close error", "error", err)
	}

	logger.Info("Server stopped")
}
