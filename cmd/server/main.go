// Package main is the entry point for the wallet ledger server.
// It loads configuration, wires the ledger store, engine and facade,
// and serves the HTTP adapter until it receives SIGINT or SIGTERM.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"walletledger/internal/config"
	"walletledger/internal/handlers"
	"walletledger/internal/logger"
	"walletledger/internal/middleware"
	"walletledger/internal/models"
	"walletledger/internal/repositories"
	"walletledger/internal/repositories/cache"
	"walletledger/internal/routes"
	"walletledger/internal/services"
	"walletledger/internal/services/transaction"
	"walletledger/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	config.LoadEnv()
	cfg := config.Load()

	log, err := logger.New(config.IsProduction())
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	checks := map[string]handlers.HealthCheckFunc{}

	var uow repositories.UnitOfWork
	switch cfg.Ledger.Store {
	case "memory":
		log.Warn("using in-memory ledger store, balances are lost on restart")
		uow = repositories.NewMemoryStore(models.SystemClock{})
	case "postgres":
		db, err := repositories.InitDB(cfg.Database, log)
		if err != nil {
			log.Fatal("failed to initialize database", zap.Error(err))
		}
		defer func() {
			if err := repositories.CloseDB(db); err != nil {
				log.Warn("failed to close database connection", zap.Error(err))
			}
		}()
		go logPoolStats(db, log)
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
		uow = repositories.NewPostgresStore(db)
	default:
		log.Fatal("unknown ledger store", zap.String("store", cfg.Ledger.Store))
	}

	store := repositories.NewLedgerStore(uow, repositories.WithTimeout(cfg.Ledger.StoreTimeout))

	var (
		txCache   transaction.Cache
		publisher services.EventPublisher
	)
	if cfg.Redis.Enabled {
		client := cache.NewRedisClient(&cache.RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := cache.Ping(context.Background(), client); err != nil {
			log.Warn("redis unavailable at startup", zap.Error(err))
		}
		cacheService := cache.NewCacheService(client, cfg.Redis.TransactionTTL)
		defer func() {
			if err := cacheService.Close(); err != nil {
				log.Warn("failed to close redis connection", zap.Error(err))
			}
		}()
		txCache = cacheService
		publisher = cache.NewEventPublisher(client, cfg.Redis.EventsChannel, models.SystemClock{})
		checks["redis"] = cacheService.HealthCheck
	}

	engine := wallet.NewService(store, models.SystemClock{}, models.UUIDGenerator{}, nil, log)
	walletService := services.NewWalletService(
		engine,
		transaction.NewService(store, txCache, log),
		publisher,
		log,
	)

	app := fiber.New(fiber.Config{DisableStartupMessage: config.IsProduction()})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.GetEnv("CORS_ORIGINS", "http://localhost:5173"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		WalletService: walletService,
		Auth:          middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, log),
		Health:        handlers.NewHealthHandler(checks),
	})

	go func() {
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
		}
	}()
	log.Info("wallet ledger listening", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Ledger.Store))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func logPoolStats(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		stats := sqlDB.Stats()
		log.Debug("db pool stats",
			zap.Int("open", stats.OpenConnections),
			zap.Int("idle", stats.Idle),
			zap.Int("in_use", stats.InUse),
			zap.Int64("wait_count", stats.WaitCount),
			zap.Duration("wait_duration", stats.WaitDuration),
		)
	}
}
