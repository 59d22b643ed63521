package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/souqkw/marketplace/config"
	"github.com/souqkw/marketplace/internal/handler"
	"github.com/souqkw/marketplace/internal/middleware"
	"github.com/souqkw/marketplace/internal/repository"
	"github.com/souqkw/marketplace/internal/router"
	"github.com/souqkw/marketplace/internal/service"
	"github.com/souqkw/marketplace/pkg/cache"
	"github.com/souqkw/marketplace/pkg/database"
	"github.com/souqkw/marketplace/pkg/logger"
	"github.com/souqkw/marketplace/pkg/redis"
	"github.com/souqkw/marketplace/pkg/store"
	"github.com/souqkw/marketplace/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
	)

	if err := validation.RegisterBindings(); err != nil {
		logger.GetLogger().Fatal("Failed to register binding validations", zap.Error(err))
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:            config.Database.Host,
		Port:            config.Database.Port,
		User:            config.Database.User,
		Password:        config.Database.Password,
		Database:        config.Database.Name,
		SSLMode:         config.Database.SSLMode,
		MaxIdleConns:    config.Database.MaxIdleConns,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: int(config.Database.ConnMaxLifetime.Minutes()),
		ConnMaxIdleTime: int(config.Database.ConnMaxIdleTime.Minutes()),
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db); err != nil {
		// Seed data may already exist; keep starting.
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	} else {
		logger.GetLogger().Info("Database seeded successfully")
	}

	// Ephemeral TTL store: redis in production, in-process cache when
	// redis is disabled or unreachable.
	var kv store.KV
	if config.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:         config.Redis.Host,
			Port:         config.Redis.Port,
			Password:     config.Redis.Password,
			DB:           config.Redis.Database,
			PoolSize:     config.Redis.PoolSize,
			MinIdleConns: config.Redis.MinIdleConns,
			DialTimeout:  config.Redis.DialTimeout,
			ReadTimeout:  config.Redis.ReadTimeout,
			WriteTimeout: config.Redis.WriteTimeout,
			PoolTimeout:  config.Redis.PoolTimeout,
		})
		if err != nil {
			logger.GetLogger().Warn("Redis unavailable, falling back to in-memory store", zap.Error(err))
			kv = cache.NewCache()
		} else {
			defer redisClient.Close()
			kv = redisClient
		}
	} else {
		logger.GetLogger().Info("Redis disabled, using in-memory store")
		kv = cache.NewCache()
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	socialRepo := repository.NewSocialAccountRepository(db)
	planRepo := repository.NewPlanRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	adRepo := repository.NewAdRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)

	// Services
	jwtService := service.NewJWTService(config.JWT.Secret, config.JWT.ExpirationTime)
	otpService := service.NewOtpService(kv, config.Otp.TTL)
	authService := service.NewAuthService(userRepo, socialRepo, otpService, jwtService, kv, config.Otp.PendingTTL)
	subService := service.NewSubscriptionService(planRepo, subRepo, adRepo, config.FreeTier.AdLimit)
	listingService := service.NewListingService(adRepo, catalogRepo, subService)
	catalogService := service.NewCatalogService(catalogRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	subscriptionHandler := handler.NewSubscriptionHandler(subService)
	listingHandler := handler.NewListingHandler(listingService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	healthHandler := handler.NewHealthHandler(db, kv)

	jwtMiddleware := middleware.NewJWTMiddleware(jwtService, userRepo)

	engine := router.NewRouter(
		authHandler,
		subscriptionHandler,
		listingHandler,
		catalogHandler,
		healthHandler,
		jwtMiddleware,
		kv,
		config,
	).SetupRoutes()

	srv := &http.Server{
		Addr:         ":" + config.App.Port,
		Handler:      engine,
		ReadTimeout:  config.App.Timeout,
		WriteTimeout: config.App.Timeout,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.GetLogger().Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Forced shutdown", zap.Error(err))
	}

	logger.GetLogger().Info("Server exited")
}
