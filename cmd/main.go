package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configs "github.com/Payphone-Digital/review-platform/config"
	"github.com/Payphone-Digital/review-platform/internal/constants"
	"github.com/Payphone-Digital/review-platform/internal/handler"
	"github.com/Payphone-Digital/review-platform/internal/middleware"
	"github.com/Payphone-Digital/review-platform/internal/repository"
	"github.com/Payphone-Digital/review-platform/internal/router"
	"github.com/Payphone-Digital/review-platform/internal/service"
	"github.com/Payphone-Digital/review-platform/pkg/circuit"
	"github.com/Payphone-Digital/review-platform/pkg/database"
	"github.com/Payphone-Digital/review-platform/pkg/logger"
	"github.com/Payphone-Digital/review-platform/pkg/password"
	"github.com/Payphone-Digital/review-platform/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	if config.App.Environment == constants.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgresDB(config)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	if err := database.Seed(db, config); err != nil {
		logger.GetLogger().Error("Failed to seed database", zap.Error(err))
	}

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	// The review cache is optional; interfaces stay nil without redis.
	var cacheStore service.CacheStore
	var redisPinger handler.Pinger
	if config.Redis.Enabled {
		redisClient, err := redis.NewClient(config)
		if err != nil {
			logger.GetLogger().Warn("Redis unavailable, review cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheStore = redisClient
			redisPinger = redisClient
		}
	}
	logger.GetLogger().Info("Review cache initialized",
		zap.Bool("enabled", cacheStore != nil),
		zap.Duration("ttl", config.Cache.ReviewTTL),
	)

	// Services
	tokenService := service.NewTokenService(config.JWT.Secret)
	hasher := password.NewHasher(config.Security.BcryptCost)
	cacheService := service.NewCacheService(cacheStore, config.Cache.ReviewTTL).
		WithBreaker(circuit.NewBreaker("review-cache", circuit.Config{
			Threshold: config.Cache.BreakerThreshold,
			Cooldown:  config.Cache.BreakerCooldown,
		}, logger.GetLogger()))

	authService := service.NewAuthService(userRepo, txManager, tokenService, hasher, config.JWT)
	userService := service.NewUserService(userRepo)
	productService := service.NewProductService(productRepo, cacheService)
	ratingService := service.NewRatingService(txManager, userRepo, productRepo, ratingRepo, cacheService)
	feedbackService := service.NewFeedbackService(feedbackRepo, productRepo, ratingRepo, cacheService)
	reviewService := service.NewReviewService(reviewRepo, cacheService)

	jwtMiddleware := middleware.NewJWTMiddleware(authService)

	r := router.NewRouter(router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(userService),
		Product:  handler.NewProductHandler(productService),
		Rating:   handler.NewRatingHandler(ratingService),
		Feedback: handler.NewFeedbackHandler(feedbackService),
		Review:   handler.NewReviewHandler(reviewService),
		Health:   handler.NewHealthHandler(db, redisPinger, cacheService),
		Cache:    handler.NewCacheHandler(cacheService),
	}, jwtMiddleware, config).SetupRoutes()

	server := &http.Server{
		Addr:              ":" + config.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
			zap.String("host", "0.0.0.0"),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Server forced to shutdown", zap.Error(err))
	}
}
