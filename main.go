package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/kithly/kithly-backend/config"
	"github.com/kithly/kithly-backend/controllers"
	"github.com/kithly/kithly-backend/database"
	applogger "github.com/kithly/kithly-backend/logger"
	awspkg "github.com/kithly/kithly-backend/pkg/aws"
	"github.com/kithly/kithly-backend/repository"
	"github.com/kithly/kithly-backend/routes"
	"github.com/kithly/kithly-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	logger, err := applogger.New()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("Config load failed", zap.Error(err))
	}

	if err := database.Connect(cfg, logger); err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}

	// Redis backs the checkout idempotency window.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	// AWS clients (non-fatal: SNS/SQS/S3 degrade to disabled)
	var awsCfgPtr *sdkaws.Config
	var snsPublisher awspkg.SNSPublisher
	if awsCfg, err := awspkg.LoadConfig(context.Background()); err != nil {
		logger.Warn("AWS config load failed, events and uploads disabled", zap.Error(err))
	} else {
		awsCfgPtr = &awsCfg
		snsPublisher = awspkg.NewSNSClient(awsCfg, logger)
	}

	// Repositories
	shopRepo := repository.NewGormShopRepository(database.DB)
	productRepo := repository.NewGormProductRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	tokenRepo := repository.NewGormTokenRepository(database.DB)

	// Services
	idempotency := services.NewRedisIdempotencyStore(redisClient, time.Duration(cfg.IdempotencyTTLHours)*time.Hour)
	checkoutService := services.NewCheckoutService(shopRepo, productRepo, orderRepo, idempotency, snsPublisher, cfg.SNSTopicArn, cfg.PublicBaseURL, logger)
	redemptionService := services.NewRedemptionService(tokenRepo, orderRepo, snsPublisher, cfg.SNSTopicArn, logger)
	giftService := services.NewGiftService(tokenRepo, orderRepo, shopRepo, logger)
	shopService := services.NewShopService(shopRepo, orderRepo, logger)
	productService := services.NewProductService(productRepo, shopService, awsCfgPtr, cfg.S3Bucket, logger)
	orderQueryService := services.NewOrderQueryService(orderRepo, tokenRepo, logger)

	// Controllers
	validator := controllers.NewRequestValidator()
	checkoutController := controllers.NewCheckoutController(checkoutService, validator)
	redemptionController := controllers.NewRedemptionController(redemptionService, giftService, shopService)
	orderController := controllers.NewOrderController(orderQueryService)
	shopController := controllers.NewShopController(shopService)
	productController := controllers.NewProductController(productService, shopService)

	// Router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	// Request logging
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	})

	// Request timeout
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.Register(r, []byte(cfg.JWTSecret), checkoutController, redemptionController, orderController, shopController, productController)

	// SMS dispatcher worker
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	if awsCfgPtr != nil && cfg.SMSQueueURL != "" {
		dispatcher := services.NewSMSDispatcher(
			awspkg.NewSQSConsumer(*awsCfgPtr, cfg.SMSQueueURL, logger),
			&services.LogSMSSender{Logger: logger},
			logger,
		)
		go dispatcher.Start(consumerCtx)
	} else {
		logger.Warn("SMS queue not configured, dispatcher disabled")
	}

	// HTTP server
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Info("KithLy backend started", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Initiating graceful shutdown...")
	consumerCancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	if err := redisClient.Close(); err != nil {
		logger.Error("Redis close error", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		logger.Error("Database close error", zap.Error(err))
	}

	logger.Info("KithLy backend stopped gracefully")
}
