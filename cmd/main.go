package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"storefront-admin-service/internal/clients"
	"storefront-admin-service/internal/config"
	"storefront-admin-service/internal/events"
	"storefront-admin-service/internal/handlers"
	"storefront-admin-service/internal/middleware"
	"storefront-admin-service/internal/previews"
	"storefront-admin-service/internal/repository"
	"storefront-admin-service/internal/services"
	"storefront-admin-service/internal/uploads"

	gosharedmw "github.com/Tesseract-Nexus/go-shared/middleware"
	"github.com/Tesseract-Nexus/go-shared/secrets"
	"github.com/Tesseract-Nexus/go-shared/tracing"
)

// @title Storefront Admin API
// @version 1.0.0
// @description Admin backend for the storefront dashboard: banners, events, products, settings and notifications

// @contact.name Storefront Admin API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8090
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the dashboard session token.

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.IsProduction() {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	// Draft store: Redis when reachable, in-process otherwise
	var drafts repository.DraftStore
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("WARNING: Failed to parse Redis URL: %v (using localhost)", err)
		redisOpts = &redis.Options{
			Addr: "localhost:6379",
		}
	}
	redisOpts.Password = secrets.GetRedisPassword()
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("WARNING: Failed to connect to Redis: %v (drafts kept in memory, single replica only)", err)
		_ = redisClient.Close()
		drafts = repository.NewMemoryDraftStore(cfg.DraftTTL, cfg.SubmitLockTTL)
	} else {
		log.Println("✓ Redis connected successfully")
		drafts = repository.NewRedisDraftStore(redisClient, cfg.DraftTTL, cfg.SubmitLockTTL, logger)
		defer redisClient.Close()
	}
	cancel()

	// Initialize event publisher for audit trail only if NATS_URL is set
	var audit services.AuditPublisher
	if cfg.NATSURL != "" {
		eventsPublisher, err := events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			log.Printf("WARNING: Failed to initialize events publisher: %v (continuing without event publishing)", err)
		} else {
			log.Println("✓ Events publisher initialized (NATS connected)")
			audit = eventsPublisher
			defer eventsPublisher.Close()
		}
	} else {
		log.Println("NATS_URL not set, skipping event publishing initialization")
	}

	// Initialize storefront backend client and services
	storefront := clients.NewStorefrontClient(cfg.StorefrontAPIURL, cfg.StorefrontAPITimeout, logger)
	intake := uploads.NewIntake(cfg.MaxUploadBytes)

	bannerService := services.NewBannerService(storefront, drafts, audit, logger)
	eventService := services.NewEventService(storefront, drafts, cfg.EventsCacheTTL, audit, logger)
	productService := services.NewProductService(storefront, drafts, audit, logger)
	settingsService := services.NewSettingsService(storefront, audit, logger)
	notificationService := services.NewNotificationService(storefront)

	healthHandler := handlers.NewHealthHandler(drafts)
	bannerHandler := handlers.NewBannerHandler(bannerService, intake, logger)
	eventHandler := handlers.NewEventHandler(eventService, intake, logger)
	productHandler := handlers.NewProductHandler(productService, intake, logger)
	settingsHandler := handlers.NewSettingsHandler(settingsService, intake, logger)
	notificationHandler := handlers.NewNotificationHandler(notificationService, logger)
	previewHandler := handlers.NewPreviewHandler(previews.NewGenerator(cfg.PreviewMaxDimension, logger), intake, logger)

	// Initialize OpenTelemetry tracing
	var tracerProvider *tracing.TracerProvider
	if cfg.IsProduction() {
		tracerProvider, err = tracing.InitTracer(tracing.ProductionConfig("storefront-admin-service"))
	} else {
		tracerProvider, err = tracing.InitTracer(tracing.DefaultConfig("storefront-admin-service"))
	}
	if err != nil {
		log.Printf("WARNING: Failed to initialize tracing: %v (continuing without tracing)", err)
	} else {
		log.Println("✓ OpenTelemetry tracing initialized")
	}

	// Initialize Prometheus metrics
	metrics := gosharedmw.InitGlobalMetrics("tesseract", "storefront_admin_service")
	log.Println("✓ Prometheus metrics initialized")

	// Initialize Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.MaxMultipartMemory = cfg.MaxUploadBytes
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	// Add observability middleware (metrics + tracing)
	router.Use(metrics.Middleware())
	router.Use(tracing.GinMiddleware("storefront-admin-service"))
	router.Use(gosharedmw.CompressionMiddleware())

	router.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check endpoints (no auth required)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/metrics", gosharedmw.Handler())

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.SessionAuth(cfg.JWTSecret, logger))

	bannerHandler.RegisterRoutes(api)
	eventHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	settingsHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
	previewHandler.RegisterRoutes(api)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Storefront admin service starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	log.Println("Shutting down storefront-admin-service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown tracer provider
	if tracerProvider != nil {
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		} else {
			log.Println("✓ Tracer provider shut down")
		}
	}

	log.Println("Storefront admin service stopped")
}
