package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	syncapp "github.com/erp/shopsync/internal/application/sync"
	"github.com/erp/shopsync/internal/infrastructure/config"
	"github.com/erp/shopsync/internal/infrastructure/jobs"
	"github.com/erp/shopsync/internal/infrastructure/logger"
	"github.com/erp/shopsync/internal/infrastructure/persistence"
	"github.com/erp/shopsync/internal/infrastructure/progress"
	"github.com/erp/shopsync/internal/infrastructure/shopify"
	"github.com/erp/shopsync/internal/interfaces/http/handler"
	"github.com/erp/shopsync/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting Shopsync",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.Bool("shopify_enabled", cfg.Shopify.Enabled),
		zap.Bool("bulk_import", cfg.Shopify.EnableBulkImport),
	)

	// Initialize database connection
	db, err := persistence.NewDatabase(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize Redis for progress events and job locking
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		cancelPing()
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cancelPing()
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	log.Info("Redis connected successfully")

	// Initialize Shopify API client
	shop, err := shopify.NewClient(&shopify.Config{
		ShopDomain:     cfg.Shopify.ShopDomain,
		AccessToken:    cfg.Shopify.AccessToken,
		APIVersion:     cfg.Shopify.APIVersion,
		TimeoutSeconds: cfg.Shopify.TimeoutSeconds,
		PageSize:       cfg.Shopify.PageSize,
		Enabled:        cfg.Shopify.Enabled,
	})
	if err != nil {
		log.Fatal("Failed to initialize Shopify client", zap.Error(err))
	}

	// Initialize repositories
	itemRepo := persistence.NewGormItemRepository(db.DB)
	linkRepo := persistence.NewGormEcommerceItemRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)
	checker := persistence.NewShopifySyncChecker(linkRepo)

	// Initialize application services
	publisher := progress.NewRedisPublisher(redisClient, log)
	syncer := syncapp.NewProductSyncService(shop, itemRepo, linkRepo, log)
	bulkImport := syncapp.NewBulkImportService(shop, syncer, publisher, log, syncapp.BulkImportConfig{
		PollInterval: cfg.Shopify.PollInterval,
		MaxRetries:   cfg.Shopify.MaxPollRetries,
	})
	syncLoop := syncapp.NewProductSyncLoop(shop, checker, syncer, uow, publisher, log)
	catalogService := syncapp.NewCatalogService(shop, shop, checker, syncer, uow, itemRepo, log)

	// Initialize background job runner with a Redis single-flight lock
	runner := jobs.NewRunner(jobs.NewRedisLocker(redisClient), log, jobs.DefaultRunnerConfig())

	// Initialize HTTP handlers
	shopifyHandler := handler.NewShopifyHandler(
		catalogService,
		bulkImport,
		syncLoop,
		runner,
		cfg.Shopify.Enabled,
		cfg.Shopify.EnableBulkImport,
		log,
	)
	systemHandler := handler.NewSystemHandler(db)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(logger.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	// Setup routes
	router.NewRouter(engine).
		Register(shopifyHandler).
		Register(systemHandler).
		Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Running imports keep going until their own timeout; give them the
	// shutdown window to finish before the process exits.
	done := make(chan struct{})
	go func() {
		runner.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn("Background jobs still running at shutdown")
	}

	log.Info("Server exited gracefully")
}
