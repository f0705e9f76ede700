package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/cache"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/config"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/database"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/handler"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/metrics"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/middleware"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/repository"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/service"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/session"
	"github.com/Abhishek-Singh-2008/E-Commerce-Website/internal/worker"
)

// main is the application entrypoint for the cookware storefront API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("backend", cfg.StoreBackend).Msg("starting storefront api")

	// 3. Connect storage per configured backend
	var store repository.Store
	var redisClient *cache.RedisClient

	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := database.Connect(&cfg.DB)
		if err != nil {
			log.Error().Err(err).Msg("database connection failed")
			fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := runMigrations(db.DB); err != nil {
			log.Error().Err(err).Msg("migration failed")
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		log.Info().Msg("migrations completed successfully")
		store = repository.NewPostgresStore(db)

	case config.BackendRedis:
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Error().Err(err).Msg("redis connection failed")
			fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		log.Info().Msg("redis connected successfully")
		store = repository.NewRedisStore(redisClient)

	default:
		log.Warn().Msg("using in-memory store; data will not survive a restart")
		store = repository.NewMemoryStore()
	}

	// 3a. Connect Redis for sessions when available (even on the postgres backend)
	if redisClient == nil && cfg.Redis.Host != "" {
		redisClient, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable - falling back to in-memory sessions")
		} else {
			defer redisClient.Close()
		}
	}

	// 4. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 5. Initialize sessions
	var sessions session.Store
	if redisClient != nil {
		sessions = session.NewRedisStore(redisClient)
	} else {
		memSessions := session.NewMemoryStore()
		sessions = memSessions
		go worker.NewSessionSweepWorker(memSessions, cfg.SessionSweepInterval).Start(ctx)
	}

	// 6. Initialize metrics and services
	registry := metrics.NewRegistry()
	authSvc := service.NewAuthService(sessions, registry, cfg)
	catalogSvc := service.NewCatalogService(store)
	orderSvc := service.NewOrderService(store, store, registry)

	// 6a. Seed default products into an empty catalog
	if err := catalogSvc.EnsureSeed(ctx); err != nil {
		log.Error().Err(err).Msg("catalog seed failed")
		fmt.Fprintf(os.Stderr, "catalog seed failed: %v\n", err)
		os.Exit(1)
	}

	// 7. Initialize handlers
	handlers := &Handlers{
		Health:  handler.NewHealthHandler(cfg.StoreBackend),
		Auth:    handler.NewAuthHandler(authSvc),
		Catalog: handler.NewCatalogHandler(catalogSvc),
		Order:   handler.NewOrderHandler(orderSvc),
	}

	// 8. Initialize middleware
	adminMw := middleware.NewAdminMiddleware(authSvc)

	// 9. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, adminMw, registry)

	// 10. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 11. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 12. Cancel context to stop workers
	cancel()

	// 13. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Catalog *handler.CatalogHandler
	Order   *handler.OrderHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, adminMiddleware *middleware.AdminMiddleware, registry *metrics.Registry) {
	router.GET("/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(registry.Handler()))

	// Public storefront
	router.GET("/products", handlers.Catalog.ListProducts)
	router.GET("/products/:id", handlers.Catalog.GetProduct)
	router.POST("/order/create", handlers.Order.CreateOrder)
	router.POST("/track-order", handlers.Order.TrackOrders)

	// Admin
	admin := router.Group("/admin")
	admin.POST("/login", handlers.Auth.Login)
	admin.POST("/logout", handlers.Auth.Logout)
	admin.GET("/session-check", handlers.Auth.SessionCheck)
	admin.Use(adminMiddleware.Handle())
	{
		admin.POST("/products/update", handlers.Catalog.UpdateProducts)
		admin.DELETE("/products/:id", handlers.Catalog.DeleteProduct)

		admin.GET("/orders", handlers.Order.ListOrders)
		admin.GET("/orders/:id", handlers.Order.GetOrder)
		admin.POST("/orders/:id/update", handlers.Order.UpdateOrder)
		admin.DELETE("/orders/:id", handlers.Order.DeleteOrder)
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	// Run migrations
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
