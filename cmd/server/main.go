package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ktakagi/sensho-backend/config"
	"github.com/ktakagi/sensho-backend/internal/app/controller"
	"github.com/ktakagi/sensho-backend/internal/app/repository"
	"github.com/ktakagi/sensho-backend/internal/app/service"
	"github.com/ktakagi/sensho-backend/internal/db"
	"github.com/ktakagi/sensho-backend/internal/middleware"
	"github.com/ktakagi/sensho-backend/internal/router"
	"github.com/ktakagi/sensho-backend/pkg/catalog"
	"github.com/ktakagi/sensho-backend/pkg/logger"
	"github.com/ktakagi/sensho-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		Service:     "sensho-api",
		EnableColor: true,
	})

	logger.Info("Starting SENSHO Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Bootstrap the initial admin account
	if err := db.EnsureAdmin(cfg.Admin.Username, cfg.Admin.Password); err != nil {
		logger.Fatal("Failed to ensure admin account", err)
	}

	// Token revocation list (optional)
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer redis.Close()
	}

	// External catalog client
	catalogClient, err := catalog.NewClient(catalog.Config{
		BaseURL:    cfg.Catalog.BaseURL,
		Country:    cfg.Catalog.Country,
		Timeout:    cfg.Catalog.Timeout,
		MaxResults: cfg.Catalog.MaxResults,
	})
	if err != nil {
		logger.Fatal("Failed to create catalog client", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	adminRepo := repository.NewAdminRepository(db.GetDB())
	customerRepo := repository.NewCustomerRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	bookCacheRepo := repository.NewBookCacheRepository(db.GetDB())
	listRepo := repository.NewSelectionListRepository(db.GetDB())
	wishlistRepo := repository.NewWishlistRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.UserTokenExpiry)
	adminService := service.NewAdminService(adminRepo, orderRepo, customerRepo, cfg.JWT.Secret, cfg.JWT.AdminTokenExpiry)
	bookService := service.NewBookService(bookCacheRepo, catalogClient)
	orderService := service.NewOrderService(orderRepo, customerRepo, db.GetDB())
	listService := service.NewSelectionListService(listRepo, userRepo, db.GetDB())
	wishlistService := service.NewWishlistService(wishlistRepo, customerRepo)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	bookController := controller.NewBookController(bookService)
	orderController := controller.NewOrderController(orderService)
	listController := controller.NewSelectionListController(listService, cfg.Export.PDFFontPath)
	wishlistController := controller.NewWishlistController(wishlistService)
	adminController := controller.NewAdminController(adminService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		bookController,
		orderController,
		listController,
		wishlistController,
		adminController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
