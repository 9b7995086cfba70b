package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"carbonledger/internal/adapters/http/middleware"
	"carbonledger/internal/adapters/http/routes"
	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/adapters/persistence/repositories"
	"carbonledger/internal/config"
	"carbonledger/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "carbonledger/docs" // Swagger docs
)

// @title CarbonLedger API
// @version 1.0
// @description Multi-tenant sustainability reporting and carbon accounting API

// @contact.name API Support
// @contact.email support@carbonledger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.carbonledger.io
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed default accounts (dev only)
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed database: %v", err)
		}
	}

	// Start maintenance scheduler (token cleanup + index repair)
	userRepo := repositories.NewUserRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	maintenanceService := services.NewMaintenanceService(
		refreshTokenRepo,
		services.NewReportService(reportRepo, userRepo),
	)
	maintenanceService.Start()
	defer maintenanceService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "CarbonLedger API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
