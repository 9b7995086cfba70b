package routes

import (
	"carbonledger/internal/adapters/http/handlers"
	"carbonledger/internal/adapters/http/middleware"
	"carbonledger/internal/adapters/persistence/models"
	"carbonledger/internal/adapters/persistence/repositories"
	"carbonledger/internal/config"
	"carbonledger/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	billRepo := repositories.NewBillRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	reportService := services.NewReportService(reportRepo, userRepo)
	billService := services.NewBillService(billRepo, userRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	reportHandler := handlers.NewReportHandler(reportService)
	categoryHandler := handlers.NewCategoryHandler(reportService)
	emissionHandler := handlers.NewEmissionHandler(reportService)
	billHandler := handlers.NewBillHandler(billService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	setupAPIV1Routes(apiV1, healthHandler, authHandler, reportHandler,
		categoryHandler, emissionHandler, billHandler, cfg)
}

// setupAPIV1Routes configures API v1 routes
func setupAPIV1Routes(
	router fiber.Router,
	healthHandler *handlers.HealthHandler,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	categoryHandler *handlers.CategoryHandler,
	emissionHandler *handlers.EmissionHandler,
	billHandler *handlers.BillHandler,
	cfg *config.Config,
) {
	// API Info
	router.Get("/", healthHandler.APIInfo)

	// Auth routes (public)
	authRoutes := router.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Report routes
	reportRoutes := router.Group("/reports")
	setupReportRoutes(reportRoutes, reportHandler, categoryHandler, emissionHandler, cfg)

	// Bill routes (Authenticated users)
	billRoutes := router.Group("/bills")
	billRoutes.Use(middleware.AuthMiddleware(cfg))
	setupBillRoutes(billRoutes, billHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupReportRoutes configures report lifecycle, category update and CO2e
// derivation routes. The per-category routes are registered from the category
// dispatch table rather than written out one by one.
func setupReportRoutes(
	router fiber.Router,
	reportHandler *handlers.ReportHandler,
	categoryHandler *handlers.CategoryHandler,
	emissionHandler *handlers.EmissionHandler,
	cfg *config.Config,
) {
	// Report lifecycle (FacAdmin/Admin only, except the feed)
	router.Post("/createNewReport",
		middleware.AuthMiddleware(cfg), middleware.FacAdminOrAdmin(), reportHandler.CreateNewReport)
	router.Post("/get",
		middleware.AuthMiddleware(cfg), reportHandler.GetUserReports)
	router.Get("/:reportId",
		middleware.AuthMiddleware(cfg), middleware.FacAdminOrAdmin(), reportHandler.GetReport)
	router.Delete("/:reportId/delete",
		middleware.AuthMiddleware(cfg), middleware.FacAdminOrAdmin(), reportHandler.DeleteReport)

	// Current tab bookmark
	router.Get("/:reportId/tab/get", middleware.AuthMiddleware(cfg), reportHandler.GetCurrentTab)
	router.Patch("/:reportId/tab/change", middleware.AuthMiddleware(cfg), reportHandler.ChangeCurrentTab)

	for _, cat := range models.Categories() {
		// Category updates need FacAdmin/Admin, except refrigerants which any
		// authenticated user may record.
		if cat.Key == models.CategoryRefrigerants {
			router.Patch("/:reportId/"+cat.Slug+"/put",
				middleware.AuthMiddleware(cfg), categoryHandler.Update(cat.Key))
		} else {
			router.Patch("/:reportId/"+cat.Slug+"/put",
				middleware.AuthMiddleware(cfg), middleware.FacAdminOrAdmin(), categoryHandler.Update(cat.Key))
		}

		router.Get("/:reportId/"+cat.Slug+"/get",
			middleware.AuthMiddleware(cfg), categoryHandler.Get(cat.Key))

		// CO2e derivation routes carry no auth; they expose derived figures
		// for dashboard embedding.
		router.Get("/:reportId/"+cat.CO2eRoute, emissionHandler.Compute(cat.Key))
	}
}

// setupBillRoutes configures bill routes
func setupBillRoutes(router fiber.Router, handler *handlers.BillHandler) {
	router.Post("/", handler.CreateBills)
	router.Get("/", handler.GetUserBills)
	router.Post("/company", middleware.FacAdminOrAdmin(), handler.GetCompanyBills)
	router.Patch("/:billId/put", handler.UpdateBill)
}
