package router

import (
	"database/sql"
	"net/http"

	"bakery_backend/internal/handlers"
	"bakery_backend/internal/repositories"
	"bakery_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers onto the engine.
// uploadDir is where product images are stored and served from.
func Setup(engine *gin.Engine, db *sql.DB, uploadDir string) {
	// Repositories
	productRepo := repositories.NewProductRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	branchRepo := repositories.NewBranchRepository(db)
	paymentMethodRepo := repositories.NewPaymentMethodRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	adminRepo := repositories.NewAdminRepository(db)

	// Services
	catalogService := services.NewCatalogService(productRepo, categoryRepo, db)
	branchService := services.NewBranchService(branchRepo, orderRepo, db)
	paymentMethodService := services.NewPaymentMethodService(paymentMethodRepo, orderRepo, db)
	orderService := services.NewOrderService(orderRepo, productRepo, branchRepo, paymentMethodRepo, customerRepo, db)
	adminService := services.NewAdminService(adminRepo, db)
	statsService := services.NewStatsService(productRepo, categoryRepo, branchRepo, orderRepo)

	// Handlers
	productHandler := handlers.NewProductHandler(catalogService)
	categoryHandler := handlers.NewCategoryHandler(catalogService)
	branchHandler := handlers.NewBranchHandler(branchService)
	paymentMethodHandler := handlers.NewPaymentMethodHandler(paymentMethodService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(adminService, statsService)
	uploadHandler := handlers.NewUploadHandler(uploadDir)

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.Static("/uploads", uploadDir)

	apiV1 := engine.Group("/api/v1")

	SetupStorefrontRoutes(apiV1, productHandler, categoryHandler, branchHandler, paymentMethodHandler, orderHandler)
	SetupAdminRoutes(apiV1, productHandler, categoryHandler, branchHandler, paymentMethodHandler, orderHandler, adminHandler, uploadHandler)
}
