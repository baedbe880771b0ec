package router

import (
	"bakery_backend/internal/handlers"
	"bakery_backend/internal/middleware"
	"bakery_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupStorefrontRoutes sets up the public routes used by the customer-facing
// storefront. No authentication is required.
func SetupStorefrontRoutes(
	apiGroup *gin.RouterGroup,
	productHandler *handlers.ProductHandler,
	categoryHandler *handlers.CategoryHandler,
	branchHandler *handlers.BranchHandler,
	paymentMethodHandler *handlers.PaymentMethodHandler,
	orderHandler *handlers.OrderHandler,
) {
	productRoutes := apiGroup.Group("/products")
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
	}

	categoryRoutes := apiGroup.Group("/categories")
	{
		categoryRoutes.GET("", categoryHandler.GetCategories)
		categoryRoutes.GET("/:id", categoryHandler.GetCategoryByID)
	}

	branchRoutes := apiGroup.Group("/branches")
	{
		branchRoutes.GET("", branchHandler.GetBranches)
		branchRoutes.GET("/:id", branchHandler.GetBranchByID)
	}

	apiGroup.GET("/payment-methods", paymentMethodHandler.GetPaymentMethods)

	orderRoutes := apiGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("/code/:orderCode", orderHandler.GetOrderByCode)
	}
}

// SetupAdminRoutes sets up the back-office routes. Everything except login
// requires a valid token; mutating routes additionally require the admin or
// manager role.
func SetupAdminRoutes(
	apiGroup *gin.RouterGroup,
	productHandler *handlers.ProductHandler,
	categoryHandler *handlers.CategoryHandler,
	branchHandler *handlers.BranchHandler,
	paymentMethodHandler *handlers.PaymentMethodHandler,
	orderHandler *handlers.OrderHandler,
	adminHandler *handlers.AdminHandler,
	uploadHandler *handlers.UploadHandler,
) {
	adminRoutes := apiGroup.Group("/admin")

	adminRoutes.POST("/login", adminHandler.Login)

	authenticated := adminRoutes.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		authenticated.GET("/me", adminHandler.GetProfile)

		staff := authenticated.Group("")
		staff.Use(middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager))
		{
			staff.GET("/products", productHandler.GetProductsAdmin)
			staff.POST("/products", productHandler.CreateProduct)
			staff.PUT("/products/:id", productHandler.UpdateProduct)
			staff.DELETE("/products/:id", productHandler.DeleteProduct)

			staff.POST("/categories", categoryHandler.CreateCategory)
			staff.PUT("/categories/:id", categoryHandler.UpdateCategory)
			staff.DELETE("/categories/:id", categoryHandler.DeleteCategory)

			staff.POST("/branches", branchHandler.CreateBranch)
			staff.PUT("/branches/:id", branchHandler.UpdateBranch)
			staff.DELETE("/branches/:id", branchHandler.DeleteBranch)

			staff.POST("/payment-methods", paymentMethodHandler.CreatePaymentMethod)
			staff.PUT("/payment-methods/:id", paymentMethodHandler.UpdatePaymentMethod)
			staff.DELETE("/payment-methods/:id", paymentMethodHandler.DeletePaymentMethod)

			staff.GET("/orders", orderHandler.GetOrders)
			staff.GET("/orders/:id", orderHandler.GetOrderByID)
			staff.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)

			staff.GET("/dashboard/stats", adminHandler.GetDashboardStats)
			staff.GET("/stats/orders", adminHandler.GetOrderStatistics)

			staff.POST("/upload/product-image", uploadHandler.UploadProductImage)
		}

		// Account management is restricted to full admins.
		adminOnly := authenticated.Group("")
		adminOnly.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		{
			adminOnly.GET("/users", adminHandler.GetAdminUsers)
			adminOnly.POST("/users", adminHandler.CreateAdminUser)
		}
	}
}
