package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bakery_backend/internal/models"
	"bakery_backend/internal/services"
	"bakery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ProductHandler exposes storefront and admin product endpoints.
type ProductHandler struct {
	catalogService services.CatalogService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(cs services.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: cs}
}

// GetProducts handles fetching available products with filters and pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	products, totalCount, err := h.catalogService.GetProducts(filters)
	if err != nil {
		utils.LogError(err, "GetProducts: Error from catalogService.GetProducts")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch products.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"pagination": gin.H{
			"page":  maxInt(filters.Page, 1),
			"limit": filters.PageSize,
			"total": totalCount,
		},
	})
}

// GetProductsAdmin also returns unavailable products.
func (h *ProductHandler) GetProductsAdmin(c *gin.Context) {
	var filters models.ProductFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}

	products, totalCount, err := h.catalogService.GetProductsAdmin(filters)
	if err != nil {
		utils.LogError(err, "GetProductsAdmin: Error from catalogService.GetProductsAdmin")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch products.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
		"pagination": gin.H{
			"page":  maxInt(filters.Page, 1),
			"limit": filters.PageSize,
			"total": totalCount,
		},
	})
}

// GetProductByID handles fetching a single available product.
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	product, err := h.catalogService.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else {
			utils.LogError(err, "GetProductByID: Error from catalogService.GetProductByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product})
}

// CreateProduct handles the creation of a new product.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.CreateProduct(req)
	if err != nil {
		utils.LogError(err, "CreateProduct: Error from catalogService.CreateProduct")
		if errors.Is(err, services.ErrInvalidCategoryRef) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced category does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": product, "message": "Product created successfully"})
}

// UpdateProduct handles a partial update of a product.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	var upd models.ProductUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	product, err := h.catalogService.UpdateProduct(productID, upd)
	if err != nil {
		utils.LogError(err, "UpdateProduct: Error from catalogService.UpdateProduct")
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidCategoryRef) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Referenced category does not exist.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": product, "message": "Product updated successfully"})
}

// DeleteProduct handles soft-deleting a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid product ID format.", err.Error()))
		return
	}

	if err := h.catalogService.DeleteProduct(productID); err != nil {
		utils.LogError(err, "DeleteProduct: Error from catalogService.DeleteProduct")
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Product not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete product.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted successfully"})
}

// CategoryHandler exposes storefront and admin category endpoints.
type CategoryHandler struct {
	catalogService services.CatalogService
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(cs services.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalogService: cs}
}

// GetCategories handles fetching active categories. Pass ?with_counts=true
// to include the number of available products per category.
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	var (
		categories []models.Category
		err        error
	)
	if c.Query("with_counts") == "true" {
		categories, err = h.catalogService.GetCategoriesWithProductCount()
	} else {
		categories, err = h.catalogService.GetCategories()
	}
	if err != nil {
		utils.LogError(err, "GetCategories: Error from catalogService")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch categories.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": categories})
}

// GetCategoryByID handles fetching a single active category.
func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", err.Error()))
		return
	}

	category, err := h.catalogService.GetCategoryByID(categoryID)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else {
			utils.LogError(err, "GetCategoryByID: Error from catalogService.GetCategoryByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category})
}

// CreateCategory handles the creation of a new category.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req services.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	category, err := h.catalogService.CreateCategory(req)
	if err != nil {
		utils.LogError(err, "CreateCategory: Error from catalogService.CreateCategory")
		if errors.Is(err, services.ErrCategoryNameExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": category, "message": "Category created successfully"})
}

// UpdateCategory handles a partial update of a category.
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", err.Error()))
		return
	}

	var upd models.CategoryUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	category, err := h.catalogService.UpdateCategory(categoryID, upd)
	if err != nil {
		utils.LogError(err, "UpdateCategory: Error from catalogService.UpdateCategory")
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else if errors.Is(err, services.ErrCategoryNameExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": category, "message": "Category updated successfully"})
}

// DeleteCategory handles soft-deleting a category.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	categoryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid category ID format.", err.Error()))
		return
	}

	if err := h.catalogService.DeleteCategory(categoryID); err != nil {
		utils.LogError(err, "DeleteCategory: Error from catalogService.DeleteCategory")
		if errors.Is(err, services.ErrCategoryNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Category not found.", err.Error()))
		} else if errors.Is(err, services.ErrCategoryHasProducts) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Category still has available products.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete category.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted successfully"})
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
