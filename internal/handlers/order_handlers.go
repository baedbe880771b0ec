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

// OrderHandler exposes order placement, lookup and status management.
type OrderHandler struct {
	orderService services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService) *OrderHandler {
	return &OrderHandler{orderService: os}
}

// CreateOrder handles order placement from the storefront. Prices and the
// grand total are re-verified against the live catalog before anything is
// written.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.CreateOrder(req)
	if err != nil {
		utils.LogError(err, "CreateOrder: Error from orderService.CreateOrder")
		if errors.Is(err, services.ErrProductNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "One or more products are not available.", err.Error()))
		} else if errors.Is(err, services.ErrPriceChanged) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Product prices have changed, please refresh your cart.", err.Error()))
		} else if errors.Is(err, services.ErrTotalMismatch) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Order total does not match the item prices.", err.Error()))
		} else if errors.Is(err, services.ErrBranchNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Selected branch is not available.", err.Error()))
		} else if errors.Is(err, services.ErrPaymentMethodNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Selected payment method is not available.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order, "message": "Order created successfully"})
}

// GetOrders handles fetching orders with filters and pagination.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid query parameters: "+err.Error(), err.Error()))
		return
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	if filters.Status != nil && !models.IsValidOrderStatus(*filters.Status) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown order status filter.", *filters.Status))
		return
	}

	orders, totalCount, err := h.orderService.GetOrders(filters)
	if err != nil {
		utils.LogError(err, "GetOrders: Error from orderService.GetOrders")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch orders.", "Internal error"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"page":  filters.Page,
			"limit": filters.PageSize,
			"total": totalCount,
		},
	})
}

// GetOrderByID handles fetching a single order with its items.
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order ID format.", err.Error()))
		return
	}

	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
		} else {
			utils.LogError(err, "GetOrderByID: Error from orderService.GetOrderByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// GetOrderByCode handles customer-facing order lookup by public code.
func (h *OrderHandler) GetOrderByCode(c *gin.Context) {
	orderCode := c.Param("orderCode")
	if orderCode == "" {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Order code is required.", ""))
		return
	}

	order, err := h.orderService.GetOrderByCode(orderCode)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
		} else {
			utils.LogError(err, "GetOrderByCode: Error from orderService.GetOrderByCode")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch order.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// UpdateOrderStatus handles moving an order to any known status. There is
// no transition graph; staff may move orders back and forth freely.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order ID format.", err.Error()))
		return
	}

	var req services.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	order, err := h.orderService.UpdateOrderStatus(orderID, req)
	if err != nil {
		utils.LogError(err, "UpdateOrderStatus: Error from orderService.UpdateOrderStatus")
		if errors.Is(err, services.ErrInvalidOrderStatus) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown order status.", err.Error()))
		} else if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update order status.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": order, "message": "Order status updated successfully"})
}
