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

// PaymentMethodHandler exposes payment-method endpoints.
type PaymentMethodHandler struct {
	paymentMethodService services.PaymentMethodService
}

// NewPaymentMethodHandler creates a new PaymentMethodHandler.
func NewPaymentMethodHandler(pms services.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{paymentMethodService: pms}
}

// GetPaymentMethods handles fetching all active payment methods.
func (h *PaymentMethodHandler) GetPaymentMethods(c *gin.Context) {
	methods, err := h.paymentMethodService.GetPaymentMethods()
	if err != nil {
		utils.LogError(err, "GetPaymentMethods: Error from paymentMethodService.GetPaymentMethods")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch payment methods.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": methods})
}

// CreatePaymentMethod handles the creation of a new payment method.
func (h *PaymentMethodHandler) CreatePaymentMethod(c *gin.Context) {
	var req services.CreatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	pm, err := h.paymentMethodService.CreatePaymentMethod(req)
	if err != nil {
		utils.LogError(err, "CreatePaymentMethod: Error from paymentMethodService.CreatePaymentMethod")
		if errors.Is(err, services.ErrPaymentMethodCodeExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Payment method code already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create payment method.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": pm, "message": "Payment method created successfully"})
}

// UpdatePaymentMethod handles a partial update of a payment method.
func (h *PaymentMethodHandler) UpdatePaymentMethod(c *gin.Context) {
	pmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid payment method ID format.", err.Error()))
		return
	}

	var upd models.PaymentMethodUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	pm, err := h.paymentMethodService.UpdatePaymentMethod(pmID, upd)
	if err != nil {
		utils.LogError(err, "UpdatePaymentMethod: Error from paymentMethodService.UpdatePaymentMethod")
		if errors.Is(err, services.ErrPaymentMethodNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment method not found.", err.Error()))
		} else if errors.Is(err, services.ErrPaymentMethodCodeExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Payment method code already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update payment method.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pm, "message": "Payment method updated successfully"})
}

// DeletePaymentMethod handles soft-deleting a payment method.
func (h *PaymentMethodHandler) DeletePaymentMethod(c *gin.Context) {
	pmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid payment method ID format.", err.Error()))
		return
	}

	if err := h.paymentMethodService.DeletePaymentMethod(pmID); err != nil {
		utils.LogError(err, "DeletePaymentMethod: Error from paymentMethodService.DeletePaymentMethod")
		if errors.Is(err, services.ErrPaymentMethodNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Payment method not found.", err.Error()))
		} else if errors.Is(err, services.ErrPaymentMethodHasOrders) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Payment method is referenced by existing orders.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete payment method.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment method deleted successfully"})
}
