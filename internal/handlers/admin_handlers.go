package handlers

import (
	"errors"
	"net/http"

	"bakery_backend/internal/services"
	"bakery_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler exposes authentication, account management and dashboard
// statistics for the back office.
type AdminHandler struct {
	adminService services.AdminService
	statsService services.StatsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(as services.AdminService, ss services.StatsService) *AdminHandler {
	return &AdminHandler{adminService: as, statsService: ss}
}

// Login handles admin authentication and token issuance.
func (h *AdminHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	resp, err := h.adminService.Login(req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid username or password.", ""))
		} else {
			utils.LogError(err, "Login: Error from adminService.Login")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to log in.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": resp, "message": "Login successful"})
}

// GetProfile returns the authenticated admin's own account.
func (h *AdminHandler) GetProfile(c *gin.Context) {
	adminID, exists := c.Get("adminID")
	if !exists {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return
	}

	admin, err := h.adminService.GetProfile(adminID.(int64))
	if err != nil {
		if errors.Is(err, services.ErrAdminNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Admin user not found.", err.Error()))
		} else {
			utils.LogError(err, "GetProfile: Error from adminService.GetProfile")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch profile.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": admin})
}

// GetAdminUsers lists all back-office accounts.
func (h *AdminHandler) GetAdminUsers(c *gin.Context) {
	admins, err := h.adminService.GetAdminUsers()
	if err != nil {
		utils.LogError(err, "GetAdminUsers: Error from adminService.GetAdminUsers")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch admin users.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": admins})
}

// CreateAdminUser handles the creation of a new back-office account.
func (h *AdminHandler) CreateAdminUser(c *gin.Context) {
	var req services.CreateAdminUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	admin, err := h.adminService.CreateAdminUser(req)
	if err != nil {
		utils.LogError(err, "CreateAdminUser: Error from adminService.CreateAdminUser")
		if errors.Is(err, services.ErrUsernameExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Username or email already taken.", err.Error()))
		} else if errors.Is(err, services.ErrInvalidRole) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown admin role.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create admin user.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": admin, "message": "Admin user created successfully"})
}

// GetDashboardStats returns the headline counters for the dashboard cards.
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.statsService.GetDashboardStats()
	if err != nil {
		utils.LogError(err, "GetDashboardStats: Error from statsService.GetDashboardStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch dashboard statistics.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

// GetOrderStatistics returns order rollups, optionally bounded by
// ?date_from=YYYY-MM-DD&date_to=YYYY-MM-DD.
func (h *AdminHandler) GetOrderStatistics(c *gin.Context) {
	dateFrom := utils.NewNullString(c.Query("date_from"))
	dateTo := utils.NewNullString(c.Query("date_to"))

	stats, err := h.statsService.GetOrderStatistics(dateFrom, dateTo)
	if err != nil {
		utils.LogError(err, "GetOrderStatistics: Error from statsService.GetOrderStatistics")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch order statistics.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}
