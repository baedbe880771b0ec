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

// BranchHandler exposes branch endpoints.
type BranchHandler struct {
	branchService services.BranchService
}

// NewBranchHandler creates a new BranchHandler.
func NewBranchHandler(bs services.BranchService) *BranchHandler {
	return &BranchHandler{branchService: bs}
}

// GetBranches handles fetching all active branches.
func (h *BranchHandler) GetBranches(c *gin.Context) {
	branches, err := h.branchService.GetBranches()
	if err != nil {
		utils.LogError(err, "GetBranches: Error from branchService.GetBranches")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch branches.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": branches})
}

// GetBranchByID handles fetching a single active branch.
func (h *BranchHandler) GetBranchByID(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid branch ID format.", err.Error()))
		return
	}

	branch, err := h.branchService.GetBranchByID(branchID)
	if err != nil {
		if errors.Is(err, services.ErrBranchNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Branch not found.", err.Error()))
		} else {
			utils.LogError(err, "GetBranchByID: Error from branchService.GetBranchByID")
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch branch.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": branch})
}

// CreateBranch handles the creation of a new branch.
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	var req services.CreateBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	branch, err := h.branchService.CreateBranch(req)
	if err != nil {
		utils.LogError(err, "CreateBranch: Error from branchService.CreateBranch")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create branch.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": branch, "message": "Branch created successfully"})
}

// UpdateBranch handles a partial update of a branch.
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid branch ID format.", err.Error()))
		return
	}

	var upd models.BranchUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	branch, err := h.branchService.UpdateBranch(branchID, upd)
	if err != nil {
		utils.LogError(err, "UpdateBranch: Error from branchService.UpdateBranch")
		if errors.Is(err, services.ErrBranchNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Branch not found.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update branch.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": branch, "message": "Branch updated successfully"})
}

// DeleteBranch handles soft-deleting a branch.
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	branchID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid branch ID format.", err.Error()))
		return
	}

	if err := h.branchService.DeleteBranch(branchID); err != nil {
		utils.LogError(err, "DeleteBranch: Error from branchService.DeleteBranch")
		if errors.Is(err, services.ErrBranchNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Branch not found.", err.Error()))
		} else if errors.Is(err, services.ErrBranchHasOrders) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Branch is referenced by existing orders.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete branch.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Branch deleted successfully"})
}
