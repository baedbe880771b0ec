package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
)

var ErrBranchHasOrders = errors.New("branch is referenced by existing orders")

type CreateBranchRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Address  string `json:"address" binding:"required,max=500"`
	Phone    string `json:"phone" binding:"required,phone"`
	IsActive *bool  `json:"is_active"`
}

// BranchService manages pickup/delivery branches.
type BranchService interface {
	GetBranches() ([]models.Branch, error)
	GetBranchByID(branchID int64) (*models.Branch, error)
	CreateBranch(req CreateBranchRequest) (*models.Branch, error)
	UpdateBranch(branchID int64, upd models.BranchUpdate) (*models.Branch, error)
	DeleteBranch(branchID int64) error
}

type branchService struct {
	branchRepo repositories.BranchRepository
	orderRepo  repositories.OrderRepository
	db         *sql.DB
}

// NewBranchService creates a new instance of BranchService.
func NewBranchService(br repositories.BranchRepository, or repositories.OrderRepository, db *sql.DB) BranchService {
	return &branchService{branchRepo: br, orderRepo: or, db: db}
}

func (s *branchService) GetBranches() ([]models.Branch, error) {
	branches, err := s.branchRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	return branches, nil
}

func (s *branchService) GetBranchByID(branchID int64) (*models.Branch, error) {
	branch, err := s.branchRepo.GetByID(branchID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: branch ID %d", ErrBranchNotFound, branchID)
		}
		return nil, fmt.Errorf("failed to get branch by ID: %w", err)
	}
	return branch, nil
}

func (s *branchService) CreateBranch(req CreateBranchRequest) (*models.Branch, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: branch name cannot be empty", ErrValidation)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	branch := &models.Branch{
		Name:     req.Name,
		Address:  req.Address,
		Phone:    req.Phone,
		IsActive: active,
	}
	id, err := s.branchRepo.Create(s.db, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return s.branchRepo.GetByIDAdmin(id)
}

func (s *branchService) UpdateBranch(branchID int64, upd models.BranchUpdate) (*models.Branch, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: branch name cannot be empty if provided", ErrValidation)
	}

	if err := s.branchRepo.Update(s.db, branchID, upd); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: branch ID %d", ErrBranchNotFound, branchID)
		}
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return s.branchRepo.GetByIDAdmin(branchID)
}

// DeleteBranch soft-deletes a branch unless orders still reference it.
func (s *branchService) DeleteBranch(branchID int64) error {
	count, err := s.orderRepo.CountByBranch(branchID)
	if err != nil {
		return fmt.Errorf("failed to count orders for branch %d: %w", branchID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: branch ID %d has %d orders", ErrBranchHasOrders, branchID, count)
	}

	if err := s.branchRepo.SoftDelete(s.db, branchID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: branch ID %d", ErrBranchNotFound, branchID)
		}
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return nil
}
