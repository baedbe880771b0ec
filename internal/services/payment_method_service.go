package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
)

var (
	ErrPaymentMethodHasOrders  = errors.New("payment method is referenced by existing orders")
	ErrPaymentMethodCodeExists = errors.New("payment method code already exists")
)

type CreatePaymentMethodRequest struct {
	Name     string  `json:"name" binding:"required,max=100"`
	Code     string  `json:"code" binding:"required,max=50"`
	Icon     *string `json:"icon"`
	IsActive *bool   `json:"is_active"`
}

// PaymentMethodService manages the accepted payment options.
type PaymentMethodService interface {
	GetPaymentMethods() ([]models.PaymentMethod, error)
	GetPaymentMethodByID(pmID int64) (*models.PaymentMethod, error)
	CreatePaymentMethod(req CreatePaymentMethodRequest) (*models.PaymentMethod, error)
	UpdatePaymentMethod(pmID int64, upd models.PaymentMethodUpdate) (*models.PaymentMethod, error)
	DeletePaymentMethod(pmID int64) error
}

type paymentMethodService struct {
	paymentMethodRepo repositories.PaymentMethodRepository
	orderRepo         repositories.OrderRepository
	db                *sql.DB
}

// NewPaymentMethodService creates a new instance of PaymentMethodService.
func NewPaymentMethodService(pmr repositories.PaymentMethodRepository, or repositories.OrderRepository, db *sql.DB) PaymentMethodService {
	return &paymentMethodService{paymentMethodRepo: pmr, orderRepo: or, db: db}
}

func (s *paymentMethodService) GetPaymentMethods() ([]models.PaymentMethod, error) {
	methods, err := s.paymentMethodRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get payment methods: %w", err)
	}
	return methods, nil
}

func (s *paymentMethodService) GetPaymentMethodByID(pmID int64) (*models.PaymentMethod, error) {
	pm, err := s.paymentMethodRepo.GetByID(pmID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment method ID %d", ErrPaymentMethodNotFound, pmID)
		}
		return nil, fmt.Errorf("failed to get payment method by ID: %w", err)
	}
	return pm, nil
}

func (s *paymentMethodService) CreatePaymentMethod(req CreatePaymentMethodRequest) (*models.PaymentMethod, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: payment method name and code cannot be empty", ErrValidation)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	pm := &models.PaymentMethod{
		Name:     req.Name,
		Code:     strings.ToLower(strings.TrimSpace(req.Code)),
		Icon:     req.Icon,
		IsActive: active,
	}
	id, err := s.paymentMethodRepo.Create(s.db, pm)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrPaymentMethodCodeExists, pm.Code)
		}
		return nil, fmt.Errorf("failed to create payment method: %w", err)
	}
	return s.paymentMethodRepo.GetByIDAdmin(id)
}

func (s *paymentMethodService) UpdatePaymentMethod(pmID int64, upd models.PaymentMethodUpdate) (*models.PaymentMethod, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if upd.Code != nil {
		code := strings.ToLower(strings.TrimSpace(*upd.Code))
		if code == "" {
			return nil, fmt.Errorf("%w: payment method code cannot be empty if provided", ErrValidation)
		}
		upd.Code = &code
	}

	if err := s.paymentMethodRepo.Update(s.db, pmID, upd); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment method ID %d", ErrPaymentMethodNotFound, pmID)
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrPaymentMethodCodeExists, err)
		}
		return nil, fmt.Errorf("failed to update payment method: %w", err)
	}
	return s.paymentMethodRepo.GetByIDAdmin(pmID)
}

// DeletePaymentMethod soft-deletes a payment method unless orders still
// reference it.
func (s *paymentMethodService) DeletePaymentMethod(pmID int64) error {
	count, err := s.orderRepo.CountByPaymentMethod(pmID)
	if err != nil {
		return fmt.Errorf("failed to count orders for payment method %d: %w", pmID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: payment method ID %d has %d orders", ErrPaymentMethodHasOrders, pmID, count)
	}

	if err := s.paymentMethodRepo.SoftDelete(s.db, pmID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: payment method ID %d", ErrPaymentMethodNotFound, pmID)
		}
		return fmt.Errorf("failed to delete payment method: %w", err)
	}
	return nil
}
