package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
)

// Custom service errors for the order workflow.
var (
	ErrProductNotFound       = errors.New("product not found or not available")
	ErrPriceChanged          = errors.New("product price has changed, refresh the cart")
	ErrTotalMismatch         = errors.New("submitted total does not match computed total")
	ErrBranchNotFound        = errors.New("branch not found or not active")
	ErrPaymentMethodNotFound = errors.New("payment method not found or not active")
	ErrOrderNotFound         = errors.New("order not found")
	ErrInvalidOrderStatus    = errors.New("invalid order status")
)

// totalTolerance absorbs decimal rounding between client and server totals.
const totalTolerance = 0.01

// orderCodePrefix + last 8 digits of epoch milliseconds form the public code.
// The code is cosmetic: the integer primary key stays the source of truth,
// and a unique constraint plus regeneration handles same-millisecond bursts.
const (
	orderCodePrefix      = "BM"
	orderCodeMaxAttempts = 3
)

// --- Data Transfer Objects (DTOs) ---

// ProductRef is the client's cached view of a product inside a cart line.
type ProductRef struct {
	ID    int64   `json:"id" binding:"required,gt=0"`
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price" binding:"required,gt=0"`
}

// CreateOrderItemRequest is one cart line of an incoming order.
type CreateOrderItemRequest struct {
	Product  ProductRef `json:"product" binding:"required"`
	Quantity int        `json:"quantity" binding:"required,gte=1"`
}

// CustomerInfoRequest carries the contact details attached to an order.
type CustomerInfoRequest struct {
	Name    string  `json:"name" binding:"required,max=200"`
	Phone   string  `json:"phone" binding:"required,phone"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address string  `json:"address" binding:"required"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	Items           []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerInfo    CustomerInfoRequest      `json:"customerInfo" binding:"required"`
	BranchID        int64                    `json:"branch_id" binding:"required,gt=0"`
	PaymentMethodID int64                    `json:"payment_method_id" binding:"required,gt=0"`
	TotalAmount     float64                  `json:"total_amount" binding:"required,gt=0"`
	Notes           *string                  `json:"notes" binding:"omitempty,max=500"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- OrderService Interface ---

type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrderByCode(orderCode string) (*models.Order, error)
	UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
}

type orderService struct {
	orderRepo         repositories.OrderRepository
	productRepo       repositories.ProductRepository
	branchRepo        repositories.BranchRepository
	paymentMethodRepo repositories.PaymentMethodRepository
	customerRepo      repositories.CustomerRepository
	db                *sql.DB // for managing transactions
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	pr repositories.ProductRepository,
	br repositories.BranchRepository,
	pmr repositories.PaymentMethodRepository,
	cr repositories.CustomerRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo:         or,
		productRepo:       pr,
		branchRepo:        br,
		paymentMethodRepo: pmr,
		customerRepo:      cr,
		db:                db,
	}
}

// generateOrderCode derives a short human-readable code from the current
// epoch milliseconds.
func generateOrderCode() string {
	ms := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return orderCodePrefix + ms[len(ms)-8:]
}

// CreateOrder validates the request against live catalog state and, only
// after every check passes, persists customer, order and items in a single
// transaction. Validation failures never leave partial state behind.
func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	var serverTotal float64
	itemsToCreate := make([]models.OrderItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		product, err := s.productRepo.GetByID(itemReq.Product.ID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: product ID %d", ErrProductNotFound, itemReq.Product.ID)
			}
			return nil, fmt.Errorf("failed to fetch product %d: %w", itemReq.Product.ID, err)
		}

		// Client prices are advisory; any divergence from the live price
		// rejects the whole order. No partial acceptance.
		if product.Price != itemReq.Product.Price {
			return nil, fmt.Errorf("%w: product %s (ID: %d)", ErrPriceChanged, product.Name, product.ID)
		}

		subtotal := product.Price * float64(itemReq.Quantity)
		serverTotal += subtotal

		itemsToCreate = append(itemsToCreate, models.OrderItem{
			ProductID:    product.ID,
			ProductName:  product.Name,
			ProductPrice: product.Price,
			Quantity:     itemReq.Quantity,
			Subtotal:     subtotal,
		})
	}

	if math.Abs(serverTotal-req.TotalAmount) > totalTolerance {
		return nil, fmt.Errorf("%w: submitted %.2f, computed %.2f", ErrTotalMismatch, req.TotalAmount, serverTotal)
	}

	if _, err := s.branchRepo.GetByID(req.BranchID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: branch ID %d", ErrBranchNotFound, req.BranchID)
		}
		return nil, fmt.Errorf("failed to fetch branch %d: %w", req.BranchID, err)
	}
	if _, err := s.paymentMethodRepo.GetByID(req.PaymentMethodID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: payment method ID %d", ErrPaymentMethodNotFound, req.PaymentMethodID)
		}
		return nil, fmt.Errorf("failed to fetch payment method %d: %w", req.PaymentMethodID, err)
	}

	// A failed insert aborts the whole transaction in PostgreSQL, so the
	// duplicate-code retry restarts the transaction with a fresh code.
	var orderID int64
	var err error
	for attempt := 0; attempt < orderCodeMaxAttempts; attempt++ {
		orderID, err = s.persistOrder(req, serverTotal, generateOrderCode(), itemsToCreate)
		if err == nil {
			break
		}
		if !errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to persist order: %w", err)
	}

	return s.GetOrderByID(orderID)
}

// persistOrder runs the atomic write phase: customer upsert, order insert and
// item inserts commit or roll back together so an order can never exist
// without its items.
func (s *orderService) persistOrder(req CreateOrderRequest, serverTotal float64, orderCode string, items []models.OrderItem) (int64, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	customer := models.Customer{
		Name:    req.CustomerInfo.Name,
		Phone:   req.CustomerInfo.Phone,
		Email:   req.CustomerInfo.Email,
		Address: req.CustomerInfo.Address,
	}
	customerID, err := s.customerRepo.UpsertByPhone(tx, &customer)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve customer: %w", err)
	}

	order := models.Order{
		OrderCode:       orderCode,
		CustomerID:      &customerID,
		BranchID:        req.BranchID,
		PaymentMethodID: req.PaymentMethodID,
		TotalAmount:     serverTotal,
		Status:          models.OrderStatusPending,
		CustomerName:    req.CustomerInfo.Name,
		CustomerPhone:   req.CustomerInfo.Phone,
		CustomerEmail:   req.CustomerInfo.Email,
		DeliveryAddress: req.CustomerInfo.Address,
		Notes:           req.Notes,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	orderID, err := s.orderRepo.Create(tx, &order)
	if err != nil {
		return 0, err
	}

	for _, item := range items {
		item.OrderID = orderID
		if _, err := s.orderRepo.CreateItem(tx, &item); err != nil {
			return 0, fmt.Errorf("failed to create order item (product_id: %d): %w", item.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return orderID, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetAll(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}

	items, err := s.orderRepo.GetItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for order %d: %w", orderID, err)
	}
	order.Items = items
	return order, nil
}

func (s *orderService) GetOrderByCode(orderCode string) (*models.Order, error) {
	order, err := s.orderRepo.GetByCode(orderCode)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by code: %w", err)
	}

	items, err := s.orderRepo.GetItemsByOrderID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get items for order %d: %w", order.ID, err)
	}
	order.Items = items
	return order, nil
}

// UpdateOrderStatus sets any of the six known labels. There is no
// transition graph: completed back to pending is allowed.
func (s *orderService) UpdateOrderStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if !models.IsValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, req.Status)
	}

	err := s.orderRepo.UpdateStatus(s.db, orderID, req.Status, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return s.GetOrderByID(orderID)
}
