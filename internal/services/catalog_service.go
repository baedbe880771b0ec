package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
)

// Custom service errors for the catalog.
var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategoryNameExists = errors.New("category name already exists")
	ErrCategoryHasProducts = errors.New("category still has available products")
	ErrValidation         = errors.New("validation error")
	ErrInvalidCategoryRef = errors.New("referenced category does not exist")
)

// --- Category DTOs ---

type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

// --- Product DTOs ---

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	ImageURL    *string `json:"image_url"`
	CategoryID  int64   `json:"category_id" binding:"required,gt=0"`
	IsAvailable *bool   `json:"is_available"`
}

// --- CatalogService Interface ---

// CatalogService covers the read side used by the storefront and the
// admin-side product/category management.
type CatalogService interface {
	GetProducts(filters models.ProductFilters) ([]models.Product, int, error)
	GetProductsAdmin(filters models.ProductFilters) ([]models.Product, int, error)
	GetProductByID(productID int64) (*models.Product, error)
	CreateProduct(req CreateProductRequest) (*models.Product, error)
	UpdateProduct(productID int64, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(productID int64) error

	GetCategories() ([]models.Category, error)
	GetCategoriesWithProductCount() ([]models.Category, error)
	GetCategoryByID(categoryID int64) (*models.Category, error)
	CreateCategory(req CreateCategoryRequest) (*models.Category, error)
	UpdateCategory(categoryID int64, upd models.CategoryUpdate) (*models.Category, error)
	DeleteCategory(categoryID int64) error
}

type catalogService struct {
	productRepo  repositories.ProductRepository
	categoryRepo repositories.CategoryRepository
	db           *sql.DB
}

// NewCatalogService creates a new instance of CatalogService.
func NewCatalogService(pr repositories.ProductRepository, cr repositories.CategoryRepository, db *sql.DB) CatalogService {
	return &catalogService{
		productRepo:  pr,
		categoryRepo: cr,
		db:           db,
	}
}

// --- Product Method Implementations ---

func (s *catalogService) GetProducts(filters models.ProductFilters) ([]models.Product, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	products, total, err := s.productRepo.GetAll(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products: %w", err)
	}
	return products, total, nil
}

func (s *catalogService) GetProductsAdmin(filters models.ProductFilters) ([]models.Product, int, error) {
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	products, total, err := s.productRepo.GetAllAdmin(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get products for admin: %w", err)
	}
	return products, total, nil
}

func (s *catalogService) GetProductByID(productID int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product ID %d", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product by ID: %w", err)
	}
	return product, nil
}

func (s *catalogService) CreateProduct(req CreateProductRequest) (*models.Product, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", ErrValidation)
	}
	if _, err := s.categoryRepo.GetByID(req.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: category ID %d", ErrInvalidCategoryRef, req.CategoryID)
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		IsAvailable: available,
	}
	id, err := s.productRepo.Create(s.db, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return s.productRepo.GetByIDAdmin(id)
}

func (s *catalogService) UpdateProduct(productID int64, upd models.ProductUpdate) (*models.Product, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty if provided", ErrValidation)
	}
	if upd.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(*upd.CategoryID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: category ID %d", ErrInvalidCategoryRef, *upd.CategoryID)
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
	}

	if err := s.productRepo.Update(s.db, productID, upd); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: product ID %d", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return s.productRepo.GetByIDAdmin(productID)
}

func (s *catalogService) DeleteProduct(productID int64) error {
	if err := s.productRepo.SoftDelete(s.db, productID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: product ID %d", ErrProductNotFound, productID)
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// --- Category Method Implementations ---

func (s *catalogService) GetCategories() ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

func (s *catalogService) GetCategoriesWithProductCount() ([]models.Category, error) {
	categories, err := s.categoryRepo.GetAllWithProductCount()
	if err != nil {
		return nil, fmt.Errorf("failed to get categories with product counts: %w", err)
	}
	return categories, nil
}

func (s *catalogService) GetCategoryByID(categoryID int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by ID: %w", err)
	}
	return category, nil
}

func (s *catalogService) CreateCategory(req CreateCategoryRequest) (*models.Category, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty", ErrValidation)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	category := &models.Category{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    active,
	}
	id, err := s.categoryRepo.Create(s.db, category)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrCategoryNameExists, req.Name)
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return s.categoryRepo.GetByIDAdmin(id)
}

func (s *catalogService) UpdateCategory(categoryID int64, upd models.CategoryUpdate) (*models.Category, error) {
	if upd.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, fmt.Errorf("%w: category name cannot be empty if provided", ErrValidation)
	}

	if err := s.categoryRepo.Update(s.db, categoryID, upd); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %v", ErrCategoryNameExists, err)
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return s.categoryRepo.GetByIDAdmin(categoryID)
}

// DeleteCategory soft-deletes a category unless available products still
// reference it. The check is an application-level guard, not a schema
// constraint, matching the soft-delete model.
func (s *catalogService) DeleteCategory(categoryID int64) error {
	count, err := s.productRepo.CountAvailableByCategory(categoryID)
	if err != nil {
		return fmt.Errorf("failed to count products for category %d: %w", categoryID, err)
	}
	if count > 0 {
		return fmt.Errorf("%w: category ID %d has %d products", ErrCategoryHasProducts, categoryID, count)
	}

	if err := s.categoryRepo.SoftDelete(s.db, categoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}
