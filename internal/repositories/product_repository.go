package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery_backend/internal/models"

	"github.com/lib/pq"
)

// ProductRepository defines the interface for product-related database operations.
type ProductRepository interface {
	GetByID(id int64) (*models.Product, error)      // available rows only
	GetByIDAdmin(id int64) (*models.Product, error) // any row
	GetAll(filters models.ProductFilters) ([]models.Product, int, error)
	GetAllAdmin(filters models.ProductFilters) ([]models.Product, int, error) // includes unavailable rows
	Create(executor SQLExecutor, product *models.Product) (int64, error)
	Update(executor SQLExecutor, id int64, upd models.ProductUpdate) error
	SoftDelete(executor SQLExecutor, id int64) error
	CountAvailable() (int, error)
	CountAvailableByCategory(categoryID int64) (int, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(id int64) (*models.Product, error) {
	return r.getByID(id, true)
}

func (r *productRepository) GetByIDAdmin(id int64) (*models.Product, error) {
	return r.getByID(id, false)
}

func (r *productRepository) getByID(id int64, availableOnly bool) (*models.Product, error) {
	product := &models.Product{}
	var categoryName sql.NullString
	query := `SELECT p.id, p.name, p.description, p.price, p.image_url, p.category_id,
	                 p.is_available, p.created_at, p.updated_at, c.name AS category_name
	          FROM products p
	          LEFT JOIN categories c ON p.category_id = c.id
	          WHERE p.id = $1`
	if availableOnly {
		query += ` AND p.is_available = true`
	}
	err := r.db.QueryRow(query, id).Scan(
		&product.ID, &product.Name, &product.Description, &product.Price, &product.ImageURL,
		&product.CategoryID, &product.IsAvailable, &product.CreatedAt, &product.UpdatedAt,
		&categoryName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting product by ID %d: %v", ErrDatabaseError, id, err)
	}
	if categoryName.Valid {
		name := categoryName.String
		product.CategoryName = &name
	}
	return product, nil
}

func (r *productRepository) GetAll(filters models.ProductFilters) ([]models.Product, int, error) {
	return r.list(filters, true)
}

func (r *productRepository) GetAllAdmin(filters models.ProductFilters) ([]models.Product, int, error) {
	return r.list(filters, false)
}

func (r *productRepository) list(filters models.ProductFilters, availableOnly bool) ([]models.Product, int, error) {
	products := []models.Product{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT p.id, p.name, p.description, p.price, p.image_url, p.category_id,
               p.is_available, p.created_at, p.updated_at, c.name AS category_name,
               COUNT(*) OVER() AS total_count
        FROM products p
        LEFT JOIN categories c ON p.category_id = c.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if availableOnly {
		conditions = append(conditions, "p.is_available = true")
	}
	if filters.CategoryID != nil {
		conditions = append(conditions, fmt.Sprintf("p.category_id = $%d", argCounter))
		args = append(args, *filters.CategoryID)
		argCounter++
	}
	if filters.Search != nil && *filters.Search != "" {
		pattern := "%" + *filters.Search + "%"
		conditions = append(conditions, fmt.Sprintf("(p.name ILIKE $%d OR p.description ILIKE $%d)", argCounter, argCounter))
		args = append(args, pattern)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY p.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying products: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p models.Product
		var categoryName sql.NullString
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.ImageURL, &p.CategoryID,
			&p.IsAvailable, &p.CreatedAt, &p.UpdatedAt, &categoryName, &totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning product: %v", ErrDatabaseError, err)
		}
		if categoryName.Valid {
			name := categoryName.String
			p.CategoryName = &name
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating product rows: %v", ErrDatabaseError, err)
	}
	return products, totalCount, nil
}

func (r *productRepository) Create(executor SQLExecutor, product *models.Product) (int64, error) {
	query := `INSERT INTO products (name, description, price, image_url, category_id, is_available, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	err := executor.QueryRow(query,
		product.Name, product.Description, product.Price, product.ImageURL,
		product.CategoryID, product.IsAvailable, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating product (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating product: %v", ErrDatabaseError, err)
	}
	return product.ID, nil
}

// Update applies a partial update with a single fixed statement: absent
// fields arrive as NULL and COALESCE keeps the stored value.
func (r *productRepository) Update(executor SQLExecutor, id int64, upd models.ProductUpdate) error {
	query := `UPDATE products SET
	            name         = COALESCE($1, name),
	            description  = COALESCE($2, description),
	            price        = COALESCE($3, price),
	            image_url    = COALESCE($4, image_url),
	            category_id  = COALESCE($5, category_id),
	            is_available = COALESCE($6, is_available),
	            updated_at   = $7
	          WHERE id = $8`

	result, err := executor.Exec(query,
		upd.Name, upd.Description, upd.Price, upd.ImageURL, upd.CategoryID, upd.IsAvailable,
		time.Now(), id,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: updating product ID %d (constraint: %s): %v", ErrForeignKeyViolation, id, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: updating product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for product update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) SoftDelete(executor SQLExecutor, id int64) error {
	query := `UPDATE products SET is_available = false, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: soft-deleting product ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for product delete ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) CountAvailable() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM products WHERE is_available = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting products: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *productRepository) CountAvailableByCategory(categoryID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM products WHERE category_id = $1 AND is_available = true`
	err := r.db.QueryRow(query, categoryID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting products for category %d: %v", ErrDatabaseError, categoryID, err)
	}
	return count, nil
}
