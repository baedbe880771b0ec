package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bakery_backend/internal/models"

	"github.com/lib/pq"
)

// CategoryRepository defines the interface for category-related database operations.
type CategoryRepository interface {
	GetByID(id int64) (*models.Category, error)      // active rows only
	GetByIDAdmin(id int64) (*models.Category, error) // any row
	GetAll() ([]models.Category, error)
	GetAllWithProductCount() ([]models.Category, error)
	Create(executor SQLExecutor, category *models.Category) (int64, error)
	Update(executor SQLExecutor, id int64, upd models.CategoryUpdate) error
	SoftDelete(executor SQLExecutor, id int64) error
	CountActive() (int, error)
}

type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new instance of CategoryRepository.
func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) GetByID(id int64) (*models.Category, error) {
	return r.getByID(id, true)
}

func (r *categoryRepository) GetByIDAdmin(id int64) (*models.Category, error) {
	return r.getByID(id, false)
}

func (r *categoryRepository) getByID(id int64, activeOnly bool) (*models.Category, error) {
	category := &models.Category{}
	query := `SELECT id, name, description, is_active, created_at, updated_at
	          FROM categories WHERE id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	err := r.db.QueryRow(query, id).Scan(
		&category.ID, &category.Name, &category.Description, &category.IsActive,
		&category.CreatedAt, &category.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting category by ID %d: %v", ErrDatabaseError, id, err)
	}
	return category, nil
}

func (r *categoryRepository) GetAll() ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, description, is_active, created_at, updated_at
	          FROM categories WHERE is_active = true ORDER BY created_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category rows: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *categoryRepository) GetAllWithProductCount() ([]models.Category, error) {
	categories := []models.Category{}
	query := `
		SELECT c.id, c.name, c.description, c.is_active, c.created_at, c.updated_at,
		       COUNT(p.id) AS product_count
		FROM categories c
		LEFT JOIN products p ON c.id = p.category_id AND p.is_available = true
		WHERE c.is_active = true
		GROUP BY c.id
		ORDER BY c.created_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying categories with product counts: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.Category
		var productCount int
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.IsActive, &c.CreatedAt, &c.UpdatedAt, &productCount); err != nil {
			return nil, fmt.Errorf("%w: scanning category with product count: %v", ErrDatabaseError, err)
		}
		c.ProductCount = &productCount
		categories = append(categories, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category rows: %v", ErrDatabaseError, err)
	}
	return categories, nil
}

func (r *categoryRepository) Create(executor SQLExecutor, category *models.Category) (int64, error) {
	query := `INSERT INTO categories (name, description, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	now := time.Now()
	if category.CreatedAt.IsZero() {
		category.CreatedAt = now
	}
	if category.UpdatedAt.IsZero() {
		category.UpdatedAt = now
	}

	err := executor.QueryRow(query,
		category.Name, category.Description, category.IsActive, category.CreatedAt, category.UpdatedAt,
	).Scan(&category.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return category.ID, nil
}

func (r *categoryRepository) Update(executor SQLExecutor, id int64, upd models.CategoryUpdate) error {
	query := `UPDATE categories SET
	            name        = COALESCE($1, name),
	            description = COALESCE($2, description),
	            is_active   = COALESCE($3, is_active),
	            updated_at  = $4
	          WHERE id = $5`

	result, err := executor.Exec(query, upd.Name, upd.Description, upd.IsActive, time.Now(), id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for category update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) SoftDelete(executor SQLExecutor, id int64) error {
	query := `UPDATE categories SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: soft-deleting category ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for category delete ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *categoryRepository) CountActive() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM categories WHERE is_active = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting categories: %v", ErrDatabaseError, err)
	}
	return count, nil
}
