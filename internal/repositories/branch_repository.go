package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bakery_backend/internal/models"
)

// BranchRepository defines the interface for branch-related database operations.
type BranchRepository interface {
	GetByID(id int64) (*models.Branch, error)      // active rows only
	GetByIDAdmin(id int64) (*models.Branch, error) // any row
	GetAll() ([]models.Branch, error)
	Create(executor SQLExecutor, branch *models.Branch) (int64, error)
	Update(executor SQLExecutor, id int64, upd models.BranchUpdate) error
	SoftDelete(executor SQLExecutor, id int64) error
	CountActive() (int, error)
}

type branchRepository struct {
	db *sql.DB
}

// NewBranchRepository creates a new instance of BranchRepository.
func NewBranchRepository(db *sql.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) GetByID(id int64) (*models.Branch, error) {
	return r.getByID(id, true)
}

func (r *branchRepository) GetByIDAdmin(id int64) (*models.Branch, error) {
	return r.getByID(id, false)
}

func (r *branchRepository) getByID(id int64, activeOnly bool) (*models.Branch, error) {
	branch := &models.Branch{}
	query := `SELECT id, name, address, phone, is_active, created_at, updated_at
	          FROM branches WHERE id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	err := r.db.QueryRow(query, id).Scan(
		&branch.ID, &branch.Name, &branch.Address, &branch.Phone, &branch.IsActive,
		&branch.CreatedAt, &branch.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting branch by ID %d: %v", ErrDatabaseError, id, err)
	}
	return branch, nil
}

func (r *branchRepository) GetAll() ([]models.Branch, error) {
	branches := []models.Branch{}
	query := `SELECT id, name, address, phone, is_active, created_at, updated_at
	          FROM branches WHERE is_active = true ORDER BY created_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying branches: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var b models.Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.Address, &b.Phone, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning branch: %v", ErrDatabaseError, err)
		}
		branches = append(branches, b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating branch rows: %v", ErrDatabaseError, err)
	}
	return branches, nil
}

func (r *branchRepository) Create(executor SQLExecutor, branch *models.Branch) (int64, error) {
	query := `INSERT INTO branches (name, address, phone, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	now := time.Now()
	if branch.CreatedAt.IsZero() {
		branch.CreatedAt = now
	}
	if branch.UpdatedAt.IsZero() {
		branch.UpdatedAt = now
	}

	err := executor.QueryRow(query,
		branch.Name, branch.Address, branch.Phone, branch.IsActive, branch.CreatedAt, branch.UpdatedAt,
	).Scan(&branch.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating branch: %v", ErrDatabaseError, err)
	}
	return branch.ID, nil
}

func (r *branchRepository) Update(executor SQLExecutor, id int64, upd models.BranchUpdate) error {
	query := `UPDATE branches SET
	            name       = COALESCE($1, name),
	            address    = COALESCE($2, address),
	            phone      = COALESCE($3, phone),
	            is_active  = COALESCE($4, is_active),
	            updated_at = $5
	          WHERE id = $6`

	result, err := executor.Exec(query, upd.Name, upd.Address, upd.Phone, upd.IsActive, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: updating branch ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for branch update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *branchRepository) SoftDelete(executor SQLExecutor, id int64) error {
	query := `UPDATE branches SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: soft-deleting branch ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for branch delete ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *branchRepository) CountActive() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM branches WHERE is_active = true`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: counting branches: %v", ErrDatabaseError, err)
	}
	return count, nil
}
