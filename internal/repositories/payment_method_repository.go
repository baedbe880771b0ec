package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bakery_backend/internal/models"

	"github.com/lib/pq"
)

// PaymentMethodRepository defines the interface for payment-method database operations.
type PaymentMethodRepository interface {
	GetByID(id int64) (*models.PaymentMethod, error)      // active rows only
	GetByIDAdmin(id int64) (*models.PaymentMethod, error) // any row
	GetByCode(code string) (*models.PaymentMethod, error)
	GetAll() ([]models.PaymentMethod, error)
	Create(executor SQLExecutor, pm *models.PaymentMethod) (int64, error)
	Update(executor SQLExecutor, id int64, upd models.PaymentMethodUpdate) error
	SoftDelete(executor SQLExecutor, id int64) error
}

type paymentMethodRepository struct {
	db *sql.DB
}

// NewPaymentMethodRepository creates a new instance of PaymentMethodRepository.
func NewPaymentMethodRepository(db *sql.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) GetByID(id int64) (*models.PaymentMethod, error) {
	return r.getByID(id, true)
}

func (r *paymentMethodRepository) GetByIDAdmin(id int64) (*models.PaymentMethod, error) {
	return r.getByID(id, false)
}

func (r *paymentMethodRepository) getByID(id int64, activeOnly bool) (*models.PaymentMethod, error) {
	pm := &models.PaymentMethod{}
	query := `SELECT id, name, code, icon, is_active, created_at, updated_at
	          FROM payment_methods WHERE id = $1`
	if activeOnly {
		query += ` AND is_active = true`
	}
	err := r.db.QueryRow(query, id).Scan(
		&pm.ID, &pm.Name, &pm.Code, &pm.Icon, &pm.IsActive, &pm.CreatedAt, &pm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting payment method by ID %d: %v", ErrDatabaseError, id, err)
	}
	return pm, nil
}

func (r *paymentMethodRepository) GetByCode(code string) (*models.PaymentMethod, error) {
	pm := &models.PaymentMethod{}
	query := `SELECT id, name, code, icon, is_active, created_at, updated_at
	          FROM payment_methods WHERE code = $1 AND is_active = true`
	err := r.db.QueryRow(query, code).Scan(
		&pm.ID, &pm.Name, &pm.Code, &pm.Icon, &pm.IsActive, &pm.CreatedAt, &pm.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting payment method by code %s: %v", ErrDatabaseError, code, err)
	}
	return pm, nil
}

func (r *paymentMethodRepository) GetAll() ([]models.PaymentMethod, error) {
	methods := []models.PaymentMethod{}
	query := `SELECT id, name, code, icon, is_active, created_at, updated_at
	          FROM payment_methods WHERE is_active = true ORDER BY created_at ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying payment methods: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var pm models.PaymentMethod
		if err := rows.Scan(&pm.ID, &pm.Name, &pm.Code, &pm.Icon, &pm.IsActive, &pm.CreatedAt, &pm.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning payment method: %v", ErrDatabaseError, err)
		}
		methods = append(methods, pm)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payment method rows: %v", ErrDatabaseError, err)
	}
	return methods, nil
}

func (r *paymentMethodRepository) Create(executor SQLExecutor, pm *models.PaymentMethod) (int64, error) {
	query := `INSERT INTO payment_methods (name, code, icon, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	now := time.Now()
	if pm.CreatedAt.IsZero() {
		pm.CreatedAt = now
	}
	if pm.UpdatedAt.IsZero() {
		pm.UpdatedAt = now
	}

	err := executor.QueryRow(query,
		pm.Name, pm.Code, pm.Icon, pm.IsActive, pm.CreatedAt, pm.UpdatedAt,
	).Scan(&pm.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating payment method: %v", ErrDatabaseError, err)
	}
	return pm.ID, nil
}

func (r *paymentMethodRepository) Update(executor SQLExecutor, id int64, upd models.PaymentMethodUpdate) error {
	query := `UPDATE payment_methods SET
	            name       = COALESCE($1, name),
	            code       = COALESCE($2, code),
	            icon       = COALESCE($3, icon),
	            is_active  = COALESCE($4, is_active),
	            updated_at = $5
	          WHERE id = $6`

	result, err := executor.Exec(query, upd.Name, upd.Code, upd.Icon, upd.IsActive, time.Now(), id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating payment method ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for payment method update ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *paymentMethodRepository) SoftDelete(executor SQLExecutor, id int64) error {
	query := `UPDATE payment_methods SET is_active = false, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: soft-deleting payment method ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for payment method delete ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
