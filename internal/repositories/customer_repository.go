package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bakery_backend/internal/models"
)

// CustomerRepository defines the interface for customer-related database operations.
type CustomerRepository interface {
	GetByID(id int64) (*models.Customer, error)
	GetByPhone(phone string) (*models.Customer, error)
	// UpsertByPhone inserts the customer or, when the phone already exists,
	// overwrites name/email/address in place (last write wins). Returns the
	// row id either way. Runs as a single atomic statement so concurrent
	// first-time orders from the same phone cannot create duplicates.
	UpsertByPhone(executor SQLExecutor, customer *models.Customer) (int64, error)
}

type customerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new instance of CustomerRepository.
func NewCustomerRepository(db *sql.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(id int64) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT id, name, phone, email, address, created_at, updated_at
	          FROM customers WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&customer.ID, &customer.Name, &customer.Phone, &customer.Email, &customer.Address,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by ID %d: %v", ErrDatabaseError, id, err)
	}
	return customer, nil
}

func (r *customerRepository) GetByPhone(phone string) (*models.Customer, error) {
	customer := &models.Customer{}
	query := `SELECT id, name, phone, email, address, created_at, updated_at
	          FROM customers WHERE phone = $1`
	err := r.db.QueryRow(query, phone).Scan(
		&customer.ID, &customer.Name, &customer.Phone, &customer.Email, &customer.Address,
		&customer.CreatedAt, &customer.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting customer by phone %s: %v", ErrDatabaseError, phone, err)
	}
	return customer, nil
}

func (r *customerRepository) UpsertByPhone(executor SQLExecutor, customer *models.Customer) (int64, error) {
	query := `INSERT INTO customers (name, phone, email, address, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5)
	          ON CONFLICT (phone) DO UPDATE SET
	            name       = EXCLUDED.name,
	            email      = EXCLUDED.email,
	            address    = EXCLUDED.address,
	            updated_at = EXCLUDED.updated_at
	          RETURNING id`

	err := executor.QueryRow(query,
		customer.Name, customer.Phone, customer.Email, customer.Address, time.Now(),
	).Scan(&customer.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: upserting customer by phone %s: %v", ErrDatabaseError, customer.Phone, err)
	}
	return customer.ID, nil
}
