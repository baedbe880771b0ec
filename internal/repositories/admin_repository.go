package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bakery_backend/internal/models"

	"github.com/lib/pq"
)

// AdminRepository defines the interface for admin-user database operations.
type AdminRepository interface {
	// GetByUsername matches the login identifier against username or email,
	// active accounts only.
	GetByUsername(identifier string) (*models.AdminUser, error)
	GetByID(id int64) (*models.AdminUser, error)
	GetAll() ([]models.AdminUser, error)
	Create(executor SQLExecutor, admin *models.AdminUser) (int64, error)
	UpdateLastLogin(executor SQLExecutor, id int64, at time.Time) error
}

type adminRepository struct {
	db *sql.DB
}

// NewAdminRepository creates a new instance of AdminRepository.
func NewAdminRepository(db *sql.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) GetByUsername(identifier string) (*models.AdminUser, error) {
	admin := &models.AdminUser{}
	query := `SELECT id, username, email, password, full_name, role, is_active, last_login, created_at
	          FROM admin_users
	          WHERE (username = $1 OR email = $1) AND is_active = true`
	var lastLogin sql.NullTime
	err := r.db.QueryRow(query, identifier).Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash, &admin.FullName,
		&admin.Role, &admin.IsActive, &lastLogin, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting admin by username %s: %v", ErrDatabaseError, identifier, err)
	}
	if lastLogin.Valid {
		admin.LastLogin = &lastLogin.Time
	}
	return admin, nil
}

func (r *adminRepository) GetByID(id int64) (*models.AdminUser, error) {
	admin := &models.AdminUser{}
	query := `SELECT id, username, email, password, full_name, role, is_active, last_login, created_at
	          FROM admin_users WHERE id = $1 AND is_active = true`
	var lastLogin sql.NullTime
	err := r.db.QueryRow(query, id).Scan(
		&admin.ID, &admin.Username, &admin.Email, &admin.PasswordHash, &admin.FullName,
		&admin.Role, &admin.IsActive, &lastLogin, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting admin by ID %d: %v", ErrDatabaseError, id, err)
	}
	if lastLogin.Valid {
		admin.LastLogin = &lastLogin.Time
	}
	return admin, nil
}

func (r *adminRepository) GetAll() ([]models.AdminUser, error) {
	admins := []models.AdminUser{}
	query := `SELECT id, username, email, full_name, role, is_active, last_login, created_at
	          FROM admin_users ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying admin users: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.AdminUser
		var lastLogin sql.NullTime
		err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.FullName, &a.Role, &a.IsActive, &lastLogin, &a.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning admin user: %v", ErrDatabaseError, err)
		}
		if lastLogin.Valid {
			a.LastLogin = &lastLogin.Time
		}
		admins = append(admins, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating admin user rows: %v", ErrDatabaseError, err)
	}
	return admins, nil
}

func (r *adminRepository) Create(executor SQLExecutor, admin *models.AdminUser) (int64, error) {
	query := `INSERT INTO admin_users (username, email, password, full_name, role, is_active, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		admin.Username, admin.Email, admin.PasswordHash, admin.FullName, admin.Role,
		admin.IsActive, admin.CreatedAt,
	).Scan(&admin.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating admin user: %v", ErrDatabaseError, err)
	}
	return admin.ID, nil
}

func (r *adminRepository) UpdateLastLogin(executor SQLExecutor, id int64, at time.Time) error {
	query := `UPDATE admin_users SET last_login = $1 WHERE id = $2`
	if _, err := executor.Exec(query, at, id); err != nil {
		return fmt.Errorf("%w: updating last login for admin ID %d: %v", ErrDatabaseError, id, err)
	}
	return nil
}
