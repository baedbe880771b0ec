package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
	"bakery_backend/pkg/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAdminNotFound      = errors.New("admin user not found")
	ErrUsernameExists     = errors.New("username or email already taken")
	ErrInvalidRole        = errors.New("invalid admin role")
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string            `json:"token"`
	User  *models.AdminUser `json:"user"`
}

type CreateAdminUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required,max=200"`
	Role     string `json:"role" binding:"required"`
}

// AdminService authenticates back-office users and manages their accounts.
type AdminService interface {
	Login(req LoginRequest) (*LoginResponse, error)
	GetProfile(adminID int64) (*models.AdminUser, error)
	GetAdminUsers() ([]models.AdminUser, error)
	CreateAdminUser(req CreateAdminUserRequest) (*models.AdminUser, error)
}

type adminService struct {
	adminRepo repositories.AdminRepository
	db        *sql.DB
}

// NewAdminService creates a new instance of AdminService.
func NewAdminService(ar repositories.AdminRepository, db *sql.DB) AdminService {
	return &adminService{adminRepo: ar, db: db}
}

// Login verifies credentials against the stored bcrypt hash and issues a
// signed access token. The identifier matches either username or email.
func (s *adminService) Login(req LoginRequest) (*LoginResponse, error) {
	admin, err := s.adminRepo.GetByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up admin user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateAccessToken(admin.ID, admin.Username, admin.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	now := time.Now()
	if err := s.adminRepo.UpdateLastLogin(s.db, admin.ID, now); err != nil {
		// Login still succeeds; the timestamp is informational.
		utils.LogError(err, "failed to update last login timestamp")
	} else {
		admin.LastLogin = &now
	}

	return &LoginResponse{Token: token, User: admin}, nil
}

func (s *adminService) GetProfile(adminID int64) (*models.AdminUser, error) {
	admin, err := s.adminRepo.GetByID(adminID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin profile: %w", err)
	}
	return admin, nil
}

func (s *adminService) GetAdminUsers() ([]models.AdminUser, error) {
	admins, err := s.adminRepo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}
	return admins, nil
}

func (s *adminService) CreateAdminUser(req CreateAdminUserRequest) (*models.AdminUser, error) {
	if req.Role != models.RoleAdmin && req.Role != models.RoleManager {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRole, req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.AdminUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
		IsActive:     true,
	}
	id, err := s.adminRepo.Create(s.db, admin)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrUsernameExists, req.Username)
		}
		return nil, fmt.Errorf("failed to create admin user: %w", err)
	}
	return s.adminRepo.GetByID(id)
}
