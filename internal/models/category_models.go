package models

import "time"

// Category groups catalog products. Soft-deleted via is_active.
type Category struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	ProductCount *int      `json:"product_count,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryUpdate is the partial-update shape for categories.
type CategoryUpdate struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// Empty reports whether the update would change nothing.
func (u CategoryUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.IsActive == nil
}
