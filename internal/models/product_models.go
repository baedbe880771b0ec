package models

import "time"

// Product is a catalog item. Availability is a soft-delete flag: unavailable
// products are hidden from public reads but remain referenced by historical
// order items.
type Product struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Price        float64   `json:"price" db:"price"`
	ImageURL     *string   `json:"image_url,omitempty" db:"image_url"`
	CategoryID   int64     `json:"category_id" db:"category_id"`
	CategoryName *string   `json:"category_name,omitempty" db:"-"`
	IsAvailable  bool      `json:"is_available" db:"is_available"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProductUpdate carries the optional fields of a partial product update.
// Nil means "leave unchanged"; the repository consumes this with one fixed
// UPDATE statement instead of assembling SET clauses dynamically.
type ProductUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gt=0"`
	ImageURL    *string  `json:"image_url"`
	CategoryID  *int64   `json:"category_id" binding:"omitempty,gt=0"`
	IsAvailable *bool    `json:"is_available"`
}

// Empty reports whether the update would change nothing.
func (u ProductUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil &&
		u.ImageURL == nil && u.CategoryID == nil && u.IsAvailable == nil
}

// ProductFilters defines the available filters for querying products.
type ProductFilters struct {
	CategoryID *int64  `form:"category_id"`
	Search     *string `form:"search"`
	Page       int     `form:"page"`
	PageSize   int     `form:"limit"`
}
