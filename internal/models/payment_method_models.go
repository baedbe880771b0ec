package models

import "time"

// PaymentMethod is a way of paying for an order (cash, bank transfer, ...).
type PaymentMethod struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"code" db:"code"`
	Icon      *string   `json:"icon,omitempty" db:"icon"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PaymentMethodUpdate is the partial-update shape for payment methods.
type PaymentMethodUpdate struct {
	Name     *string `json:"name"`
	Code     *string `json:"code"`
	Icon     *string `json:"icon"`
	IsActive *bool   `json:"is_active"`
}

// Empty reports whether the update would change nothing.
func (u PaymentMethodUpdate) Empty() bool {
	return u.Name == nil && u.Code == nil && u.Icon == nil && u.IsActive == nil
}
