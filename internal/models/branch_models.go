package models

import "time"

// Branch is a bakery location orders can be placed against.
type Branch struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// BranchUpdate is the partial-update shape for branches.
type BranchUpdate struct {
	Name     *string `json:"name"`
	Address  *string `json:"address"`
	Phone    *string `json:"phone" binding:"omitempty,phone"`
	IsActive *bool   `json:"is_active"`
}

// Empty reports whether the update would change nothing.
func (u BranchUpdate) Empty() bool {
	return u.Name == nil && u.Address == nil && u.Phone == nil && u.IsActive == nil
}
