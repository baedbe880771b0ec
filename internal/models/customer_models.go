package models

import "time"

// Customer is keyed functionally by phone number: repeat orders from the
// same phone overwrite name/email/address in place (last write wins).
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
