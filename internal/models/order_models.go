package models

import "time"

// Order status vocabulary. There is no enforced transition graph: any label
// may be set from any state, only unknown labels are rejected.
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusPreparing  = "preparing"
	OrderStatusDelivering = "delivering"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// IsValidOrderStatus reports whether status is one of the six known labels.
func IsValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// Order is a placed bakery order. Customer contact fields are denormalized
// snapshots taken at creation time so later customer edits never alter
// historical orders. total_amount equals the sum of item subtotals, verified
// at creation and never re-verified afterward.
type Order struct {
	ID              int64   `json:"id" db:"id"`
	OrderCode       string  `json:"order_code" db:"order_code"`
	CustomerID      *int64  `json:"customer_id,omitempty" db:"customer_id"`
	BranchID        int64   `json:"branch_id" db:"branch_id"`
	PaymentMethodID int64   `json:"payment_method_id" db:"payment_method_id"`
	TotalAmount     float64 `json:"total_amount" db:"total_amount"`
	Status          string  `json:"status" db:"status"`

	// Snapshot of the customer at order time.
	CustomerName    string  `json:"customer_name" db:"customer_name"`
	CustomerPhone   string  `json:"customer_phone" db:"customer_phone"`
	CustomerEmail   *string `json:"customer_email,omitempty" db:"customer_email"`
	DeliveryAddress string  `json:"delivery_address" db:"delivery_address"`

	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	// Joined display fields, populated on reads only.
	BranchName        *string `json:"branch_name,omitempty" db:"-"`
	BranchAddress     *string `json:"branch_address,omitempty" db:"-"`
	BranchPhone       *string `json:"branch_phone,omitempty" db:"-"`
	PaymentMethodName *string `json:"payment_method_name,omitempty" db:"-"`
	PaymentMethodCode *string `json:"payment_method_code,omitempty" db:"-"`

	Items []OrderItem `json:"items,omitempty"`
}

// OrderItem belongs to exactly one order and snapshots product id, name and
// unit price at purchase time; later product price changes must not affect it.
type OrderItem struct {
	ID           int64     `json:"id" db:"id"`
	OrderID      int64     `json:"order_id" db:"order_id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	ProductName  string    `json:"product_name" db:"product_name"`
	ProductPrice float64   `json:"product_price" db:"product_price"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Subtotal     float64   `json:"subtotal" db:"subtotal"`
	ProductImage *string   `json:"product_image,omitempty" db:"-"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// OrderFilters defines the available filters for querying orders.
type OrderFilters struct {
	Status   *string `form:"status"`
	BranchID *int64  `form:"branch_id"`
	DateFrom *string `form:"date_from"` // YYYY-MM-DD
	DateTo   *string `form:"date_to"`   // YYYY-MM-DD
	Search   *string `form:"search"`    // matches order code, customer name or phone
	Page     int     `form:"page"`
	PageSize int     `form:"limit"`
}

// OrderStatistics is the read-only rollup over persisted orders.
type OrderStatistics struct {
	TotalOrders    int             `json:"total_orders"`
	TotalRevenue   float64         `json:"total_revenue"`
	OrdersByStatus []StatusCount   `json:"orders_by_status"`
	DailyRevenue   []DailyRevenue  `json:"daily_revenue"`
}

// StatusCount is one row of the grouped-by-status rollup.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// DailyRevenue is one calendar-date bucket of the revenue series.
type DailyRevenue struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Revenue float64 `json:"revenue"`
}

// DashboardStats backs the admin dashboard counters.
type DashboardStats struct {
	Products     int     `json:"products"`
	Categories   int     `json:"categories"`
	Orders       int     `json:"orders"`
	Branches     int     `json:"branches"`
	TodayOrders  int     `json:"todayOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}
