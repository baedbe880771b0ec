package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bakery_backend/internal/models"

	"github.com/lib/pq"
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	Create(executor SQLExecutor, order *models.Order) (int64, error)
	GetByID(orderID int64) (*models.Order, error)
	GetByCode(orderCode string) (*models.Order, error)
	GetAll(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	UpdateStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error

	// OrderItem methods
	CreateItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetItemsByOrderID(orderID int64) ([]models.OrderItem, error)

	// Aggregations
	Statistics(dateFrom, dateTo *string) (*models.OrderStatistics, error)
	Count() (int, error)
	TodayCount() (int, error)
	TotalRevenue() (float64, error)
	CountByBranch(branchID int64) (int, error)
	CountByPaymentMethod(paymentMethodID int64) (int, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

func (r *orderRepository) Create(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (order_code, customer_id, branch_id, payment_method_id, total_amount, status,
	             customer_name, customer_phone, customer_email, delivery_address, notes,
	             created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		order.OrderCode, order.CustomerID, order.BranchID, order.PaymentMethodID,
		order.TotalAmount, order.Status,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.DeliveryAddress,
		order.Notes, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
			if pqErr.Code == "23503" {
				return 0, fmt.Errorf("%w: creating order (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
			}
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

const orderSelectColumns = `
	o.id, o.order_code, o.customer_id, o.branch_id, o.payment_method_id,
	o.total_amount, o.status, o.customer_name, o.customer_phone, o.customer_email,
	o.delivery_address, o.notes, o.created_at, o.updated_at,
	b.name AS branch_name, b.address AS branch_address, b.phone AS branch_phone,
	pm.name AS payment_method_name, pm.code AS payment_method_code`

func (r *orderRepository) scanOrder(row *sql.Row) (*models.Order, error) {
	o := &models.Order{}
	var branchName, branchAddress, branchPhone, pmName, pmCode sql.NullString
	err := row.Scan(
		&o.ID, &o.OrderCode, &o.CustomerID, &o.BranchID, &o.PaymentMethodID,
		&o.TotalAmount, &o.Status, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
		&branchName, &branchAddress, &branchPhone, &pmName, &pmCode,
	)
	if err != nil {
		return nil, err
	}
	if branchName.Valid {
		s := branchName.String
		o.BranchName = &s
	}
	if branchAddress.Valid {
		s := branchAddress.String
		o.BranchAddress = &s
	}
	if branchPhone.Valid {
		s := branchPhone.String
		o.BranchPhone = &s
	}
	if pmName.Valid {
		s := pmName.String
		o.PaymentMethodName = &s
	}
	if pmCode.Valid {
		s := pmCode.String
		o.PaymentMethodCode = &s
	}
	return o, nil
}

func (r *orderRepository) GetByID(orderID int64) (*models.Order, error) {
	query := `SELECT ` + orderSelectColumns + `
	          FROM orders o
	          LEFT JOIN branches b ON o.branch_id = b.id
	          LEFT JOIN payment_methods pm ON o.payment_method_id = pm.id
	          WHERE o.id = $1`
	order, err := r.scanOrder(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetByCode(orderCode string) (*models.Order, error) {
	query := `SELECT ` + orderSelectColumns + `
	          FROM orders o
	          LEFT JOIN branches b ON o.branch_id = b.id
	          LEFT JOIN payment_methods pm ON o.payment_method_id = pm.id
	          WHERE o.order_code = $1`
	order, err := r.scanOrder(r.db.QueryRow(query, orderCode))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by code %s: %v", ErrDatabaseError, orderCode, err)
	}
	return order, nil
}

func (r *orderRepository) GetAll(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderSelectColumns + `,
            COUNT(*) OVER() AS total_count
        FROM orders o
        LEFT JOIN branches b ON o.branch_id = b.id
        LEFT JOIN payment_methods pm ON o.payment_method_id = pm.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.BranchID != nil {
		conditions = append(conditions, fmt.Sprintf("o.branch_id = $%d", argCounter))
		args = append(args, *filters.BranchID)
		argCounter++
	}
	if filters.DateFrom != nil && *filters.DateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("DATE(o.created_at) >= $%d", argCounter))
		args = append(args, *filters.DateFrom)
		argCounter++
	}
	if filters.DateTo != nil && *filters.DateTo != "" {
		conditions = append(conditions, fmt.Sprintf("DATE(o.created_at) <= $%d", argCounter))
		args = append(args, *filters.DateTo)
		argCounter++
	}
	if filters.Search != nil && *filters.Search != "" {
		pattern := "%" + *filters.Search + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(o.order_code ILIKE $%d OR o.customer_name ILIKE $%d OR o.customer_phone ILIKE $%d)",
			argCounter, argCounter, argCounter))
		args = append(args, pattern)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		var branchName, branchAddress, branchPhone, pmName, pmCode sql.NullString
		err := rows.Scan(
			&o.ID, &o.OrderCode, &o.CustomerID, &o.BranchID, &o.PaymentMethodID,
			&o.TotalAmount, &o.Status, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
			&o.DeliveryAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
			&branchName, &branchAddress, &branchPhone, &pmName, &pmCode,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		if branchName.Valid {
			s := branchName.String
			o.BranchName = &s
		}
		if branchAddress.Valid {
			s := branchAddress.String
			o.BranchAddress = &s
		}
		if branchPhone.Valid {
			s := branchPhone.String
			o.BranchPhone = &s
		}
		if pmName.Valid {
			s := pmName.String
			o.PaymentMethodName = &s
		}
		if pmCode.Valid {
			s := pmCode.String
			o.PaymentMethodCode = &s
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) UpdateStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items
	            (order_id, product_id, product_name, product_price, quantity, subtotal, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		item.OrderID, item.ProductID, item.ProductName, item.ProductPrice,
		item.Quantity, item.Subtotal, item.CreatedAt,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `
		SELECT oi.id, oi.order_id, oi.product_id, oi.product_name, oi.product_price,
		       oi.quantity, oi.subtotal, oi.created_at, p.image_url AS product_image
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var productImage sql.NullString
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.ProductPrice,
			&item.Quantity, &item.Subtotal, &item.CreatedAt, &productImage,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		if productImage.Valid {
			s := productImage.String
			item.ProductImage = &s
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

// --- Aggregations ---

// Statistics recomputes the order rollups on demand; no caching layer.
func (r *orderRepository) Statistics(dateFrom, dateTo *string) (*models.OrderStatistics, error) {
	var conditions []string
	var args []interface{}
	argCounter := 1

	if dateFrom != nil && *dateFrom != "" {
		conditions = append(conditions, fmt.Sprintf("DATE(created_at) >= $%d", argCounter))
		args = append(args, *dateFrom)
		argCounter++
	}
	if dateTo != nil && *dateTo != "" {
		conditions = append(conditions, fmt.Sprintf("DATE(created_at) <= $%d", argCounter))
		args = append(args, *dateTo)
		argCounter++
	}

	dateCondition := ""
	if len(conditions) > 0 {
		dateCondition = " AND " + strings.Join(conditions, " AND ")
	}

	stats := &models.OrderStatistics{
		OrdersByStatus: []models.StatusCount{},
		DailyRevenue:   []models.DailyRevenue{},
	}

	countQuery := `SELECT COUNT(*) FROM orders WHERE 1=1` + dateCondition
	if err := r.db.QueryRow(countQuery, args...).Scan(&stats.TotalOrders); err != nil {
		return nil, fmt.Errorf("%w: counting orders for statistics: %v", ErrDatabaseError, err)
	}

	var revenue sql.NullFloat64
	revenueQuery := `SELECT SUM(total_amount) FROM orders WHERE status != 'cancelled'` + dateCondition
	if err := r.db.QueryRow(revenueQuery, args...).Scan(&revenue); err != nil {
		return nil, fmt.Errorf("%w: summing revenue for statistics: %v", ErrDatabaseError, err)
	}
	if revenue.Valid {
		stats.TotalRevenue = revenue.Float64
	}

	statusQuery := `SELECT status, COUNT(*) FROM orders WHERE 1=1` + dateCondition + ` GROUP BY status`
	statusRows, err := r.db.Query(statusQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: grouping orders by status: %v", ErrDatabaseError, err)
	}
	defer statusRows.Close()
	for statusRows.Next() {
		var sc models.StatusCount
		if err := statusRows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, fmt.Errorf("%w: scanning status count: %v", ErrDatabaseError, err)
		}
		stats.OrdersByStatus = append(stats.OrdersByStatus, sc)
	}
	if err = statusRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating status counts: %v", ErrDatabaseError, err)
	}

	dailyQuery := `SELECT DATE(created_at) AS date, SUM(total_amount) AS revenue
	               FROM orders WHERE status != 'cancelled'` + dateCondition + `
	               GROUP BY DATE(created_at) ORDER BY date DESC LIMIT 7`
	dailyRows, err := r.db.Query(dailyQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying daily revenue: %v", ErrDatabaseError, err)
	}
	defer dailyRows.Close()
	for dailyRows.Next() {
		var dr models.DailyRevenue
		var day time.Time
		if err := dailyRows.Scan(&day, &dr.Revenue); err != nil {
			return nil, fmt.Errorf("%w: scanning daily revenue: %v", ErrDatabaseError, err)
		}
		dr.Date = day.Format("2006-01-02")
		stats.DailyRevenue = append(stats.DailyRevenue, dr)
	}
	if err = dailyRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating daily revenue rows: %v", ErrDatabaseError, err)
	}

	return stats, nil
}

func (r *orderRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting orders: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *orderRepository) TodayCount() (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders WHERE DATE(created_at) = CURRENT_DATE`
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting today's orders: %v", ErrDatabaseError, err)
	}
	return count, nil
}

func (r *orderRepository) TotalRevenue() (float64, error) {
	var revenue sql.NullFloat64
	query := `SELECT SUM(total_amount) FROM orders WHERE status != 'cancelled'`
	if err := r.db.QueryRow(query).Scan(&revenue); err != nil {
		return 0, fmt.Errorf("%w: summing total revenue: %v", ErrDatabaseError, err)
	}
	if !revenue.Valid {
		return 0, nil
	}
	return revenue.Float64, nil
}

func (r *orderRepository) CountByBranch(branchID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders WHERE branch_id = $1`
	if err := r.db.QueryRow(query, branchID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting orders for branch %d: %v", ErrDatabaseError, branchID, err)
	}
	return count, nil
}

func (r *orderRepository) CountByPaymentMethod(paymentMethodID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM orders WHERE payment_method_id = $1`
	if err := r.db.QueryRow(query, paymentMethodID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting orders for payment method %d: %v", ErrDatabaseError, paymentMethodID, err)
	}
	return count, nil
}
