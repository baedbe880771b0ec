package services_test

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery_backend/internal/models"
	"bakery_backend/internal/repositories"
	"bakery_backend/internal/services"
)

// --- fakes ---

type fakeProductRepo struct {
	products       map[int64]*models.Product
	categoryCounts map[int64]int
	softDeleted    []int64
}

func (f *fakeProductRepo) GetByID(id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok || !p.IsAvailable {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetByIDAdmin(id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) GetAll(models.ProductFilters) ([]models.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) GetAllAdmin(models.ProductFilters) ([]models.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) Create(repositories.SQLExecutor, *models.Product) (int64, error) {
	return 0, nil
}

func (f *fakeProductRepo) Update(repositories.SQLExecutor, int64, models.ProductUpdate) error {
	return nil
}

func (f *fakeProductRepo) SoftDelete(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.products[id]; !ok {
		return repositories.ErrNotFound
	}
	f.products[id].IsAvailable = false
	f.softDeleted = append(f.softDeleted, id)
	return nil
}

func (f *fakeProductRepo) CountAvailable() (int, error) { return len(f.products), nil }

func (f *fakeProductRepo) CountAvailableByCategory(categoryID int64) (int, error) {
	return f.categoryCounts[categoryID], nil
}

type fakeBranchRepo struct {
	branch *models.Branch
}

func (f *fakeBranchRepo) GetByID(id int64) (*models.Branch, error) {
	if f.branch == nil || f.branch.ID != id || !f.branch.IsActive {
		return nil, repositories.ErrNotFound
	}
	return f.branch, nil
}

func (f *fakeBranchRepo) GetByIDAdmin(id int64) (*models.Branch, error) {
	if f.branch == nil || f.branch.ID != id {
		return nil, repositories.ErrNotFound
	}
	return f.branch, nil
}

func (f *fakeBranchRepo) GetAll() ([]models.Branch, error) { return nil, nil }

func (f *fakeBranchRepo) Create(repositories.SQLExecutor, *models.Branch) (int64, error) {
	return 0, nil
}

func (f *fakeBranchRepo) Update(repositories.SQLExecutor, int64, models.BranchUpdate) error {
	return nil
}

func (f *fakeBranchRepo) SoftDelete(_ repositories.SQLExecutor, id int64) error {
	if f.branch == nil || f.branch.ID != id {
		return repositories.ErrNotFound
	}
	f.branch.IsActive = false
	return nil
}

func (f *fakeBranchRepo) CountActive() (int, error) { return 1, nil }

type fakePaymentMethodRepo struct {
	method *models.PaymentMethod
}

func (f *fakePaymentMethodRepo) GetByID(id int64) (*models.PaymentMethod, error) {
	if f.method == nil || f.method.ID != id || !f.method.IsActive {
		return nil, repositories.ErrNotFound
	}
	return f.method, nil
}

func (f *fakePaymentMethodRepo) GetByIDAdmin(id int64) (*models.PaymentMethod, error) {
	if f.method == nil || f.method.ID != id {
		return nil, repositories.ErrNotFound
	}
	return f.method, nil
}

func (f *fakePaymentMethodRepo) GetByCode(string) (*models.PaymentMethod, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakePaymentMethodRepo) GetAll() ([]models.PaymentMethod, error) { return nil, nil }

func (f *fakePaymentMethodRepo) Create(repositories.SQLExecutor, *models.PaymentMethod) (int64, error) {
	return 0, nil
}

func (f *fakePaymentMethodRepo) Update(repositories.SQLExecutor, int64, models.PaymentMethodUpdate) error {
	return nil
}

func (f *fakePaymentMethodRepo) SoftDelete(_ repositories.SQLExecutor, id int64) error {
	if f.method == nil || f.method.ID != id {
		return repositories.ErrNotFound
	}
	f.method.IsActive = false
	return nil
}

type fakeCustomerRepo struct {
	upsertCalls int
	last        *models.Customer
}

func (f *fakeCustomerRepo) GetByID(int64) (*models.Customer, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeCustomerRepo) GetByPhone(string) (*models.Customer, error) {
	return nil, repositories.ErrNotFound
}

func (f *fakeCustomerRepo) UpsertByPhone(_ repositories.SQLExecutor, c *models.Customer) (int64, error) {
	f.upsertCalls++
	cp := *c
	f.last = &cp
	return 7, nil
}

type fakeOrderRepo struct {
	createCalls      int
	failFirstDup     bool
	created          *models.Order
	items            []models.OrderItem
	status           string
	branchOrderCount int
	pmOrderCount     int
}

func (f *fakeOrderRepo) Create(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	f.createCalls++
	if f.failFirstDup && f.createCalls == 1 {
		return 0, fmt.Errorf("%w: orders_order_code_key", repositories.ErrDuplicateKey)
	}
	cp := *order
	cp.ID = 42
	f.created = &cp
	f.status = cp.Status
	return cp.ID, nil
}

func (f *fakeOrderRepo) GetByID(orderID int64) (*models.Order, error) {
	if f.created == nil || f.created.ID != orderID {
		return nil, repositories.ErrNotFound
	}
	cp := *f.created
	cp.Status = f.status
	return &cp, nil
}

func (f *fakeOrderRepo) GetByCode(code string) (*models.Order, error) {
	if f.created == nil || f.created.OrderCode != code {
		return nil, repositories.ErrNotFound
	}
	cp := *f.created
	cp.Status = f.status
	return &cp, nil
}

func (f *fakeOrderRepo) GetAll(models.OrderFilters) ([]models.Order, int, error) {
	return nil, 0, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ repositories.SQLExecutor, orderID int64, newStatus string, _ time.Time) error {
	if f.created == nil || f.created.ID != orderID {
		return repositories.ErrNotFound
	}
	f.status = newStatus
	return nil
}

func (f *fakeOrderRepo) CreateItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	cp := *item
	cp.ID = int64(len(f.items) + 1)
	f.items = append(f.items, cp)
	return cp.ID, nil
}

func (f *fakeOrderRepo) GetItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	var out []models.OrderItem
	for _, it := range f.items {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) Statistics(_, _ *string) (*models.OrderStatistics, error) {
	return &models.OrderStatistics{}, nil
}

func (f *fakeOrderRepo) Count() (int, error) { return 0, nil }

func (f *fakeOrderRepo) TodayCount() (int, error) { return 0, nil }

func (f *fakeOrderRepo) TotalRevenue() (float64, error) { return 0, nil }

func (f *fakeOrderRepo) CountByBranch(int64) (int, error) { return f.branchOrderCount, nil }

func (f *fakeOrderRepo) CountByPaymentMethod(int64) (int, error) { return f.pmOrderCount, nil }

// --- fixtures ---

type orderServiceFixture struct {
	svc       services.OrderService
	orders    *fakeOrderRepo
	customers *fakeCustomerRepo
	mock      sqlmock.Sqlmock
}

func newOrderServiceFixture(t *testing.T) *orderServiceFixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	products := &fakeProductRepo{products: map[int64]*models.Product{
		1: {ID: 1, Name: "Bánh mì thịt", Price: 20000, CategoryID: 1, IsAvailable: true},
		2: {ID: 2, Name: "Bánh mì gà", Price: 25000, CategoryID: 1, IsAvailable: true},
		3: {ID: 3, Name: "Bánh mì chảo", Price: 45000, CategoryID: 1, IsAvailable: false},
	}}
	branches := &fakeBranchRepo{branch: &models.Branch{ID: 10, Name: "Quận 1", IsActive: true}}
	methods := &fakePaymentMethodRepo{method: &models.PaymentMethod{ID: 3, Name: "Cash on delivery", Code: "cod", IsActive: true}}
	customers := &fakeCustomerRepo{}
	orders := &fakeOrderRepo{}

	svc := services.NewOrderService(orders, products, branches, methods, customers, db)
	return &orderServiceFixture{svc: svc, orders: orders, customers: customers, mock: mock}
}

func validOrderRequest() services.CreateOrderRequest {
	return services.CreateOrderRequest{
		Items: []services.CreateOrderItemRequest{
			{Product: services.ProductRef{ID: 1, Name: "Bánh mì thịt", Price: 20000}, Quantity: 2},
		},
		CustomerInfo: services.CustomerInfoRequest{
			Name:    "Nguyen Van A",
			Phone:   "0901234567",
			Address: "12 Lê Lợi, Quận 1",
		},
		BranchID:        10,
		PaymentMethodID: 3,
		TotalAmount:     40000,
	}
}

// --- tests ---

func TestCreateOrder_Success(t *testing.T) {
	fx := newOrderServiceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	order, err := fx.svc.CreateOrder(validOrderRequest())
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Regexp(t, regexp.MustCompile(`^BM\d{8}$`), order.OrderCode)
	assert.InDelta(t, 40000, order.TotalAmount, 0.001)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Bánh mì thịt", order.Items[0].ProductName)
	assert.InDelta(t, 20000, order.Items[0].ProductPrice, 0.001)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.InDelta(t, 40000, order.Items[0].Subtotal, 0.001)

	// Customer resolved exactly once, with the submitted contact details.
	assert.Equal(t, 1, fx.customers.upsertCalls)
	assert.Equal(t, "Nguyen Van A", fx.customers.last.Name)
	assert.Equal(t, "0901234567", fx.customers.last.Phone)

	// Snapshot fields on the order row itself.
	assert.Equal(t, "Nguyen Van A", order.CustomerName)
	assert.Equal(t, "12 Lê Lợi, Quận 1", order.DeliveryAddress)

	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestCreateOrder_TotalWithinTolerance(t *testing.T) {
	fx := newOrderServiceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	req := validOrderRequest()
	req.TotalAmount = 40000.009

	order, err := fx.svc.CreateOrder(req)
	require.NoError(t, err)
	// The server-computed total wins over the submitted one.
	assert.InDelta(t, 40000, order.TotalAmount, 0.001)
}

func TestCreateOrder_StalePrice(t *testing.T) {
	fx := newOrderServiceFixture(t)

	req := validOrderRequest()
	req.Items[0].Product.Price = 18000
	req.TotalAmount = 36000

	_, err := fx.svc.CreateOrder(req)
	require.ErrorIs(t, err, services.ErrPriceChanged)

	// Nothing was written: no transaction, no customer, no order.
	assert.Equal(t, 0, fx.customers.upsertCalls)
	assert.Equal(t, 0, fx.orders.createCalls)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestCreateOrder_TotalMismatch(t *testing.T) {
	fx := newOrderServiceFixture(t)

	req := validOrderRequest()
	req.TotalAmount = 39000

	_, err := fx.svc.CreateOrder(req)
	require.ErrorIs(t, err, services.ErrTotalMismatch)
	assert.Equal(t, 0, fx.orders.createCalls)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	fx := newOrderServiceFixture(t)

	req := validOrderRequest()
	req.Items[0].Product.ID = 999

	_, err := fx.svc.CreateOrder(req)
	require.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCreateOrder_UnavailableProduct(t *testing.T) {
	fx := newOrderServiceFixture(t)

	req := validOrderRequest()
	req.Items[0].Product = services.ProductRef{ID: 3, Name: "Bánh mì chảo", Price: 45000}
	req.TotalAmount = 90000

	_, err := fx.svc.CreateOrder(req)
	require.ErrorIs(t, err, services.ErrProductNotFound)
}

func TestCreateOrder_InactiveBranch(t *testing.T) {
	fx := newOrderServiceFixture(t)

	req := validOrderRequest()
	req.BranchID = 99

	_, err := fx.svc.CreateOrder(req)
	require.ErrorIs(t, err, services.ErrBranchNotFound)
}

func TestCreateOrder_InactivePaymentMethod(t *testing.T) {
	fx := newOrderServiceFixture(t)

	req := validOrderRequest()
	req.PaymentMethodID = 99

	_, err := fx.svc.CreateOrder(req)
	require.ErrorIs(t, err, services.ErrPaymentMethodNotFound)
}

func TestCreateOrder_RetriesOnDuplicateCode(t *testing.T) {
	fx := newOrderServiceFixture(t)
	fx.orders.failFirstDup = true

	// First attempt rolls back on the duplicate code, second commits.
	fx.mock.ExpectBegin()
	fx.mock.ExpectRollback()
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	order, err := fx.svc.CreateOrder(validOrderRequest())
	require.NoError(t, err)

	assert.Equal(t, 2, fx.orders.createCalls)
	assert.Regexp(t, regexp.MustCompile(`^BM\d{8}$`), order.OrderCode)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestUpdateOrderStatus_AnyDirectionAllowed(t *testing.T) {
	fx := newOrderServiceFixture(t)
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()

	order, err := fx.svc.CreateOrder(validOrderRequest())
	require.NoError(t, err)

	// Forward.
	updated, err := fx.svc.UpdateOrderStatus(order.ID, services.UpdateOrderStatusRequest{Status: models.OrderStatusCompleted})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, updated.Status)

	// And straight back: there is no transition graph.
	updated, err = fx.svc.UpdateOrderStatus(order.ID, services.UpdateOrderStatusRequest{Status: models.OrderStatusPending})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, updated.Status)
}

func TestUpdateOrderStatus_UnknownLabelRejected(t *testing.T) {
	fx := newOrderServiceFixture(t)

	_, err := fx.svc.UpdateOrderStatus(42, services.UpdateOrderStatusRequest{Status: "shipped"})
	require.ErrorIs(t, err, services.ErrInvalidOrderStatus)
}

func TestUpdateOrderStatus_OrderNotFound(t *testing.T) {
	fx := newOrderServiceFixture(t)

	_, err := fx.svc.UpdateOrderStatus(12345, services.UpdateOrderStatusRequest{Status: models.OrderStatusConfirmed})
	require.ErrorIs(t, err, services.ErrOrderNotFound)
}

func TestGetOrderByCode_NotFound(t *testing.T) {
	fx := newOrderServiceFixture(t)

	_, err := fx.svc.GetOrderByCode("BM00000000")
	require.ErrorIs(t, err, services.ErrOrderNotFound)
}
