package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bakery_backend/internal/handlers"
	"bakery_backend/internal/models"
	"bakery_backend/internal/services"
	"bakery_backend/pkg/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterCustomValidators()
}

type stubOrderService struct {
	createFn       func(services.CreateOrderRequest) (*models.Order, error)
	getByCodeFn    func(string) (*models.Order, error)
	updateStatusFn func(int64, services.UpdateOrderStatusRequest) (*models.Order, error)
}

func (s *stubOrderService) CreateOrder(req services.CreateOrderRequest) (*models.Order, error) {
	return s.createFn(req)
}

func (s *stubOrderService) GetOrders(models.OrderFilters) ([]models.Order, int, error) {
	return nil, 0, nil
}

func (s *stubOrderService) GetOrderByID(int64) (*models.Order, error) {
	return nil, services.ErrOrderNotFound
}

func (s *stubOrderService) GetOrderByCode(code string) (*models.Order, error) {
	return s.getByCodeFn(code)
}

func (s *stubOrderService) UpdateOrderStatus(id int64, req services.UpdateOrderStatusRequest) (*models.Order, error) {
	return s.updateStatusFn(id, req)
}

func newOrderRouter(svc services.OrderService) *gin.Engine {
	engine := gin.New()
	h := handlers.NewOrderHandler(svc)
	engine.POST("/orders", h.CreateOrder)
	engine.GET("/orders/code/:orderCode", h.GetOrderByCode)
	engine.PUT("/orders/:id/status", h.UpdateOrderStatus)
	return engine
}

func validOrderBody() []byte {
	body := map[string]interface{}{
		"items": []map[string]interface{}{
			{
				"product":  map[string]interface{}{"id": 1, "name": "Bánh mì thịt", "price": 20000},
				"quantity": 2,
			},
		},
		"customerInfo": map[string]interface{}{
			"name":    "Nguyen Van A",
			"phone":   "0901234567",
			"address": "12 Lê Lợi, Quận 1",
		},
		"branch_id":         10,
		"payment_method_id": 3,
		"total_amount":      40000,
	}
	b, _ := json.Marshal(body)
	return b
}

func doRequest(engine *gin.Engine, method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateOrderHandler_Success(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(req services.CreateOrderRequest) (*models.Order, error) {
			return &models.Order{ID: 42, OrderCode: "BM12345678", Status: models.OrderStatusPending, TotalAmount: req.TotalAmount}, nil
		},
	}

	w := doRequest(newOrderRouter(svc), http.MethodPost, "/orders", validOrderBody())
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool         `json:"success"`
		Data    models.Order `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "BM12345678", resp.Data.OrderCode)
	assert.Equal(t, models.OrderStatusPending, resp.Data.Status)
}

func TestCreateOrderHandler_StalePriceMapsTo400(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(services.CreateOrderRequest) (*models.Order, error) {
			return nil, services.ErrPriceChanged
		},
	}

	w := doRequest(newOrderRouter(svc), http.MethodPost, "/orders", validOrderBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestCreateOrderHandler_TotalMismatchMapsTo400(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(services.CreateOrderRequest) (*models.Order, error) {
			return nil, services.ErrTotalMismatch
		},
	}

	w := doRequest(newOrderRouter(svc), http.MethodPost, "/orders", validOrderBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrderHandler_PersistenceFailureMapsTo500(t *testing.T) {
	svc := &stubOrderService{
		createFn: func(services.CreateOrderRequest) (*models.Order, error) {
			return nil, assert.AnError
		},
	}

	w := doRequest(newOrderRouter(svc), http.MethodPost, "/orders", validOrderBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestCreateOrderHandler_InvalidPhoneRejectedByBinding(t *testing.T) {
	called := false
	svc := &stubOrderService{
		createFn: func(services.CreateOrderRequest) (*models.Order, error) {
			called = true
			return nil, nil
		},
	}

	body := validOrderBody()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	payload["customerInfo"].(map[string]interface{})["phone"] = "abc123"
	body, _ = json.Marshal(payload)

	w := doRequest(newOrderRouter(svc), http.MethodPost, "/orders", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called, "service must not be reached on binding failure")
}

func TestGetOrderByCodeHandler_NotFound(t *testing.T) {
	svc := &stubOrderService{
		getByCodeFn: func(string) (*models.Order, error) {
			return nil, services.ErrOrderNotFound
		},
	}

	w := doRequest(newOrderRouter(svc), http.MethodGet, "/orders/code/BM00000000", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateOrderStatusHandler_UnknownLabel(t *testing.T) {
	svc := &stubOrderService{
		updateStatusFn: func(int64, services.UpdateOrderStatusRequest) (*models.Order, error) {
			return nil, services.ErrInvalidOrderStatus
		},
	}

	body, _ := json.Marshal(map[string]string{"status": "shipped"})
	w := doRequest(newOrderRouter(svc), http.MethodPut, "/orders/42/status", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
