package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AhnKwangHyuny/faddy-pay-stream/controllers"
	"github.com/AhnKwangHyuny/faddy-pay-stream/middleware"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
	"github.com/AhnKwangHyuny/faddy-pay-stream/services"
)

// ---- concrete mock implementing repository.OrderRepository ----

type mockOrderRepo struct {
	orders map[uuid.UUID]*models.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) FindAll(_ context.Context, page, limit int) ([]models.Order, int64, error) {
	var all []models.Order
	for _, order := range m.orders {
		all = append(all, *order)
	}
	return all, int64(len(all)), nil
}

func (m *mockOrderRepo) Save(_ context.Context, order *models.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) Update(_ context.Context, order *models.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepo) DeleteByID(_ context.Context, orderID uuid.UUID) error {
	delete(m.orders, orderID)
	return nil
}

// ---- helpers ----

func setupRouter(repo *mockOrderRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	svc := services.NewOrderService(repo, zap.NewNop())
	oc := controllers.NewOrderController(svc)

	orders := r.Group("/orders")
	orders.Use(middleware.AuthMiddleware())
	orders.POST("", oc.CreateOrder)
	orders.GET("/:order_id", oc.GetOrder)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}, userID string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestCreateOrder_Created(t *testing.T) {
	repo := newMockOrderRepo()
	r := setupRouter(repo)

	w := doJSON(r, http.MethodPost, "/orders", services.CreateOrderRequest{
		Name:        "홍길동",
		PhoneNumber: "010-1234-5678",
		Items: []services.PurchaseOrderItem{
			{ItemIdx: 1, ProductID: uuid.New(), ProductName: "hoodie", Price: 10000, Quantity: 2},
		},
	}, "user-1")

	assert.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	assert.Equal(t, 20000, order.TotalPrice)
	assert.Contains(t, repo.orders, order.ID)
}

func TestCreateOrder_EmptyItemsRejected(t *testing.T) {
	r := setupRouter(newMockOrderRepo())

	w := doJSON(r, http.MethodPost, "/orders", services.CreateOrderRequest{Name: "홍길동"}, "user-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrder_Unauthorized(t *testing.T) {
	r := setupRouter(newMockOrderRepo())

	w := doJSON(r, http.MethodPost, "/orders", services.CreateOrderRequest{Name: "홍길동"}, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	r := setupRouter(newMockOrderRepo())

	w := doJSON(r, http.MethodGet, "/orders/"+uuid.NewString(), nil, "user-1")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOrder_BadID(t *testing.T) {
	r := setupRouter(newMockOrderRepo())

	w := doJSON(r, http.MethodGet, "/orders/not-a-uuid", nil, "user-1")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInternalOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/internal/ping", middleware.InternalOnly("s3cret"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	req := httptest.NewRequest(http.MethodPost, "/internal/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/internal/ping", nil)
	req.Header.Set("X-Internal-Token", "s3cret")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
