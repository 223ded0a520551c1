package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/AhnKwangHyuny/faddy-pay-stream/errors"
	"github.com/AhnKwangHyuny/faddy-pay-stream/middleware"
	"github.com/AhnKwangHyuny/faddy-pay-stream/services"
)

// respondError maps application errors to their HTTP status; anything
// unclassified is a 500.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

// CreateOrder places a new order in the awaiting-payment state
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[CreateOrder] Invalid payload: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	order, err := oc.Orders.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		log.Printf("❌ [CreateOrder] Failed to create order for user=%s: %v", userID, err)
		respondError(c, err)
		return
	}

	log.Printf("✅ [CreateOrder] order_id=%s user=%s total=%d", order.ID, userID, order.TotalPrice)
	c.JSON(http.StatusCreated, order)
}

// GetOrder returns one order with its items
func (oc *OrderController) GetOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := oc.Orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		log.Printf("⚠️ [GetOrder] order_id=%s: %v", orderID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// ListOrders returns a paginated order listing
func (oc *OrderController) ListOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	resp, err := oc.Orders.GetOrders(c.Request.Context(), page, limit)
	if err != nil {
		log.Printf("❌ [ListOrders] Failed to list orders: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
