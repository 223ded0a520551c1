package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/AhnKwangHyuny/faddy-pay-stream/errors"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
	"github.com/AhnKwangHyuny/faddy-pay-stream/repository"
)

// PurchaseOrderItem is one requested line item.
type PurchaseOrderItem struct {
	ItemIdx     int       `json:"item_idx" binding:"required,min=1"`
	ProductID   uuid.UUID `json:"product_id" binding:"required"`
	ProductName string    `json:"product_name"`
	Price       int       `json:"price" binding:"required,min=0"`
	Quantity    int       `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	Name        string              `json:"name" binding:"required"`
	PhoneNumber string              `json:"phone_number"`
	Items       []PurchaseOrderItem `json:"items" binding:"dive"`
}

type OrderListResponse struct {
	Orders []models.Order `json:"orders"`
	Meta   MetaData       `json:"meta"`
}

type MetaData struct {
	Page        int   `json:"page"`
	Limit       int   `json:"limit"`
	TotalOrders int64 `json:"total_orders"`
	TotalPages  int64 `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

// OrderService creates and reads purchase orders.
type OrderService struct {
	orderRepo repository.OrderRepository
	logger    *zap.Logger
}

func NewOrderService(orderRepo repository.OrderRepository, logger *zap.Logger) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// CreateOrder validates the request and persists a new order in ORDER_COMPLETED.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ItemIdx:     item.ItemIdx,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
		})
	}

	order, err := models.NewOrder(req.Name, req.PhoneNumber, items)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		s.logger.Error("Failed to save order", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.Int("total_price", order.TotalPrice),
		zap.Int("items", len(order.Items)),
	)
	return order, nil
}

// GetOrder retrieves one order with its items.
func (s *OrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order not found", err)
		}
		s.logger.Error("Failed to fetch order", zap.String("order_id", orderID.String()), zap.Error(err))
		return nil, err
	}
	return order, nil
}

// GetOrders retrieves paginated orders.
func (s *OrderService) GetOrders(ctx context.Context, page, limit int) (*OrderListResponse, error) {
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to fetch orders", zap.Error(err))
		return nil, err
	}

	return &OrderListResponse{
		Orders: orders,
		Meta: MetaData{
			Page:        page,
			Limit:       limit,
			TotalOrders: total,
			TotalPages:  calculateTotalPages(total, limit),
			HasMore:     total > int64(page*limit),
		},
	}, nil
}

func calculateTotalPages(total int64, limit int) int64 {
	if limit == 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}
