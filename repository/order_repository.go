package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error)
	Save(ctx context.Context, order *models.Order) error
	Update(ctx context.Context, order *models.Order) error
	DeleteByID(ctx context.Context, orderID uuid.UUID) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID retrieves an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	var order models.Order

	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_id = ?", orderID).
		First(&order).Error; err != nil {
		return nil, err
	}

	return &order, nil
}

// FindAll retrieves all orders with pagination
func (r *GormOrderRepository) FindAll(ctx context.Context, page, limit int) ([]models.Order, int64, error) {
	var orders []models.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Order{})

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := query.
		Preload("Items").
		Offset(offset).
		Limit(limit).
		Order("ordered_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// Save creates a new order together with its items
func (r *GormOrderRepository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// Update persists the order and item state transitions
func (r *GormOrderRepository) Update(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}

// DeleteByID removes an order; items cascade with it
func (r *GormOrderRepository) DeleteByID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.Order{}).Error
}
