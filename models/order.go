package models

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/AhnKwangHyuny/faddy-pay-stream/errors"
)

// OrderStatus is the lifecycle state shared by an order and its items.
type OrderStatus string

const (
	OrderCompleted    OrderStatus = "ORDER_COMPLETED"  // ordered, payment not yet requested
	OrderCancelled    OrderStatus = "ORDER_CANCELLED"
	PaymentFullfill   OrderStatus = "PAYMENT_FULLFILL" // payment approved, order confirmed
	ShippingPrepare   OrderStatus = "SHIPPING_PREPARE"
	Shipping          OrderStatus = "SHIPPING"
	ShippingCompleted OrderStatus = "SHIPPING_COMPLETED"
	PurchaseDecision  OrderStatus = "PURCHASE_DECISION"
)

type Order struct {
	ID          uuid.UUID   `gorm:"type:uuid;column:order_id;primaryKey" json:"order_id"`
	Name        string      `gorm:"not null" json:"name"`
	PhoneNumber string      `gorm:"column:phone_number" json:"phone_number"`
	PaymentID   string      `gorm:"column:payment_id;index" json:"payment_id"`
	TotalPrice  int         `gorm:"column:total_price;not null" json:"total_price"`
	Status      OrderStatus `gorm:"column:order_state;type:varchar(32);not null" json:"status"`
	OrderedAt   time.Time   `gorm:"autoCreateTime" json:"ordered_at"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
	Items       []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string { return "purchase_order" }

type OrderItem struct {
	ID          uint        `gorm:"primaryKey" json:"-"`
	OrderID     uuid.UUID   `gorm:"type:uuid;column:order_id;not null;index" json:"-"`
	ItemIdx     int         `gorm:"column:item_idx;not null" json:"item_idx"`
	ProductID   uuid.UUID   `gorm:"type:uuid;column:product_id;not null" json:"product_id"`
	ProductName string      `gorm:"column:product_name" json:"product_name"`
	Price       int         `gorm:"column:product_price;not null" json:"price"`
	Quantity    int         `gorm:"not null" json:"quantity"`
	Amount      int         `json:"amount"`
	Size        string      `gorm:"column:product_size;default:FREE" json:"size"`
	Status      OrderStatus `gorm:"column:order_state;type:varchar(32);not null" json:"status"`
}

func (OrderItem) TableName() string { return "order_items" }

// CalculateAmount computes and records price x quantity for the item.
func (i *OrderItem) CalculateAmount() int {
	i.Amount = i.Price * i.Quantity
	return i.Amount
}

// NewOrder creates an order in ORDER_COMPLETED with its total price computed.
// The order must contain at least one item and product ids must be distinct.
func NewOrder(name, phoneNumber string, items []OrderItem) (*Order, error) {
	if len(items) == 0 {
		return nil, apperrors.Validation("order must contain at least one item", nil)
	}

	seen := make(map[uuid.UUID]bool, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			return nil, apperrors.Validation("duplicate product id in order items", nil)
		}
		seen[item.ProductID] = true
	}

	order := &Order{
		ID:          uuid.New(),
		Name:        name,
		PhoneNumber: phoneNumber,
		Status:      OrderCompleted,
		Items:       items,
	}
	for idx := range order.Items {
		order.Items[idx].OrderID = order.ID
		order.Items[idx].Status = OrderCompleted
		if order.Items[idx].Size == "" {
			order.Items[idx].Size = "FREE"
		}
	}
	order.CalculateTotalPrice()

	return order, nil
}

// CalculateTotalPrice recomputes the order total as the sum of item amounts.
func (o *Order) CalculateTotalPrice() int {
	total := 0
	for idx := range o.Items {
		total += o.Items[idx].CalculateAmount()
	}
	o.TotalPrice = total
	return total
}

// FulfillPayment transitions the order and every item to PAYMENT_FULLFILL and
// records the payment key. Double-fulfillment is guarded upstream by the
// payment service idempotency store, not here.
func (o *Order) FulfillPayment(paymentKey string) {
	o.update(PaymentFullfill)
	o.PaymentID = paymentKey
}

// CancelAll transitions the order and every item to ORDER_CANCELLED.
func (o *Order) CancelAll() {
	o.update(OrderCancelled)
}

// CancelItems cancels only the items with the given indexes. The order-level
// status is left unchanged.
func (o *Order) CancelItems(itemIdxs []int) {
	for _, itemIdx := range itemIdxs {
		for idx := range o.Items {
			if o.Items[idx].ItemIdx == itemIdx {
				o.Items[idx].Status = OrderCancelled
			}
		}
	}
}

// IsCancellable reports whether the order may still be cancelled. Only a
// finalized purchase decision blocks cancellation.
func (o *Order) IsCancellable() bool {
	return o.Status != PurchaseDecision
}

func (o *Order) update(status OrderStatus) {
	o.Status = status
	for idx := range o.Items {
		o.Items[idx].Status = status
	}
}
