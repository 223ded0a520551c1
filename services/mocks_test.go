package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AhnKwangHyuny/faddy-pay-stream/gateway"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
)

// ---- in-memory order repository ----

type memOrderRepo struct {
	orders  map[uuid.UUID]*models.Order
	updates int
}

func newMemOrderRepo(orders ...*models.Order) *memOrderRepo {
	repo := &memOrderRepo{orders: make(map[uuid.UUID]*models.Order)}
	for _, order := range orders {
		repo.orders[order.ID] = order
	}
	return repo
}

func (r *memOrderRepo) FindByID(_ context.Context, orderID uuid.UUID) (*models.Order, error) {
	order, ok := r.orders[orderID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (r *memOrderRepo) FindAll(_ context.Context, page, limit int) ([]models.Order, int64, error) {
	all := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		all = append(all, *order)
	}
	return all, int64(len(all)), nil
}

func (r *memOrderRepo) Save(_ context.Context, order *models.Order) error {
	r.orders[order.ID] = order
	return nil
}

func (r *memOrderRepo) Update(_ context.Context, order *models.Order) error {
	r.orders[order.ID] = order
	r.updates++
	return nil
}

func (r *memOrderRepo) DeleteByID(_ context.Context, orderID uuid.UUID) error {
	delete(r.orders, orderID)
	return nil
}

// ---- in-memory payment ledger repository ----

type memLedgerRepo struct {
	rows []models.PaymentLedger
}

func (r *memLedgerRepo) FindAllByPaymentKey(_ context.Context, paymentKey string) ([]models.PaymentLedger, error) {
	var out []models.PaymentLedger
	for _, row := range r.rows {
		if row.PaymentKey == paymentKey {
			out = append(out, row)
		}
	}
	if len(out) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return out, nil
}

func (r *memLedgerRepo) FindLatestByPaymentKey(_ context.Context, paymentKey string) (*models.PaymentLedger, error) {
	for i := len(r.rows) - 1; i >= 0; i-- {
		if r.rows[i].PaymentKey == paymentKey {
			row := r.rows[i]
			return &row, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memLedgerRepo) Save(_ context.Context, ledger *models.PaymentLedger) error {
	r.rows = append(r.rows, *ledger)
	return nil
}

func (r *memLedgerRepo) BulkInsert(_ context.Context, ledgers []models.PaymentLedger) error {
	r.rows = append(r.rows, ledgers...)
	return nil
}

// ---- in-memory card detail repository ----

type memCardRepo struct {
	saved   map[string]*models.CardPayment
	saveErr error
}

func newMemCardRepo() *memCardRepo {
	return &memCardRepo{saved: make(map[string]*models.CardPayment)}
}

func (r *memCardRepo) Method() models.PaymentMethod { return models.MethodCard }

func (r *memCardRepo) FindByKey(_ context.Context, paymentKey string) (models.TransactionDetail, error) {
	card, ok := r.saved[paymentKey]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return card, nil
}

func (r *memCardRepo) Save(_ context.Context, detail models.TransactionDetail) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	card := detail.(*models.CardPayment)
	if _, exists := r.saved[card.PaymentKey]; !exists {
		r.saved[card.PaymentKey] = card
	}
	return nil
}

// ---- in-memory settlement repository ----

type memSettlementRepo struct {
	rows      []models.PaymentSettlements
	insertErr error
}

func (r *memSettlementRepo) BulkInsert(_ context.Context, settlements []models.PaymentSettlements) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.rows = append(r.rows, settlements...)
	return nil
}

// ---- stub payment gateway ----

type stubGateway struct {
	approval    *gateway.Approval
	approveErr  error
	approveHits int

	cancellation *gateway.Cancellation
	cancelErr    error
	cancelHits   int

	settlements []gateway.Settlement
	settleErr   error
}

func (g *stubGateway) Approve(_ context.Context, req gateway.ApprovalRequest) (*gateway.Approval, error) {
	g.approveHits++
	if g.approveErr != nil {
		return nil, g.approveErr
	}
	return g.approval, nil
}

func (g *stubGateway) IsApproved(status string) bool { return status == "DONE" }

func (g *stubGateway) Cancel(_ context.Context, paymentKey, reason string, amount int) (*gateway.Cancellation, error) {
	g.cancelHits++
	if g.cancelErr != nil {
		return nil, g.cancelErr
	}
	return g.cancellation, nil
}

func (g *stubGateway) QuerySettlements(_ context.Context, query gateway.SettlementQuery) ([]gateway.Settlement, error) {
	if g.settleErr != nil {
		return nil, g.settleErr
	}
	return g.settlements, nil
}

// ---- stub producer ----

type stubProducer struct {
	topics     []string
	messages   [][]byte
	publishErr error
}

func (p *stubProducer) Publish(topic string, message []byte) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.topics = append(p.topics, topic)
	p.messages = append(p.messages, message)
	return nil
}

func (p *stubProducer) Close() error { return nil }

// ---- helpers ----

func testLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}

func paidOrder(t *testing.T, paymentKey string) *models.Order {
	t.Helper()
	order, err := models.NewOrder("홍길동", "010-1234-5678", []models.OrderItem{
		{ItemIdx: 1, ProductID: uuid.New(), ProductName: "hoodie", Price: 3000, Quantity: 1},
		{ItemIdx: 2, ProductID: uuid.New(), ProductName: "cap", Price: 1500, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("failed to build order: %v", err)
	}
	if paymentKey != "" {
		order.FulfillPayment(paymentKey)
	}
	return order
}
