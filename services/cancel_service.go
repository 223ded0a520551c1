package services

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AhnKwangHyuny/faddy-pay-stream/gateway"
	"github.com/AhnKwangHyuny/faddy-pay-stream/repository"
)

type CancelRequest struct {
	OrderID            uuid.UUID `json:"order_id" binding:"required"`
	ItemIdxs           []int     `json:"item_idxs"`
	CancelReason       string    `json:"cancel_reason" binding:"required"`
	PaymentKey         string    `json:"payment_key" binding:"required"`
	CancellationAmount int       `json:"cancellation_amount" binding:"required,min=1"`
}

// CancelResult reports the outcome of a cancellation attempt. Business
// rejections and gateway failures both surface here rather than as errors so
// the caller always gets a message it can relay.
type CancelResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// keyMutex hands out one mutex per payment key so concurrent cancels of the
// same payment serialize while unrelated payments proceed in parallel.
// Entries are reference counted and removed once the last holder unlocks, so
// the map does not grow with every payment key ever cancelled.
type keyMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newKeyMutex() *keyMutex {
	return &keyMutex{locks: make(map[string]*keyLock)}
}

func (k *keyMutex) lock(key string) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
}

func (k *keyMutex) unlock(key string) {
	k.mu.Lock()
	l := k.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()

	l.Unlock()
}

// CancelService orchestrates full and partial order cancellations.
type CancelService struct {
	pg         gateway.PaymentGateway
	orderRepo  repository.OrderRepository
	ledgerRepo repository.PaymentLedgerRepository
	locks      *keyMutex
	logger     *zap.Logger
}

func NewCancelService(
	pg gateway.PaymentGateway,
	orderRepo repository.OrderRepository,
	ledgerRepo repository.PaymentLedgerRepository,
	logger *zap.Logger,
) *CancelService {
	return &CancelService{
		pg:         pg,
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		locks:      newKeyMutex(),
		logger:     logger,
	}
}

// Cancel validates the request against the order and the current ledger
// state, cancels the payment with the gateway, then records the new ledger
// row and the order-side cancellation. All checks that can fail run before
// the gateway call so a rejected request never reaches the processor.
func (s *CancelService) Cancel(ctx context.Context, req *CancelRequest) CancelResult {
	s.locks.lock(req.PaymentKey)
	defer s.locks.unlock(req.PaymentKey)

	order, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CancelResult{Success: false, Message: "order not found"}
		}
		s.logger.Error("Failed to load order for cancellation", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return CancelResult{Success: false, Message: "failed to load order"}
	}

	if !order.IsCancellable() {
		return CancelResult{Success: false, Message: "order is no longer cancellable"}
	}

	if order.PaymentID != "" && order.PaymentID != req.PaymentKey {
		return CancelResult{Success: false, Message: "payment key does not match order"}
	}

	ledger, err := s.ledgerRepo.FindLatestByPaymentKey(ctx, req.PaymentKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CancelResult{Success: false, Message: "payment not found"}
		}
		s.logger.Error("Failed to load payment ledger", zap.String("payment_key", req.PaymentKey), zap.Error(err))
		return CancelResult{Success: false, Message: "failed to load payment"}
	}

	if !ledger.CanCancel(req.CancellationAmount) {
		return CancelResult{Success: false, Message: "cancellation amount exceeds cancellable balance"}
	}

	cancellation, err := s.pg.Cancel(ctx, req.PaymentKey, req.CancelReason, req.CancellationAmount)
	if err != nil {
		s.logger.Error("Payment cancellation call failed", zap.String("payment_key", req.PaymentKey), zap.Error(err))
		return CancelResult{Success: false, Message: "payment gateway rejected the cancellation"}
	}

	row := cancellation.LedgerRow()
	if err := s.ledgerRepo.Save(ctx, &row); err != nil {
		s.logger.Error("Failed to append cancellation ledger row", zap.String("payment_key", req.PaymentKey), zap.Error(err))
		return CancelResult{Success: false, Message: "failed to record cancellation"}
	}

	if len(req.ItemIdxs) > 0 {
		order.CancelItems(req.ItemIdxs)
	} else {
		order.CancelAll()
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update cancelled order", zap.String("order_id", req.OrderID.String()), zap.Error(err))
		return CancelResult{Success: false, Message: "failed to update order"}
	}

	s.logger.Info("Payment cancelled",
		zap.String("payment_key", req.PaymentKey),
		zap.String("order_id", req.OrderID.String()),
		zap.Int("cancellation_amount", req.CancellationAmount),
		zap.String("payment_status", string(row.Status)),
	)
	return CancelResult{Success: true, Message: "cancellation completed"}
}
