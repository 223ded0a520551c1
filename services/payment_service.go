package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/AhnKwangHyuny/faddy-pay-stream/errors"
	"github.com/AhnKwangHyuny/faddy-pay-stream/gateway"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
	"github.com/AhnKwangHyuny/faddy-pay-stream/repository"
)

// ApprovalOutcome is the caller-visible result of an approval attempt.
type ApprovalOutcome string

const (
	ApprovalSuccess ApprovalOutcome = "success"
	ApprovalFail    ApprovalOutcome = "fail"
)

type ApprovePaymentRequest struct {
	PaymentKey string `json:"payment_key" binding:"required"`
	OrderID    string `json:"order_id" binding:"required"`
	Amount     int    `json:"amount" binding:"required,min=1"`
}

// PaymentService approves payments and reads the ledger.
type PaymentService struct {
	pg         gateway.PaymentGateway
	orderRepo  repository.OrderRepository
	ledgerRepo repository.PaymentLedgerRepository
	details    *repository.DetailRegistry
	processed  IdempotencyStore
	logger     *zap.Logger
}

func NewPaymentService(
	pg gateway.PaymentGateway,
	orderRepo repository.OrderRepository,
	ledgerRepo repository.PaymentLedgerRepository,
	details *repository.DetailRegistry,
	processed IdempotencyStore,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		pg:         pg,
		orderRepo:  orderRepo,
		ledgerRepo: ledgerRepo,
		details:    details,
		processed:  processed,
		logger:     logger,
	}
}

// ApprovePayment confirms a payment with the gateway and records the result.
// The operation is idempotent per payment key: a key already processed, or one
// the gateway reports as already processed, returns success without new side
// effects. Unexpected gateway I/O failures propagate; a gateway-reported
// non-approval returns ApprovalFail with nothing persisted.
func (s *PaymentService) ApprovePayment(ctx context.Context, req *ApprovePaymentRequest) (ApprovalOutcome, error) {
	paymentKey := req.PaymentKey

	if s.processed.Seen(ctx, paymentKey) {
		s.logger.Info("Payment already processed, skipping", zap.String("payment_key", paymentKey))
		return ApprovalSuccess, nil
	}

	if err := s.verifyOrderAwaitingPayment(ctx, req.OrderID); err != nil {
		return ApprovalFail, err
	}

	response, err := s.pg.Approve(ctx, gateway.ApprovalRequest{
		PaymentKey: paymentKey,
		OrderID:    req.OrderID,
		Amount:     req.Amount,
	})
	if err != nil {
		if gateway.IsAlreadyProcessed(err) {
			s.logger.Info("Gateway reports payment already processed", zap.String("payment_key", paymentKey))
			s.processed.Mark(ctx, paymentKey)
			return ApprovalSuccess, nil
		}
		s.logger.Error("Payment approval call failed", zap.String("payment_key", paymentKey), zap.Error(err))
		return ApprovalFail, apperrors.GatewayIO("payment approval request failed", err)
	}

	if !s.pg.IsApproved(response.Status) {
		s.logger.Warn("Payment not approved by gateway",
			zap.String("payment_key", paymentKey),
			zap.String("status", response.Status),
		)
		return ApprovalFail, nil
	}

	if err := s.recordApproval(ctx, response); err != nil {
		return ApprovalFail, err
	}

	s.processed.Mark(ctx, paymentKey)
	s.logger.Info("Payment approved",
		zap.String("payment_key", paymentKey),
		zap.String("order_id", response.OrderID),
		zap.Int("total_amount", response.TotalAmount),
	)
	return ApprovalSuccess, nil
}

// recordApproval transitions the order, appends the approval ledger row, and
// persists the method-specific detail.
func (s *PaymentService) recordApproval(ctx context.Context, response *gateway.Approval) error {
	orderID, err := uuid.Parse(response.OrderID)
	if err != nil {
		return apperrors.Validation("gateway returned malformed order id", err)
	}

	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return apperrors.NotFound("order not found for approved payment", err)
	}

	order.FulfillPayment(response.PaymentKey)
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return err
	}

	ledger := response.LedgerRow()
	if err := s.ledgerRepo.Save(ctx, &ledger); err != nil {
		return err
	}

	method := models.MethodFromName(response.Method)
	store, err := s.details.Resolve(method)
	if err != nil {
		return err
	}
	if detail := response.CardDetailRow(); detail != nil {
		if err := store.Save(ctx, detail); err != nil {
			// Detail rows are an extension of the ledger, not part of it; a
			// failed write must not undo an approval the gateway confirmed.
			s.logger.Warn("Failed to save transaction detail",
				zap.String("payment_key", response.PaymentKey),
				zap.String("method", string(method)),
				zap.Error(err),
			)
		}
	}

	return nil
}

// verifyOrderAwaitingPayment checks that the order exists and payment has not
// already been requested for it.
func (s *PaymentService) verifyOrderAwaitingPayment(ctx context.Context, orderID string) error {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return apperrors.Validation("malformed order id", err)
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("order not found", err)
		}
		return err
	}

	if order.Status != models.OrderCompleted {
		return apperrors.Precondition("order is not awaiting payment", nil)
	}
	return nil
}

// GetPaymentHistory returns every ledger row for a payment key in event order.
func (s *PaymentService) GetPaymentHistory(ctx context.Context, paymentKey string) ([]models.PaymentLedger, error) {
	ledgers, err := s.ledgerRepo.FindAllByPaymentKey(ctx, paymentKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("no payment history for key", err)
		}
		return nil, err
	}
	return ledgers, nil
}

// GetLatestPayment returns the current ledger state for a payment key.
func (s *PaymentService) GetLatestPayment(ctx context.Context, paymentKey string) (*models.PaymentLedger, error) {
	ledger, err := s.ledgerRepo.FindLatestByPaymentKey(ctx, paymentKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("payment not found", err)
		}
		return nil, err
	}
	return ledger, nil
}
