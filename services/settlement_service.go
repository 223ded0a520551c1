package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AhnKwangHyuny/faddy-pay-stream/gateway"
	"github.com/AhnKwangHyuny/faddy-pay-stream/kafka"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
	"github.com/AhnKwangHyuny/faddy-pay-stream/repository"
)

// SettlementsTopic is the message-channel topic carrying settlement batches.
const SettlementsTopic = "settlements"

const (
	settlementWindowStart = -3 * 24 * time.Hour
	settlementWindowEnd   = -1 * 24 * time.Hour
	settlementPageSize    = 5000
)

// SettlementService pulls settled transactions from the payment gateway,
// persists them for reconciliation, and fans the batch out on the
// settlements topic.
type SettlementService struct {
	pg             gateway.PaymentGateway
	settlementRepo repository.SettlementRepository
	ledgerRepo     repository.PaymentLedgerRepository
	producer       kafka.ProducerAPI
	logger         *zap.Logger
}

func NewSettlementService(
	pg gateway.PaymentGateway,
	settlementRepo repository.SettlementRepository,
	ledgerRepo repository.PaymentLedgerRepository,
	producer kafka.ProducerAPI,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		pg:             pg,
		settlementRepo: settlementRepo,
		ledgerRepo:     ledgerRepo,
		producer:       producer,
		logger:         logger,
	}
}

// FetchAndPersistSettlements queries the gateway for transactions settled in
// the trailing window, stores them along with matching ledger rows, and
// publishes the batch. Publishing is best effort; persistence already
// happened by then.
func (s *SettlementService) FetchAndPersistSettlements(ctx context.Context, now time.Time) ([]models.PaymentSettlements, error) {
	query := gateway.SettlementQuery{
		StartDate: now.Add(settlementWindowStart).Format("2006-01-02"),
		EndDate:   now.Add(settlementWindowEnd).Format("2006-01-02"),
		Page:      1,
		Size:      settlementPageSize,
	}

	results, err := s.pg.QuerySettlements(ctx, query)
	if err != nil {
		s.logger.Error("Settlement query failed",
			zap.String("start_date", query.StartDate),
			zap.String("end_date", query.EndDate),
			zap.Error(err),
		)
		return nil, err
	}

	settlements := make([]models.PaymentSettlements, 0, len(results))
	for _, result := range results {
		row, err := result.SettlementRow()
		if err != nil {
			s.logger.Warn("Skipping malformed settlement record",
				zap.String("payment_key", result.PaymentKey),
				zap.Error(err),
			)
			continue
		}
		settlements = append(settlements, row)
	}

	if err := s.settlementRepo.BulkInsert(ctx, settlements); err != nil {
		return nil, err
	}

	ledgers := make([]models.PaymentLedger, 0, len(settlements))
	for i := range settlements {
		ledgers = append(ledgers, settlements[i].ToPaymentLedger())
	}
	if err := s.ledgerRepo.BulkInsert(ctx, ledgers); err != nil {
		return nil, err
	}

	s.logger.Info("Settlement batch persisted",
		zap.String("start_date", query.StartDate),
		zap.String("end_date", query.EndDate),
		zap.Int("count", len(settlements)),
	)

	s.PublishSettlements(settlements)
	return settlements, nil
}

// RepublishSettlements re-reads the trailing window from the gateway and
// publishes it without touching storage, for consumers that missed a batch.
func (s *SettlementService) RepublishSettlements(ctx context.Context, now time.Time) (int, error) {
	query := gateway.SettlementQuery{
		StartDate: now.Add(settlementWindowStart).Format("2006-01-02"),
		EndDate:   now.Add(settlementWindowEnd).Format("2006-01-02"),
		Page:      1,
		Size:      settlementPageSize,
	}

	results, err := s.pg.QuerySettlements(ctx, query)
	if err != nil {
		return 0, err
	}

	settlements := make([]models.PaymentSettlements, 0, len(results))
	for _, result := range results {
		row, err := result.SettlementRow()
		if err != nil {
			s.logger.Warn("Skipping malformed settlement record",
				zap.String("payment_key", result.PaymentKey),
				zap.Error(err),
			)
			continue
		}
		settlements = append(settlements, row)
	}

	if !s.PublishSettlements(settlements) {
		return 0, fmt.Errorf("settlement republish: nothing sent for %s..%s", query.StartDate, query.EndDate)
	}
	return len(settlements), nil
}

// PublishSettlements sends a settlement batch to the settlements topic.
// Returns false when nothing was sent; a send failure is logged, not treated
// as a business failure.
func (s *SettlementService) PublishSettlements(settlements []models.PaymentSettlements) bool {
	if len(settlements) == 0 {
		return false
	}

	event := models.SettlementBatchEvent{
		Settlements: make([]models.SettlementRecord, 0, len(settlements)),
		Timestamp:   time.Now(),
	}
	for _, settlement := range settlements {
		event.Settlements = append(event.Settlements, models.NewSettlementRecord(settlement))
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal settlement batch event", zap.Error(err))
		return false
	}

	if err := s.producer.Publish(SettlementsTopic, payload); err != nil {
		s.logger.Error("Failed to publish settlement batch",
			zap.Int("count", len(settlements)),
			zap.Error(err),
		)
		return false
	}

	s.logger.Info("Settlement batch published", zap.Int("count", len(settlements)))
	return true
}
