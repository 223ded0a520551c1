package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
)

// PaymentLedgerRepository defines the interface for the append-only payment
// ledger. Rows are never updated; each lifecycle event inserts a new one and
// the highest id per payment key is the current state.
type PaymentLedgerRepository interface {
	FindAllByPaymentKey(ctx context.Context, paymentKey string) ([]models.PaymentLedger, error)
	FindLatestByPaymentKey(ctx context.Context, paymentKey string) (*models.PaymentLedger, error)
	Save(ctx context.Context, ledger *models.PaymentLedger) error
	BulkInsert(ctx context.Context, ledgers []models.PaymentLedger) error
}

// GormPaymentLedgerRepository implements PaymentLedgerRepository using GORM
type GormPaymentLedgerRepository struct {
	db *gorm.DB
}

// NewGormPaymentLedgerRepository creates a new GormPaymentLedgerRepository
func NewGormPaymentLedgerRepository(db *gorm.DB) PaymentLedgerRepository {
	return &GormPaymentLedgerRepository{db: db}
}

// FindAllByPaymentKey retrieves every ledger row for a payment key in event order
func (r *GormPaymentLedgerRepository) FindAllByPaymentKey(ctx context.Context, paymentKey string) ([]models.PaymentLedger, error) {
	var ledgers []models.PaymentLedger

	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentKey).
		Order("id ASC").
		Find(&ledgers).Error; err != nil {
		return nil, err
	}
	if len(ledgers) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return ledgers, nil
}

// FindLatestByPaymentKey retrieves the most recent ledger row for a payment key
func (r *GormPaymentLedgerRepository) FindLatestByPaymentKey(ctx context.Context, paymentKey string) (*models.PaymentLedger, error) {
	var ledger models.PaymentLedger

	if err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentKey).
		Order("id DESC").
		First(&ledger).Error; err != nil {
		return nil, err
	}

	return &ledger, nil
}

// Save appends one ledger row
func (r *GormPaymentLedgerRepository) Save(ctx context.Context, ledger *models.PaymentLedger) error {
	return r.db.WithContext(ctx).Create(ledger).Error
}

// BulkInsert appends ledger rows in one batch, preserving slice order
func (r *GormPaymentLedgerRepository) BulkInsert(ctx context.Context, ledgers []models.PaymentLedger) error {
	if len(ledgers) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(ledgers, 500).Error
}
