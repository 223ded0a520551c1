package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
)

// SettlementRepository stores settlement batch rows.
type SettlementRepository interface {
	BulkInsert(ctx context.Context, settlements []models.PaymentSettlements) error
}

// GormSettlementRepository implements SettlementRepository using GORM
type GormSettlementRepository struct {
	db *gorm.DB
}

// NewGormSettlementRepository creates a new GormSettlementRepository
func NewGormSettlementRepository(db *gorm.DB) SettlementRepository {
	return &GormSettlementRepository{db: db}
}

// BulkInsert persists a settlement batch. Rows already present for the same
// (payment_key, sold_date) are skipped, keeping duplicate batch delivery
// idempotent.
func (r *GormSettlementRepository) BulkInsert(ctx context.Context, settlements []models.PaymentSettlements) error {
	if len(settlements) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}, {Name: "sold_date"}},
			DoNothing: true,
		}).
		CreateInBatches(settlements, 500).Error
}
