package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/AhnKwangHyuny/faddy-pay-stream/errors"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
)

// TransactionDetailRepository stores the method-specific extension record for
// one payment method.
type TransactionDetailRepository interface {
	Method() models.PaymentMethod
	FindByKey(ctx context.Context, paymentKey string) (models.TransactionDetail, error)
	Save(ctx context.Context, detail models.TransactionDetail) error
}

// CardTransactionRepository implements TransactionDetailRepository for card payments
type CardTransactionRepository struct {
	db *gorm.DB
}

// NewCardTransactionRepository creates a new CardTransactionRepository
func NewCardTransactionRepository(db *gorm.DB) TransactionDetailRepository {
	return &CardTransactionRepository{db: db}
}

func (r *CardTransactionRepository) Method() models.PaymentMethod {
	return models.MethodCard
}

// FindByKey retrieves the card detail for a payment key
func (r *CardTransactionRepository) FindByKey(ctx context.Context, paymentKey string) (models.TransactionDetail, error) {
	var card models.CardPayment

	if err := r.db.WithContext(ctx).
		Where("payment_key = ?", paymentKey).
		First(&card).Error; err != nil {
		return nil, err
	}

	return &card, nil
}

// Save persists the card detail. A repeated key is left untouched so a
// replayed approval stays a no-op.
func (r *CardTransactionRepository) Save(ctx context.Context, detail models.TransactionDetail) error {
	card, ok := detail.(*models.CardPayment)
	if !ok {
		return fmt.Errorf("card store received %T", detail)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(card).Error
}

// DetailRegistry maps normalized method names onto their detail stores. It is
// built once at startup from every available store.
type DetailRegistry struct {
	stores map[string]TransactionDetailRepository
}

// NewDetailRegistry builds the registry from the given stores.
func NewDetailRegistry(stores ...TransactionDetailRepository) *DetailRegistry {
	registry := &DetailRegistry{stores: make(map[string]TransactionDetailRepository, len(stores))}
	for _, store := range stores {
		registry.stores[strings.ToLower(string(store.Method()))] = store
	}
	return registry
}

// Resolve returns the store for a payment method. A miss means the deployment
// lacks a store for a method the gateway reports, so it is a configuration
// error rather than a recoverable per-request condition.
func (r *DetailRegistry) Resolve(method models.PaymentMethod) (TransactionDetailRepository, error) {
	store, ok := r.stores[strings.ToLower(string(method))]
	if !ok {
		return nil, apperrors.UnsupportedMethod(fmt.Sprintf("no transaction detail store for method %s", method), nil)
	}
	return store, nil
}
