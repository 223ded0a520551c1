package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	apperrors "github.com/AhnKwangHyuny/faddy-pay-stream/errors"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
	"github.com/AhnKwangHyuny/faddy-pay-stream/repository"
)

// ---- concrete mock implementing repository.TransactionDetailRepository ----

type stubDetailStore struct {
	method models.PaymentMethod
}

func (s *stubDetailStore) Method() models.PaymentMethod { return s.method }

func (s *stubDetailStore) FindByKey(_ context.Context, paymentKey string) (models.TransactionDetail, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubDetailStore) Save(_ context.Context, detail models.TransactionDetail) error {
	return nil
}

func TestDetailRegistryResolve(t *testing.T) {
	store := &stubDetailStore{method: models.MethodCard}
	registry := repository.NewDetailRegistry(store)

	got, err := registry.Resolve(models.MethodCard)
	assert.NoError(t, err)
	assert.Same(t, store, got)
}

func TestDetailRegistryResolve_CaseInsensitive(t *testing.T) {
	store := &stubDetailStore{method: models.MethodCard}
	registry := repository.NewDetailRegistry(store)

	// registration keys and lookups both normalize to lower case
	got, err := registry.Resolve(models.PaymentMethod("card"))
	assert.NoError(t, err)
	assert.Same(t, store, got)

	got, err = registry.Resolve(models.PaymentMethod("Card"))
	assert.NoError(t, err)
	assert.Same(t, store, got)
}

func TestDetailRegistryResolve_UnregisteredMethod(t *testing.T) {
	registry := repository.NewDetailRegistry()

	_, err := registry.Resolve(models.MethodCard)

	assert.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindUnsupportedMethod))
}
