package models

import (
	"strings"
	"time"
)

// PaymentStatus is the state of a single payment-lifecycle event.
type PaymentStatus string

const (
	PaymentDone            PaymentStatus = "DONE"
	PaymentPartialCanceled PaymentStatus = "PARTIAL_CANCELED"
	PaymentCanceled        PaymentStatus = "CANCELED"
	SettlementsRequested   PaymentStatus = "SETTLEMENTS_REQUESTED"
	SettlementsCompleted   PaymentStatus = "SETTLEMENTS_COMPLETED"
	SettlementsCanceled    PaymentStatus = "SETTLEMENTS_CANCELED"
)

type PaymentMethod string

const (
	MethodCard PaymentMethod = "CARD"
)

// methodNames maps gateway-reported method names onto PaymentMethod values.
// The gateway reports localized names alongside the plain ones.
var methodNames = map[string]PaymentMethod{
	"card": MethodCard,
	"카드":   MethodCard,
	"신용카드": MethodCard,
}

// MethodFromName resolves a gateway-reported method name. Unknown or empty
// names fall back to CARD.
func MethodFromName(name string) PaymentMethod {
	if method, ok := methodNames[strings.ToLower(name)]; ok {
		return method
	}
	return MethodCard
}

// PaymentLedger is one immutable record of a payment-lifecycle event. Every
// approval, cancellation, or settlement update inserts a new row; the latest
// row per payment key carries the current balance.
type PaymentLedger struct {
	ID             uint          `gorm:"primaryKey" json:"-"`
	PaymentKey     string        `gorm:"column:payment_id;not null;index" json:"payment_key"`
	Method         PaymentMethod `gorm:"type:varchar(16);not null" json:"method"`
	Status         PaymentStatus `gorm:"column:payment_status;type:varchar(32);not null" json:"status"`
	TotalAmount    int           `gorm:"column:total_amount;not null" json:"total_amount"`
	BalanceAmount  int           `gorm:"column:balance_amount;not null" json:"balance_amount"`
	CanceledAmount int           `gorm:"column:canceled_amount;not null" json:"canceled_amount"`
	PayoutAmount   int           `gorm:"column:pay_out_amount" json:"payout_amount"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentLedger) TableName() string { return "payment_transaction" }

// CanCancel reports whether the remaining balance covers the cancellation amount.
func (l *PaymentLedger) CanCancel(cancellationAmount int) bool {
	return l.BalanceAmount >= cancellationAmount
}
