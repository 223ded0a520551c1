package models

import "time"

// PaymentSettlements is one settled transaction from a periodic settlement
// batch reported by the payment gateway. (payment_key, sold_date) identifies
// a batch entry so duplicate batch delivery stays idempotent.
type PaymentSettlements struct {
	ID             uint          `gorm:"primaryKey" json:"-"`
	PaymentKey     string        `gorm:"column:payment_id;not null;uniqueIndex:uq_settlement" json:"payment_key"`
	Method         PaymentMethod `gorm:"type:varchar(16);not null" json:"method"`
	Status         PaymentStatus `gorm:"column:settlements_status;type:varchar(32);not null" json:"status"`
	TotalAmount    int           `gorm:"column:total_amount;not null" json:"total_amount"`
	PayoutAmount   int           `gorm:"column:pay_out_amount;not null" json:"payout_amount"`
	CanceledAmount int           `gorm:"column:canceled_amount;not null" json:"canceled_amount"`
	SoldDate       time.Time     `gorm:"column:sold_date;type:date;uniqueIndex:uq_settlement" json:"sold_date"`
	PaidOutDate    time.Time     `gorm:"column:paid_out_date;type:date" json:"paid_out_date"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (PaymentSettlements) TableName() string { return "payment_settlements" }

// ToPaymentLedger converts the settlement into a ledger row for reconciliation.
func (s *PaymentSettlements) ToPaymentLedger() PaymentLedger {
	return PaymentLedger{
		PaymentKey:     s.PaymentKey,
		Method:         s.Method,
		Status:         s.Status,
		TotalAmount:    s.TotalAmount,
		BalanceAmount:  s.TotalAmount - s.CanceledAmount,
		CanceledAmount: s.CanceledAmount,
		PayoutAmount:   s.PayoutAmount,
	}
}
