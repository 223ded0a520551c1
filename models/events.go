package models

import "time"

const settlementDateLayout = "2006-01-02"

// SettlementRecord is the wire form of one settled transaction on the
// settlements topic.
type SettlementRecord struct {
	PaymentKey     string `json:"payment_key"`
	Method         string `json:"method"`
	TotalAmount    int    `json:"total_amount"`
	PayoutAmount   int    `json:"payout_amount"`
	CanceledAmount int    `json:"canceled_amount"`
	SoldDate       string `json:"sold_date"`
	PaidOutDate    string `json:"paid_out_date"`
}

// SettlementBatchEvent carries one settlement batch per message.
type SettlementBatchEvent struct {
	Settlements []SettlementRecord `json:"settlements"`
	Timestamp   time.Time          `json:"timestamp"`
}

// NewSettlementRecord converts a settlement row into its wire form.
func NewSettlementRecord(s PaymentSettlements) SettlementRecord {
	return SettlementRecord{
		PaymentKey:     s.PaymentKey,
		Method:         string(s.Method),
		TotalAmount:    s.TotalAmount,
		PayoutAmount:   s.PayoutAmount,
		CanceledAmount: s.CanceledAmount,
		SoldDate:       s.SoldDate.Format(settlementDateLayout),
		PaidOutDate:    s.PaidOutDate.Format(settlementDateLayout),
	}
}

// ToSettlement converts a wire record back into a settlement row with the
// given status. Consumers tag rows SETTLEMENTS_REQUESTED regardless of the
// producer-side status; reconciliation derives the final state later.
func (r SettlementRecord) ToSettlement(status PaymentStatus) (PaymentSettlements, error) {
	soldDate, err := time.Parse(settlementDateLayout, r.SoldDate)
	if err != nil {
		return PaymentSettlements{}, err
	}
	paidOutDate, err := time.Parse(settlementDateLayout, r.PaidOutDate)
	if err != nil {
		return PaymentSettlements{}, err
	}

	return PaymentSettlements{
		PaymentKey:     r.PaymentKey,
		Method:         MethodFromName(r.Method),
		Status:         status,
		TotalAmount:    r.TotalAmount,
		PayoutAmount:   r.PayoutAmount,
		CanceledAmount: r.CanceledAmount,
		SoldDate:       soldDate,
		PaidOutDate:    paidOutDate,
	}, nil
}
