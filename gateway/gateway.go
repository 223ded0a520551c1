package gateway

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
)

// CodeAlreadyProcessed is the structured gateway error code returned when an
// approval request repeats a payment the gateway has already confirmed.
const CodeAlreadyProcessed = "ALREADY_PROCESSED_PAYMENT"

// PaymentGateway is the logical contract with the external payment provider.
type PaymentGateway interface {
	// Approve confirms a payment authorization with the provider.
	Approve(ctx context.Context, req ApprovalRequest) (*Approval, error)

	// IsApproved reports whether a provider status string is the final
	// approved state.
	IsApproved(status string) bool

	// Cancel cancels all or part of an approved payment.
	Cancel(ctx context.Context, paymentKey, reason string, amount int) (*Cancellation, error)

	// QuerySettlements fetches settled transactions for a date range. An
	// unsuccessful or empty result is an error.
	QuerySettlements(ctx context.Context, query SettlementQuery) ([]Settlement, error)
}

// APIError is a structured error from the provider API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("payment gateway error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
}

// IsAlreadyProcessed reports whether err is the provider telling us the
// payment was already approved on a previous attempt.
func IsAlreadyProcessed(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == CodeAlreadyProcessed
}

type ApprovalRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int    `json:"amount"`
}

type CardDetail struct {
	Number        string `json:"number"`
	ApproveNo     string `json:"approveNo"`
	AcquireStatus string `json:"acquireStatus"`
	IssuerCode    string `json:"issuerCode"`
	AcquirerCode  string `json:"acquirerCode"`
}

type Approval struct {
	PaymentKey    string      `json:"paymentKey"`
	OrderID       string      `json:"orderId"`
	Status        string      `json:"status"`
	Method        string      `json:"method"`
	TotalAmount   int         `json:"totalAmount"`
	BalanceAmount int         `json:"balanceAmount"`
	Card          *CardDetail `json:"card"`
}

// LedgerRow derives the approval ledger entry: nothing cancelled yet, the
// full amount still cancellable.
func (a *Approval) LedgerRow() models.PaymentLedger {
	return models.PaymentLedger{
		PaymentKey:     a.PaymentKey,
		Method:         models.MethodFromName(a.Method),
		Status:         models.PaymentStatus(a.Status),
		TotalAmount:    a.TotalAmount,
		BalanceAmount:  a.TotalAmount,
		CanceledAmount: 0,
	}
}

// CardDetailRow derives the method-specific detail row, or nil when the
// provider sent no card data.
func (a *Approval) CardDetailRow() *models.CardPayment {
	if a.Card == nil {
		return nil
	}
	return &models.CardPayment{
		PaymentKey:     a.PaymentKey,
		CardNumber:     a.Card.Number,
		ApproveNo:      a.Card.ApproveNo,
		AcquireStatus:  models.AcquireStatus(a.Card.AcquireStatus),
		IssuerCode:     a.Card.IssuerCode,
		AcquirerCode:   a.Card.AcquirerCode,
		AcquirerStatus: a.Card.AcquireStatus,
	}
}

type Cancellation struct {
	PaymentKey    string `json:"paymentKey"`
	Status        string `json:"status"`
	Method        string `json:"method"`
	TotalAmount   int    `json:"totalAmount"`
	BalanceAmount int    `json:"balanceAmount"`
}

// LedgerRow derives the cancellation ledger entry from the provider response.
func (c *Cancellation) LedgerRow() models.PaymentLedger {
	return models.PaymentLedger{
		PaymentKey:     c.PaymentKey,
		Method:         models.MethodFromName(c.Method),
		Status:         models.PaymentStatus(c.Status),
		TotalAmount:    c.TotalAmount,
		BalanceAmount:  c.BalanceAmount,
		CanceledAmount: c.TotalAmount - c.BalanceAmount,
	}
}

type SettlementQuery struct {
	StartDate string
	EndDate   string
	Page      int
	Size      int
}

type CancelDetail struct {
	CancelAmount int `json:"cancelAmount"`
}

type Settlement struct {
	OrderID      string        `json:"orderId"`
	PaymentKey   string        `json:"paymentKey"`
	Method       string        `json:"method"`
	TotalAmount  int           `json:"amount"`
	PayoutAmount int           `json:"payOutAmount"`
	Card         *CardDetail   `json:"card"`
	Cancel       *CancelDetail `json:"cancel"`
	SoldDate     string        `json:"soldDate"`
	PaidOutDate  string        `json:"paidOutDate"`
}

// SettlementStatus derives the settlement state from the card acquiring state.
func (s *Settlement) SettlementStatus() models.PaymentStatus {
	if s.Card == nil {
		return models.SettlementsRequested
	}
	switch models.AcquireStatus(s.Card.AcquireStatus) {
	case models.AcquireReady, models.AcquireRequested:
		return models.SettlementsRequested
	case models.AcquireCompleted:
		return models.SettlementsCompleted
	case models.AcquireCancelRequested, models.AcquireCancelled:
		return models.SettlementsCanceled
	default:
		return models.SettlementsRequested
	}
}

// SettlementRow converts the provider record into a settlement entity.
func (s *Settlement) SettlementRow() (models.PaymentSettlements, error) {
	soldDate, err := time.Parse("2006-01-02", s.SoldDate)
	if err != nil {
		return models.PaymentSettlements{}, fmt.Errorf("invalid soldDate %q: %w", s.SoldDate, err)
	}
	paidOutDate, err := time.Parse("2006-01-02", s.PaidOutDate)
	if err != nil {
		return models.PaymentSettlements{}, fmt.Errorf("invalid paidOutDate %q: %w", s.PaidOutDate, err)
	}

	canceled := 0
	if s.Cancel != nil {
		canceled = s.Cancel.CancelAmount
	}

	return models.PaymentSettlements{
		PaymentKey:     s.PaymentKey,
		Method:         models.MethodFromName(s.Method),
		Status:         s.SettlementStatus(),
		TotalAmount:    s.TotalAmount,
		PayoutAmount:   s.PayoutAmount,
		CanceledAmount: canceled,
		SoldDate:       soldDate,
		PaidOutDate:    paidOutDate,
	}, nil
}
