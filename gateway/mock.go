package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// MockGateway is an in-memory PaymentGateway for development and scheduled
// settlement runs against environments without provider credentials. It keeps
// approved payments so cancellations report consistent balances.
type MockGateway struct {
	mu        sync.Mutex
	approved  map[string]*Approval
	cancelled map[string]int
}

func NewMockGateway() *MockGateway {
	return &MockGateway{
		approved:  make(map[string]*Approval),
		cancelled: make(map[string]int),
	}
}

func (m *MockGateway) Approve(ctx context.Context, req ApprovalRequest) (*Approval, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.approved[req.PaymentKey]; ok {
		return nil, &APIError{
			StatusCode: http.StatusBadRequest,
			Code:       CodeAlreadyProcessed,
			Message:    "payment already processed",
		}
	}

	approval := &Approval{
		PaymentKey:    req.PaymentKey,
		OrderID:       req.OrderID,
		Status:        "DONE",
		Method:        "CARD",
		TotalAmount:   req.Amount,
		BalanceAmount: req.Amount,
		Card: &CardDetail{
			Number:        "4330********1234",
			ApproveNo:     "00000000",
			AcquireStatus: "READY",
			IssuerCode:    "61",
			AcquirerCode:  "31",
		},
	}
	m.approved[req.PaymentKey] = approval
	return approval, nil
}

func (m *MockGateway) IsApproved(status string) bool {
	return strings.EqualFold(status, "DONE")
}

func (m *MockGateway) Cancel(ctx context.Context, paymentKey, reason string, amount int) (*Cancellation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	approval, ok := m.approved[paymentKey]
	if !ok {
		return nil, &APIError{
			StatusCode: http.StatusNotFound,
			Code:       "NOT_FOUND_PAYMENT",
			Message:    fmt.Sprintf("no payment for key %s", paymentKey),
		}
	}

	canceled := m.cancelled[paymentKey] + amount
	if canceled > approval.TotalAmount {
		return nil, &APIError{
			StatusCode: http.StatusBadRequest,
			Code:       "NOT_CANCELABLE_AMOUNT",
			Message:    "cancellation amount exceeds balance",
		}
	}
	m.cancelled[paymentKey] = canceled

	status := "PARTIAL_CANCELED"
	if canceled == approval.TotalAmount {
		status = "CANCELED"
	}

	return &Cancellation{
		PaymentKey:    paymentKey,
		Status:        status,
		Method:        approval.Method,
		TotalAmount:   approval.TotalAmount,
		BalanceAmount: approval.TotalAmount - canceled,
	}, nil
}

// QuerySettlements reports every approved payment as settled on the start
// date of the window, paid out the day after.
func (m *MockGateway) QuerySettlements(ctx context.Context, query SettlementQuery) ([]Settlement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.approved) == 0 {
		return nil, fmt.Errorf("mock QuerySettlements: no settlements for %s..%s", query.StartDate, query.EndDate)
	}

	paidOut := query.EndDate
	if t, err := time.Parse("2006-01-02", query.StartDate); err == nil {
		paidOut = t.AddDate(0, 0, 1).Format("2006-01-02")
	}

	settlements := make([]Settlement, 0, len(m.approved))
	for key, approval := range m.approved {
		var cancel *CancelDetail
		if canceled := m.cancelled[key]; canceled > 0 {
			cancel = &CancelDetail{CancelAmount: canceled}
		}
		settlements = append(settlements, Settlement{
			OrderID:      approval.OrderID,
			PaymentKey:   key,
			Method:       approval.Method,
			TotalAmount:  approval.TotalAmount,
			PayoutAmount: approval.TotalAmount * 97 / 100,
			Card:         approval.Card,
			Cancel:       cancel,
			SoldDate:     query.StartDate,
			PaidOutDate:  paidOut,
		})
	}
	return settlements, nil
}
