package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AhnKwangHyuny/faddy-pay-stream/gateway"
	"github.com/AhnKwangHyuny/faddy-pay-stream/models"
)

func TestApprove_Success(t *testing.T) {
	var gotAuth string
	var gotBody gateway.ApprovalRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments/confirm", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		_ = json.NewEncoder(w).Encode(gateway.Approval{
			PaymentKey:  "pay_abc",
			OrderID:     "11111111-1111-1111-1111-111111111111",
			Status:      "DONE",
			Method:      "카드",
			TotalAmount: 4500,
			Card:        &gateway.CardDetail{Number: "1234-****", AcquireStatus: "READY"},
		})
	}))
	defer server.Close()

	gw := gateway.NewTossGatewayWithBaseURL("sk_test_secret", server.URL)

	approval, err := gw.Approve(context.Background(), gateway.ApprovalRequest{
		PaymentKey: "pay_abc",
		OrderID:    "11111111-1111-1111-1111-111111111111",
		Amount:     4500,
	})

	assert.NoError(t, err)
	assert.Equal(t, "pay_abc", approval.PaymentKey)
	assert.Equal(t, 4500, approval.TotalAmount)
	assert.Equal(t, "pay_abc", gotBody.PaymentKey)
	// secret key goes out as basic auth with an empty password
	assert.Equal(t, "Basic c2tfdGVzdF9zZWNyZXQ6", gotAuth)
}

func TestApprove_ErrorCodeMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "ALREADY_PROCESSED_PAYMENT",
			"message": "이미 처리된 결제 입니다.",
		})
	}))
	defer server.Close()

	gw := gateway.NewTossGatewayWithBaseURL("sk_test_secret", server.URL)

	_, err := gw.Approve(context.Background(), gateway.ApprovalRequest{PaymentKey: "pay_dup"})

	assert.Error(t, err)
	assert.True(t, gateway.IsAlreadyProcessed(err))
}

func TestApprove_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	gw := gateway.NewTossGatewayWithBaseURL("sk_test_secret", server.URL)

	_, err := gw.Approve(context.Background(), gateway.ApprovalRequest{PaymentKey: "pay_boom"})

	assert.Error(t, err)
	assert.False(t, gateway.IsAlreadyProcessed(err))
}

func TestIsApproved(t *testing.T) {
	gw := gateway.NewTossGateway("sk_test_secret")

	assert.True(t, gw.IsApproved("DONE"))
	assert.True(t, gw.IsApproved("done"))
	assert.False(t, gw.IsApproved("IN_PROGRESS"))
	assert.False(t, gw.IsApproved(""))
}

func TestCancel_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_abc/cancel", r.URL.Path)

		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "wrong size", body["cancelReason"])
		assert.Equal(t, float64(3400), body["cancelAmount"])

		_ = json.NewEncoder(w).Encode(gateway.Cancellation{
			PaymentKey:    "pay_abc",
			Status:        "PARTIAL_CANCELED",
			Method:        "카드",
			TotalAmount:   4500,
			BalanceAmount: 1100,
		})
	}))
	defer server.Close()

	gw := gateway.NewTossGatewayWithBaseURL("sk_test_secret", server.URL)

	cancellation, err := gw.Cancel(context.Background(), "pay_abc", "wrong size", 3400)

	assert.NoError(t, err)
	assert.Equal(t, 1100, cancellation.BalanceAmount)

	row := cancellation.LedgerRow()
	assert.Equal(t, models.PaymentPartialCanceled, row.Status)
	assert.Equal(t, 3400, row.CanceledAmount)
}

func TestQuerySettlements(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/settlements", r.URL.Path)
		assert.Equal(t, "2026-08-28", r.URL.Query().Get("startDate"))
		assert.Equal(t, "2026-08-30", r.URL.Query().Get("endDate"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		assert.Equal(t, "5000", r.URL.Query().Get("size"))

		_ = json.NewEncoder(w).Encode([]gateway.Settlement{
			{PaymentKey: "pay_s1", Method: "카드", TotalAmount: 10000, SoldDate: "2026-08-28", PaidOutDate: "2026-08-30"},
		})
	}))
	defer server.Close()

	gw := gateway.NewTossGatewayWithBaseURL("sk_test_secret", server.URL)

	settlements, err := gw.QuerySettlements(context.Background(), gateway.SettlementQuery{
		StartDate: "2026-08-28",
		EndDate:   "2026-08-30",
		Page:      1,
		Size:      5000,
	})

	assert.NoError(t, err)
	assert.Len(t, settlements, 1)
	assert.Equal(t, "pay_s1", settlements[0].PaymentKey)
}

func TestQuerySettlements_EmptyIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	gw := gateway.NewTossGatewayWithBaseURL("sk_test_secret", server.URL)

	_, err := gw.QuerySettlements(context.Background(), gateway.SettlementQuery{
		StartDate: "2026-08-28",
		EndDate:   "2026-08-30",
		Page:      1,
		Size:      5000,
	})

	assert.Error(t, err)
}

func TestSettlementStatusDerivation(t *testing.T) {
	cases := map[string]models.PaymentStatus{
		"READY":            models.SettlementsRequested,
		"REQUESTED":        models.SettlementsRequested,
		"COMPLETED":        models.SettlementsCompleted,
		"CANCEL_REQUESTED": models.SettlementsCanceled,
		"CANCELED":         models.SettlementsCanceled,
	}

	for acquire, want := range cases {
		s := gateway.Settlement{Card: &gateway.CardDetail{AcquireStatus: acquire}}
		assert.Equal(t, want, s.SettlementStatus(), "acquire status %s", acquire)
	}

	noCard := gateway.Settlement{}
	assert.Equal(t, models.SettlementsRequested, noCard.SettlementStatus())
}
