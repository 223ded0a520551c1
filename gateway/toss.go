package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const tossBaseURL = "https://api.tosspayments.com/v1"

// TossGateway implements PaymentGateway against the Toss Payments API.
type TossGateway struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewTossGateway creates a TossGateway with a conservative request timeout;
// approval and cancellation calls run inside the business transaction.
func NewTossGateway(secretKey string) *TossGateway {
	return NewTossGatewayWithBaseURL(secretKey, tossBaseURL)
}

// NewTossGatewayWithBaseURL creates a TossGateway against a custom endpoint.
func NewTossGatewayWithBaseURL(secretKey, baseURL string) *TossGateway {
	return &TossGateway{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		secretKey: secretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type tossCancelRequest struct {
	CancelReason string `json:"cancelReason"`
	CancelAmount int    `json:"cancelAmount"`
}

type tossErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Approve confirms the payment with Toss.
func (t *TossGateway) Approve(ctx context.Context, req ApprovalRequest) (*Approval, error) {
	var resp Approval
	if err := t.doRequest(ctx, http.MethodPost, "/payments/confirm", req, &resp); err != nil {
		return nil, fmt.Errorf("toss Approve: %w", err)
	}
	return &resp, nil
}

// IsApproved reports whether status is the final approved state.
func (t *TossGateway) IsApproved(status string) bool {
	return strings.EqualFold(status, "DONE")
}

// Cancel cancels amount of the payment identified by paymentKey.
func (t *TossGateway) Cancel(ctx context.Context, paymentKey, reason string, amount int) (*Cancellation, error) {
	body := tossCancelRequest{
		CancelReason: reason,
		CancelAmount: amount,
	}

	var resp Cancellation
	path := fmt.Sprintf("/payments/%s/cancel", paymentKey)
	if err := t.doRequest(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, fmt.Errorf("toss Cancel: %w", err)
	}
	return &resp, nil
}

// QuerySettlements fetches the settlement report for the date range. An empty
// report is an error; the caller expects at least one settled transaction.
func (t *TossGateway) QuerySettlements(ctx context.Context, query SettlementQuery) ([]Settlement, error) {
	params := make([]string, 0, 4)
	params = append(params, "startDate="+query.StartDate)
	params = append(params, "endDate="+query.EndDate)
	params = append(params, "page="+strconv.Itoa(query.Page))
	params = append(params, "size="+strconv.Itoa(query.Size))

	var resp []Settlement
	path := "/settlements?" + strings.Join(params, "&")
	if err := t.doRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("toss QuerySettlements: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("toss QuerySettlements: no settlements for %s..%s", query.StartDate, query.EndDate)
	}
	return resp, nil
}

func (t *TossGateway) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(t.secretKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errBody tossErrorBody
		if err := json.Unmarshal(respBytes, &errBody); err != nil || errBody.Code == "" {
			return &APIError{StatusCode: resp.StatusCode, Message: string(respBytes)}
		}
		return &APIError{StatusCode: resp.StatusCode, Code: errBody.Code, Message: errBody.Message}
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// basicAuth encodes the secret key as the Toss API expects: the key as the
// username with an empty password.
func basicAuth(secretKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(secretKey + ":"))
}
