package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client implements Provider against the gateway's REST API using key-pair
// basic auth. Amounts travel in the smallest currency unit (paise).
type Client struct {
	BaseURL   string
	KeyID     string
	KeySecret string
	client    *http.Client
}

func NewClient(baseURL, keyID, keySecret string) *Client {
	return &Client{
		BaseURL:   baseURL,
		KeyID:     keyID,
		KeySecret: keySecret,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type orderAPIRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type orderAPIResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	payload := orderAPIRequest{
		Amount:   req.AmountPaise,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Notes:    req.Notes,
	}
	var out orderAPIResponse
	if err := c.post(ctx, "/v1/orders", payload, &out); err != nil {
		return nil, err
	}
	return &Order{
		ID:          out.ID,
		Receipt:     out.Receipt,
		AmountPaise: out.Amount,
		Currency:    out.Currency,
		Status:      out.Status,
	}, nil
}

type refundAPIRequest struct {
	PaymentID string            `json:"payment_id"`
	Amount    int64             `json:"amount"`
	Receipt   string            `json:"receipt"`
	Notes     map[string]string `json:"notes,omitempty"`
}

type refundAPIResponse struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
	Status string `json:"status"`
}

func (c *Client) CreateRefund(ctx context.Context, req RefundRequest) (*RefundRef, error) {
	payload := refundAPIRequest{
		PaymentID: req.GatewayPaymentID,
		Amount:    req.AmountPaise,
		Receipt:   req.Receipt,
		Notes:     req.Notes,
	}
	var out refundAPIResponse
	if err := c.post(ctx, "/v1/refunds", payload, &out); err != nil {
		return nil, err
	}
	return &RefundRef{ID: out.ID, AmountPaise: out.Amount, Status: out.Status}, nil
}

func (c *Client) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	req.SetBasicAuth(c.KeyID, c.KeySecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned %d", ErrOrderRejected, path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
