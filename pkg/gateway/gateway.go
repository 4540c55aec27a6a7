// Package gateway talks to the external payment gateway: order creation,
// refund initiation, and webhook signature verification.
package gateway

import (
	"context"
	"errors"
)

type OrderRequest struct {
	Receipt     string // our idempotency key, unique per booking
	AmountPaise int64
	Currency    string
	Notes       map[string]string
}

type Order struct {
	ID          string
	Receipt     string
	AmountPaise int64
	Currency    string
	Status      string
}

type RefundRequest struct {
	GatewayPaymentID string
	AmountPaise      int64
	Receipt          string
	Notes            map[string]string
}

type RefundRef struct {
	ID          string
	AmountPaise int64
	Status      string
}

var ErrOrderRejected = errors.New("gateway rejected order")

// Provider is the outbound surface of the gateway. CreateOrder must be
// idempotent per receipt: re-requesting with a known receipt returns the
// existing order rather than creating a duplicate.
type Provider interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	CreateRefund(ctx context.Context, req RefundRequest) (*RefundRef, error)
}
