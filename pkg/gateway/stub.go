package gateway

import (
	"context"
	"fmt"
	"sync"
)

// StubProvider is an in-memory Provider for development and tests. Orders
// are deduplicated by receipt, matching the real gateway's contract.
type StubProvider struct {
	mu      sync.Mutex
	orders  map[string]*Order // receipt -> order
	refunds int
}

func NewStubProvider() *StubProvider {
	return &StubProvider{orders: make(map[string]*Order)}
}

func (s *StubProvider) CreateOrder(_ context.Context, req OrderRequest) (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[req.Receipt]; ok {
		return o, nil
	}
	o := &Order{
		ID:          fmt.Sprintf("order_stub_%06d", len(s.orders)+1),
		Receipt:     req.Receipt,
		AmountPaise: req.AmountPaise,
		Currency:    req.Currency,
		Status:      "created",
	}
	s.orders[req.Receipt] = o
	return o, nil
}

func (s *StubProvider) CreateRefund(_ context.Context, req RefundRequest) (*RefundRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refunds++
	return &RefundRef{
		ID:          fmt.Sprintf("rfnd_stub_%06d", s.refunds),
		AmountPaise: req.AmountPaise,
		Status:      "pending",
	}, nil
}
