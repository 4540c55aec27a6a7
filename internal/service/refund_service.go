package service

import (
	"context"
	"fmt"

	"courtside/internal/domain"
	"courtside/internal/metrics"
	"courtside/internal/models"
	"courtside/pkg/gateway"

	"github.com/rs/zerolog"
)

// RefundService tracks refunds against captured payments. Settlement comes
// back through the webhook reconciler, not from here.
type RefundService struct {
	refunds  RefundStore
	payments PaymentStore
	provider gateway.Provider
	notifier Notifier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewRefundService(refunds RefundStore, payments PaymentStore, provider gateway.Provider, notifier Notifier, m *metrics.Metrics, logger zerolog.Logger) *RefundService {
	return &RefundService{
		refunds:  refunds,
		payments: payments,
		provider: provider,
		notifier: notifier,
		metrics:  m,
		logger:   logger,
	}
}

// Initiate creates a PENDING refund and asks the gateway to process it.
// amountPaise zero means "the full remaining balance". The store enforces
// the balance precondition; a request that would oversubscribe the payment
// is rejected before anything is persisted.
func (s *RefundService) Initiate(ctx context.Context, paymentID uint, amountPaise int64, actor, reason string) (*models.Refund, error) {
	refund := &models.Refund{
		PaymentID:   paymentID,
		AmountPaise: amountPaise,
		Reason:      reason,
		RequestedBy: actor,
	}
	if err := s.refunds.CreateChecked(ctx, refund); err != nil {
		return nil, err
	}

	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	ref, err := s.provider.CreateRefund(ctx, gateway.RefundRequest{
		GatewayPaymentID: p.GatewayPaymentID,
		AmountPaise:      refund.AmountPaise,
		Receipt:          fmt.Sprintf("refund-%d", refund.ID),
		Notes:            map[string]string{"reason": reason},
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("refund_id", refund.ID).Msg("gateway refund initiation failed")
		if ferr := s.refunds.MarkFailed(ctx, refund.ID); ferr != nil {
			s.logger.Error().Err(ferr).Uint("refund_id", refund.ID).Msg("marking refund failed errored")
		}
		refund.Status = domain.RefundFailed
		return refund, domain.Transient(err)
	}
	if err := s.refunds.SetGatewayRef(ctx, refund.ID, ref.ID); err != nil {
		return nil, domain.Transient(err)
	}
	refund.GatewayRefundID = ref.ID

	s.metrics.RefundsCreated.Inc()
	s.logger.Info().
		Uint("refund_id", refund.ID).
		Uint("payment_id", paymentID).
		Int64("amount_paise", refund.AmountPaise).
		Str("gateway_refund_id", ref.ID).
		Msg("refund initiated")
	return refund, nil
}

// RefundListing is a refund history with running totals against the
// payment's captured amount.
type RefundListing struct {
	Refunds        []models.Refund `json:"refunds"`
	TotalPaise     int64           `json:"total_paise"`
	CompletedPaise int64           `json:"completed_paise"`
	PendingPaise   int64           `json:"pending_paise"`
	RemainingPaise int64           `json:"remaining_paise"`
}

func (s *RefundService) ListForPayment(ctx context.Context, paymentID uint) (*RefundListing, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	refunds, err := s.refunds.ListByPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	listing := &RefundListing{Refunds: refunds, TotalPaise: p.TotalPaise}
	for _, r := range refunds {
		switch r.Status {
		case domain.RefundCompleted:
			listing.CompletedPaise += r.AmountPaise
		case domain.RefundPending:
			listing.PendingPaise += r.AmountPaise
		}
	}
	listing.RemainingPaise = listing.TotalPaise - listing.CompletedPaise - listing.PendingPaise
	return listing, nil
}
