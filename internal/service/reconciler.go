package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"courtside/internal/domain"
	"courtside/internal/metrics"
	"courtside/internal/models"
	"courtside/pkg/gateway"

	"github.com/rs/zerolog"
)

// Reconciler consumes verified gateway events at-least-once and applies
// their effects at-most-once. The raw event is durably recorded before any
// business branch; the unique event id is the idempotency key.
type Reconciler struct {
	events   EventStore
	payments PaymentStore
	refunds  RefundStore
	bookings *BookingService
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

func NewReconciler(events EventStore, payments PaymentStore, refunds RefundStore, bookings *BookingService, m *metrics.Metrics, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		events:   events,
		payments: payments,
		refunds:  refunds,
		bookings: bookings,
		metrics:  m,
		logger:   logger,
	}
}

// Apply processes one parsed event. A nil return means the delivery is
// acknowledged (applied, duplicate, unknown, or flagged for manual review);
// only transient storage failures return an error, so the gateway retries
// exactly the deliveries that might still succeed. A redelivery whose
// recorded row is still RECEIVED means the previous attempt died
// mid-application, so the effect runs again rather than short-circuiting.
func (r *Reconciler) Apply(ctx context.Context, rawBody []byte, ev *gateway.Event) error {
	rec := &models.WebhookEvent{
		EventID:   idempotencyKey(ev, rawBody),
		EventType: ev.Type,
		RawBody:   string(rawBody),
		Status:    domain.EventReceived,
	}
	if ev.Payment != nil {
		rec.GatewayOrderID = ev.Payment.OrderID
		rec.GatewayPaymentID = ev.Payment.ID
		rec.AmountPaise = ev.Payment.AmountPaise
	}
	if ev.Refund != nil {
		rec.GatewayRefundID = ev.Refund.ID
		rec.GatewayPaymentID = ev.Refund.PaymentID
		rec.AmountPaise = ev.Refund.AmountPaise
	}

	created, err := r.events.Record(ctx, rec)
	if err != nil {
		return domain.Transient(err)
	}
	reapply := false
	if !created {
		prior, err := r.events.GetByEventID(ctx, rec.EventID)
		if err != nil {
			return domain.Transient(err)
		}
		if prior.Status != domain.EventReceived {
			r.metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
			r.logger.Debug().Str("event_id", rec.EventID).Str("status", prior.Status).Msg("duplicate webhook delivery, already applied")
			return nil
		}
		// The earlier delivery never reached a terminal status.
		rec = prior
		reapply = true
	}

	switch ev.Kind {
	case gateway.EventPaymentCaptured:
		return r.applyCaptured(ctx, rec, ev.Payment, reapply)
	case gateway.EventPaymentFailed:
		return r.applyFailed(ctx, rec, ev.Payment, reapply)
	case gateway.EventRefundProcessed:
		return r.applyRefundSettled(ctx, rec, ev.Refund, true, reapply)
	case gateway.EventRefundFailed:
		return r.applyRefundSettled(ctx, rec, ev.Refund, false, reapply)
	default:
		r.metrics.WebhookEvents.WithLabelValues("ignored").Inc()
		r.logger.Info().Str("event_type", ev.Type).Msg("ignoring unrecognized webhook event")
		return r.markTransient(ctx, rec.ID, domain.EventIgnored, "unrecognized event type")
	}
}

func (r *Reconciler) applyCaptured(ctx context.Context, rec *models.WebhookEvent, pe *gateway.PaymentEntity, reapply bool) error {
	p, err := r.payments.GetByOrderID(ctx, pe.OrderID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return r.flag(ctx, rec, "no payment for gateway order "+pe.OrderID)
		}
		return domain.Transient(err)
	}

	// Captured amount must match the expected total exactly. Mismatches are
	// never auto-confirmed; the booking stays PENDING for an operator.
	if pe.AmountPaise != p.TotalPaise {
		return r.flag(ctx, rec, fmt.Sprintf("amount mismatch: captured %d, expected %d", pe.AmountPaise, p.TotalPaise))
	}

	_, transitioned, err := r.payments.Capture(ctx, pe.OrderID, pe.ID, pe.Method)
	if err != nil {
		return domain.Transient(err)
	}
	if !transitioned && !reapply {
		r.metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return r.markTransient(ctx, rec.ID, domain.EventDuplicate, "payment already captured")
	}

	if _, err := r.bookings.Confirm(ctx, p.BookingID); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			// Capture raced with a cancellation (e.g. the expiry sweep).
			// Money has been taken for a dead booking: manual review.
			return r.flag(ctx, rec, fmt.Sprintf("captured after booking %d left PENDING", p.BookingID))
		}
		return domain.Transient(err)
	}

	r.metrics.WebhookEvents.WithLabelValues("applied").Inc()
	r.logger.Info().Str("order_id", pe.OrderID).Uint("booking_id", p.BookingID).Msg("payment captured, booking confirmed")
	return r.markTransient(ctx, rec.ID, domain.EventApplied, "")
}

func (r *Reconciler) applyFailed(ctx context.Context, rec *models.WebhookEvent, pe *gateway.PaymentEntity, reapply bool) error {
	p, transitioned, err := r.payments.Fail(ctx, pe.OrderID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return r.flag(ctx, rec, "no payment for gateway order "+pe.OrderID)
		}
		return domain.Transient(err)
	}
	if !transitioned && !(reapply && p.Status == domain.PaymentFailed) {
		// Already captured or already failed by a different event; a late
		// "failed" event never regresses recorded state. A re-applied
		// delivery that already failed its own payment still needs the
		// booking cancelled below.
		r.metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return r.markTransient(ctx, rec.ID, domain.EventDuplicate, "payment not in CREATED state")
	}

	if _, _, err := r.bookings.Cancel(ctx, p.BookingID, domain.ActorSystem, domain.CancelReasonPaymentFailed); err != nil {
		if domain.KindOf(err) != domain.KindConflict {
			return domain.Transient(err)
		}
	}

	r.metrics.WebhookEvents.WithLabelValues("applied").Inc()
	r.logger.Info().Str("order_id", pe.OrderID).Uint("booking_id", p.BookingID).Msg("payment failed, booking cancelled")
	return r.markTransient(ctx, rec.ID, domain.EventApplied, "")
}

func (r *Reconciler) applyRefundSettled(ctx context.Context, rec *models.WebhookEvent, re *gateway.RefundEntity, success bool, reapply bool) error {
	refund, transitioned, err := r.refunds.Settle(ctx, re.ID, success)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return r.flag(ctx, rec, "no refund for gateway ref "+re.ID)
		}
		return domain.Transient(err)
	}
	if !transitioned && !reapply {
		r.metrics.WebhookEvents.WithLabelValues("duplicate").Inc()
		return r.markTransient(ctx, rec.ID, domain.EventDuplicate, "refund already settled")
	}

	if p, perr := r.payments.GetByID(ctx, refund.PaymentID); perr == nil {
		if b, berr := r.bookings.Get(ctx, p.BookingID); berr == nil {
			r.bookings.notifier.RefundUpdate(ctx, b.UserID, refund)
		}
	}

	r.metrics.WebhookEvents.WithLabelValues("applied").Inc()
	r.logger.Info().Str("gateway_refund_id", re.ID).Bool("success", success).Msg("refund settled")
	return r.markTransient(ctx, rec.ID, domain.EventApplied, "")
}

// flag parks an event for manual reconciliation and acknowledges delivery.
func (r *Reconciler) flag(ctx context.Context, rec *models.WebhookEvent, note string) error {
	r.metrics.WebhookEvents.WithLabelValues("flagged").Inc()
	r.logger.Warn().Str("event_id", rec.EventID).Str("note", note).Msg("webhook event flagged for manual review")
	return r.markTransient(ctx, rec.ID, domain.EventFlagged, note)
}

// markTransient wraps MarkProcessed failures as transient so the gateway
// retries the delivery and the audit trail stays consistent.
func (r *Reconciler) markTransient(ctx context.Context, id uint, status, note string) error {
	if err := r.events.MarkProcessed(ctx, id, status, note); err != nil {
		return domain.Transient(err)
	}
	return nil
}

// idempotencyKey prefers the gateway's event id; without one it falls back
// to eventType+entity id, and for unknown shapes to a digest of the raw
// body, so distinct unkeyed events never collide.
func idempotencyKey(ev *gateway.Event, rawBody []byte) string {
	if ev.ID != "" {
		return ev.ID
	}
	switch {
	case ev.Payment != nil:
		return ev.Type + ":" + ev.Payment.ID
	case ev.Refund != nil:
		return ev.Type + ":" + ev.Refund.ID
	default:
		sum := sha256.Sum256(rawBody)
		return ev.Type + ":" + hex.EncodeToString(sum[:8])
	}
}
