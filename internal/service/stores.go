package service

import (
	"context"
	"time"

	"courtside/internal/models"
)

// Storage interfaces consumed by the services. The gorm repositories in
// internal/repository satisfy them; tests substitute fakes.

type CourtStore interface {
	GetWithFacility(ctx context.Context, id uint) (*models.Court, error)
	ListBlockedSlots(ctx context.Context, courtID uint, date string) ([]models.TimeSlot, error)
}

type BookingStore interface {
	ReserveAndCreate(ctx context.Context, b *models.Booking, p *models.Payment) error
	GetByID(ctx context.Context, id uint) (*models.Booking, error)
	ListActiveForDate(ctx context.Context, courtID uint, date string) ([]models.Booking, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Booking, error)
	Confirm(ctx context.Context, id uint) (*models.Booking, bool, error)
	Cancel(ctx context.Context, id uint, actor, reason string) (*models.Booking, error)
	ExpirePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	CompleteElapsed(ctx context.Context, today, nowTime string) (int64, error)
}

type PaymentStore interface {
	GetByID(ctx context.Context, id uint) (*models.Payment, error)
	GetByBookingID(ctx context.Context, bookingID uint) (*models.Payment, error)
	GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	SetGatewayOrder(ctx context.Context, paymentID uint, orderID string) error
	Capture(ctx context.Context, orderID, gatewayPaymentID, method string) (*models.Payment, bool, error)
	Fail(ctx context.Context, orderID string) (*models.Payment, bool, error)
	FailByBooking(ctx context.Context, bookingID uint) error
}

type RefundStore interface {
	CreateChecked(ctx context.Context, refund *models.Refund) error
	GetByID(ctx context.Context, id uint) (*models.Refund, error)
	ListByPayment(ctx context.Context, paymentID uint) ([]models.Refund, error)
	SetGatewayRef(ctx context.Context, refundID uint, gatewayRefundID string) error
	Settle(ctx context.Context, gatewayRefundID string, success bool) (*models.Refund, bool, error)
	MarkFailed(ctx context.Context, refundID uint) error
}

type EventStore interface {
	Record(ctx context.Context, ev *models.WebhookEvent) (bool, error)
	GetByEventID(ctx context.Context, eventID string) (*models.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id uint, status, note string) error
}

// Notifier is the fire-and-forget outbound notification surface. Failures
// are logged, never propagated into booking flows.
type Notifier interface {
	BookingConfirmed(ctx context.Context, b *models.Booking)
	BookingCancelled(ctx context.Context, b *models.Booking, reason string)
	RefundUpdate(ctx context.Context, userID uint, r *models.Refund)
}
