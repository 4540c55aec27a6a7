package service

import (
	"context"
	"fmt"
	"time"

	"courtside/config"
	"courtside/internal/cache"
	"courtside/internal/domain"
	"courtside/internal/metrics"
	"courtside/internal/models"
	"courtside/pkg/gateway"

	"github.com/rs/zerolog"
)

// BookingService drives a booking through its lifecycle:
// PENDING -> {CONFIRMED, CANCELLED}; CONFIRMED -> {COMPLETED, CANCELLED}.
// Confirm is reconciler-only; Complete is sweep-only.
type BookingService struct {
	bookings BookingStore
	payments PaymentStore
	courts   CourtStore
	refunds  *RefundService
	provider gateway.Provider
	notifier Notifier
	cache    *cache.AvailabilityCache
	metrics  *metrics.Metrics
	cfg      config.BookingConfig
	fees     config.GatewayConfig
	logger   zerolog.Logger
	now      func() time.Time
}

func NewBookingService(
	bookings BookingStore,
	payments PaymentStore,
	courts CourtStore,
	refunds *RefundService,
	provider gateway.Provider,
	notifier Notifier,
	c *cache.AvailabilityCache,
	m *metrics.Metrics,
	cfg config.BookingConfig,
	fees config.GatewayConfig,
	logger zerolog.Logger,
) *BookingService {
	if cfg.MaxDurationHours <= 0 {
		cfg.MaxDurationHours = 8
	}
	return &BookingService{
		bookings: bookings,
		payments: payments,
		courts:   courts,
		refunds:  refunds,
		provider: provider,
		notifier: notifier,
		cache:    c,
		metrics:  m,
		cfg:      cfg,
		fees:     fees,
		logger:   logger,
		now:      time.Now,
	}
}

type CreateBookingInput struct {
	UserID        uint
	CourtID       uint
	Date          string // YYYY-MM-DD
	StartTime     string // HH:MM
	DurationHours int
}

type CreateBookingResult struct {
	Booking        *models.Booking
	Payment        *models.Payment
	GatewayOrderID string
}

// Create validates the window, atomically reserves the slot together with
// the payment row, then creates the gateway order. The reservation always
// completes before the gateway call, so a lost race never leaves an orphaned
// external order.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*CreateBookingResult, error) {
	if in.DurationHours <= 0 || in.DurationHours > s.cfg.MaxDurationHours {
		return nil, domain.ErrInvalidWindow
	}
	startMin, err := parseHHMM(in.StartTime)
	if err != nil {
		return nil, domain.ErrInvalidWindow
	}
	startAt, err := combine(in.Date, in.StartTime, time.Local)
	if err != nil {
		return nil, domain.ErrInvalidWindow
	}
	if !startAt.After(s.now()) {
		return nil, domain.ErrInvalidWindow
	}

	court, err := s.courts.GetWithFacility(ctx, in.CourtID)
	if err != nil {
		return nil, err
	}
	if !court.IsActive || court.Facility.ApprovalStatus != domain.ApprovalApproved {
		return nil, domain.ErrCourtInactive
	}

	opening, err := parseHHMM(court.OpeningTime)
	if err != nil {
		return nil, err
	}
	closing, err := parseHHMM(court.ClosingTime)
	if err != nil {
		return nil, err
	}
	endMin := startMin + in.DurationHours*60
	if startMin < opening || endMin > closing {
		return nil, domain.ErrInvalidWindow
	}

	amount := court.PricePerHourPaise * int64(in.DurationHours)
	fee := amount * s.fees.ProcessingFeeBps / 10000
	gst := (amount + fee) * s.fees.GSTBps / 10000
	total := amount + fee + gst

	booking := &models.Booking{
		UserID:      in.UserID,
		CourtID:     in.CourtID,
		BookingDate: in.Date,
		StartTime:   formatHHMM(startMin),
		EndTime:     formatHHMM(endMin),
		Status:      domain.BookingPending,
		TotalPaise:  total,
	}
	payment := &models.Payment{
		AmountPaise:        amount,
		ProcessingFeePaise: fee,
		GSTPaise:           gst,
		TotalPaise:         total,
		Currency:           domain.Currency,
		Status:             domain.PaymentCreated,
	}

	if err := s.bookings.ReserveAndCreate(ctx, booking, payment); err != nil {
		if domain.KindOf(err) == domain.KindConflict {
			s.metrics.BookingConflicts.Inc()
		}
		return nil, err
	}

	// Receipt is derived from the booking id so a retried order request for
	// the same booking resolves to the same gateway order.
	order, err := s.provider.CreateOrder(ctx, gateway.OrderRequest{
		Receipt:     fmt.Sprintf("booking-%d", booking.ID),
		AmountPaise: total,
		Currency:    payment.Currency,
		Notes: map[string]string{
			"booking_id": fmt.Sprintf("%d", booking.ID),
			"court_id":   fmt.Sprintf("%d", booking.CourtID),
		},
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("booking_id", booking.ID).Msg("gateway order creation failed, rolling back booking")
		if _, cerr := s.bookings.Cancel(ctx, booking.ID, domain.ActorSystem, "gateway order creation failed"); cerr != nil {
			s.logger.Error().Err(cerr).Uint("booking_id", booking.ID).Msg("rollback cancel failed")
		}
		if ferr := s.payments.FailByBooking(ctx, booking.ID); ferr != nil {
			s.logger.Error().Err(ferr).Uint("booking_id", booking.ID).Msg("rollback payment fail failed")
		}
		return nil, domain.Transient(err)
	}
	if err := s.payments.SetGatewayOrder(ctx, payment.ID, order.ID); err != nil {
		return nil, domain.Transient(err)
	}
	payment.GatewayOrderID = &order.ID

	s.metrics.BookingsCreated.Inc()
	s.cache.Invalidate(ctx, booking.CourtID, booking.BookingDate)
	s.logger.Info().
		Uint("booking_id", booking.ID).
		Uint("court_id", booking.CourtID).
		Str("date", booking.BookingDate).
		Str("interval", booking.StartTime+"-"+booking.EndTime).
		Int64("total_paise", total).
		Str("gateway_order_id", order.ID).
		Msg("booking created")

	return &CreateBookingResult{Booking: booking, Payment: payment, GatewayOrderID: order.ID}, nil
}

func (s *BookingService) Get(ctx context.Context, id uint) (*models.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]models.Booking, error) {
	return s.bookings.ListByUser(ctx, userID, limit, offset)
}

// Confirm is invoked only by the webhook reconciler after a verified
// capture. Confirming an already-CONFIRMED booking is a no-op and does not
// re-notify.
func (s *BookingService) Confirm(ctx context.Context, bookingID uint) (*models.Booking, error) {
	b, changed, err := s.bookings.Confirm(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.cache.Invalidate(ctx, b.CourtID, b.BookingDate)
		s.notifier.BookingConfirmed(ctx, b)
	}
	return b, nil
}

// Cancel transitions PENDING or CONFIRMED to CANCELLED, releasing the slot.
// A captured payment triggers a refund for the full remaining balance.
func (s *BookingService) Cancel(ctx context.Context, bookingID uint, actor, reason string) (*models.Booking, *models.Refund, error) {
	b, err := s.bookings.Cancel(ctx, bookingID, actor, reason)
	if err != nil {
		return nil, nil, err
	}
	s.cache.Invalidate(ctx, b.CourtID, b.BookingDate)

	var refund *models.Refund
	p, err := s.payments.GetByBookingID(ctx, bookingID)
	if err == nil && p.Status == domain.PaymentCaptured {
		refund, err = s.refunds.Initiate(ctx, p.ID, 0, actor, "booking cancelled: "+reason)
		if err != nil {
			// The cancellation stands; the refund needs operator attention.
			s.logger.Error().Err(err).Uint("booking_id", bookingID).Uint("payment_id", p.ID).
				Msg("refund initiation failed for cancelled booking")
		}
	}

	s.notifier.BookingCancelled(ctx, b, reason)
	s.logger.Info().Uint("booking_id", b.ID).Str("actor", actor).Str("reason", reason).Msg("booking cancelled")
	return b, refund, nil
}

// ExpirePending cancels PENDING bookings whose payment window has lapsed,
// freeing their slots. Run from the scheduler.
func (s *BookingService) ExpirePending(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.cfg.PaymentExpiry)
	expired, err := s.bookings.ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	for i := range expired {
		b := &expired[i]
		s.metrics.BookingsExpired.Inc()
		s.cache.Invalidate(ctx, b.CourtID, b.BookingDate)
		s.notifier.BookingCancelled(ctx, b, domain.CancelReasonPaymentTimeout)
	}
	if len(expired) > 0 {
		s.logger.Info().Int("count", len(expired)).Msg("expired pending bookings")
	}
	return len(expired), nil
}

// CompleteElapsed flips CONFIRMED bookings whose end time has passed to
// COMPLETED. Run from the scheduler.
func (s *BookingService) CompleteElapsed(ctx context.Context) (int64, error) {
	now := s.now()
	n, err := s.bookings.CompleteElapsed(ctx, now.Format(dateLayout), now.Format(timeLayout))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info().Int64("count", n).Msg("completed elapsed bookings")
	}
	return n, nil
}
