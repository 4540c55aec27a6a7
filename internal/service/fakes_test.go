package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"courtside/config"
	"courtside/internal/domain"
	"courtside/internal/metrics"
	"courtside/internal/models"
	"courtside/pkg/gateway"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// fakeStore is an in-memory stand-in for the gorm repositories. It enforces
// the same contracts: overlap rejection, capture/fail regression guards, the
// refund balance check, and event-id uniqueness.
type fakeStore struct {
	mu sync.Mutex

	courts  map[uint]*models.Court
	blocked []models.TimeSlot

	bookings map[uint]*models.Booking
	payments map[uint]*models.Payment
	refunds  map[uint]*models.Refund
	events   map[string]*models.WebhookEvent

	nextBookingID uint
	nextPaymentID uint
	nextRefundID  uint
	nextEventID   uint

	reserveErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		courts:   make(map[uint]*models.Court),
		bookings: make(map[uint]*models.Booking),
		payments: make(map[uint]*models.Payment),
		refunds:  make(map[uint]*models.Refund),
		events:   make(map[string]*models.WebhookEvent),
	}
}

func (f *fakeStore) addCourt(c *models.Court) {
	f.courts[c.ID] = c
}

// CourtStore

func (f *fakeStore) GetWithFacility(_ context.Context, id uint) (*models.Court, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courts[id]
	if !ok {
		return nil, domain.ErrCourtNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListBlockedSlots(_ context.Context, courtID uint, date string) ([]models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.TimeSlot
	for _, t := range f.blocked {
		if t.CourtID == courtID && t.SlotDate == date {
			out = append(out, t)
		}
	}
	return out, nil
}

// BookingStore

func (f *fakeStore) ReserveAndCreate(_ context.Context, b *models.Booking, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return f.reserveErr
	}
	for _, other := range f.bookings {
		if other.CourtID != b.CourtID || other.BookingDate != b.BookingDate {
			continue
		}
		if other.Status != domain.BookingPending && other.Status != domain.BookingConfirmed {
			continue
		}
		if other.StartTime < b.EndTime && b.StartTime < other.EndTime {
			return domain.ErrSlotUnavailable
		}
	}
	for _, t := range f.blocked {
		if t.CourtID == b.CourtID && t.SlotDate == b.BookingDate &&
			t.StartTime < b.EndTime && b.StartTime < t.EndTime {
			return domain.ErrSlotUnavailable
		}
	}
	f.nextBookingID++
	b.ID = f.nextBookingID
	b.CreatedAt = time.Now()
	f.bookings[b.ID] = b
	f.nextPaymentID++
	p.ID = f.nextPaymentID
	p.BookingID = b.ID
	f.payments[p.ID] = p
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id uint) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ListActiveForDate(_ context.Context, courtID uint, date string) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.CourtID == courtID && b.BookingDate == date &&
			(b.Status == domain.BookingPending || b.Status == domain.BookingConfirmed) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) ListByUser(_ context.Context, userID uint, _, _ int) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeStore) Confirm(_ context.Context, id uint) (*models.Booking, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, false, domain.ErrBookingNotFound
	}
	transitioned := false
	switch b.Status {
	case domain.BookingConfirmed:
	case domain.BookingPending:
		b.Status = domain.BookingConfirmed
		transitioned = true
	default:
		return nil, false, domain.ErrInvalidTransition
	}
	cp := *b
	return &cp, transitioned, nil
}

func (f *fakeStore) Cancel(_ context.Context, id uint, actor, reason string) (*models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
		return nil, domain.ErrInvalidTransition
	}
	b.Status = domain.BookingCancelled
	b.CancelledBy = actor
	b.CancelReason = reason
	cp := *b
	return &cp, nil
}

func (f *fakeStore) ExpirePending(_ context.Context, cutoff time.Time) ([]models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Booking
	for _, b := range f.bookings {
		if b.Status != domain.BookingPending || !b.CreatedAt.Before(cutoff) {
			continue
		}
		captured := false
		for _, p := range f.payments {
			if p.BookingID == b.ID && p.Status == domain.PaymentCaptured {
				captured = true
			}
		}
		if captured {
			continue
		}
		b.Status = domain.BookingCancelled
		b.CancelledBy = domain.ActorSystem
		b.CancelReason = domain.CancelReasonPaymentTimeout
		for _, p := range f.payments {
			if p.BookingID == b.ID && p.Status == domain.PaymentCreated {
				p.Status = domain.PaymentFailed
			}
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeStore) CompleteElapsed(_ context.Context, today, nowTime string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.Status != domain.BookingConfirmed {
			continue
		}
		if b.BookingDate < today || (b.BookingDate == today && b.EndTime <= nowTime) {
			b.Status = domain.BookingCompleted
			n++
		}
	}
	return n, nil
}

// PaymentStore

func (f *fakeStore) paymentByOrderLocked(orderID string) *models.Payment {
	for _, p := range f.payments {
		if p.GatewayOrderID != nil && *p.GatewayOrderID == orderID {
			return p
		}
	}
	return nil
}

func (f *fakeStore) GetPayment(_ context.Context, id uint) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok {
		return nil, domain.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) GetByBookingID(_ context.Context, bookingID uint) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.BookingID == bookingID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (f *fakeStore) GetByOrderID(_ context.Context, orderID string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p := f.paymentByOrderLocked(orderID); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, domain.ErrPaymentNotFound
}

func (f *fakeStore) SetGatewayOrder(_ context.Context, paymentID uint, orderID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[paymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	if other := f.paymentByOrderLocked(orderID); other != nil && other.ID != paymentID {
		return fmt.Errorf("gateway order %s already bound to payment %d", orderID, other.ID)
	}
	p.GatewayOrderID = &orderID
	return nil
}

func (f *fakeStore) Capture(_ context.Context, orderID, gatewayPaymentID, method string) (*models.Payment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.paymentByOrderLocked(orderID)
	if p == nil {
		return nil, false, domain.ErrPaymentNotFound
	}
	if p.Status == domain.PaymentCaptured {
		cp := *p
		return &cp, false, nil
	}
	now := time.Now()
	p.Status = domain.PaymentCaptured
	p.GatewayPaymentID = gatewayPaymentID
	p.Method = method
	p.CapturedAt = &now
	cp := *p
	return &cp, true, nil
}

func (f *fakeStore) Fail(_ context.Context, orderID string) (*models.Payment, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.paymentByOrderLocked(orderID)
	if p == nil {
		return nil, false, domain.ErrPaymentNotFound
	}
	if p.Status != domain.PaymentCreated {
		cp := *p
		return &cp, false, nil
	}
	p.Status = domain.PaymentFailed
	cp := *p
	return &cp, true, nil
}

func (f *fakeStore) FailByBooking(_ context.Context, bookingID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.BookingID == bookingID && p.Status == domain.PaymentCreated {
			p.Status = domain.PaymentFailed
		}
	}
	return nil
}

// RefundStore

func (f *fakeStore) CreateChecked(_ context.Context, refund *models.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[refund.PaymentID]
	if !ok {
		return domain.ErrPaymentNotFound
	}
	if p.Status != domain.PaymentCaptured {
		return domain.ErrRefundNotCaptured
	}
	var reserved int64
	for _, r := range f.refunds {
		if r.PaymentID == p.ID && (r.Status == domain.RefundPending || r.Status == domain.RefundCompleted) {
			reserved += r.AmountPaise
		}
	}
	remaining := p.TotalPaise - reserved
	if refund.AmountPaise == 0 {
		refund.AmountPaise = remaining
	}
	if refund.AmountPaise <= 0 || refund.AmountPaise > remaining {
		return domain.ErrRefundExceeds
	}
	f.nextRefundID++
	refund.ID = f.nextRefundID
	refund.Status = domain.RefundPending
	cp := *refund
	f.refunds[refund.ID] = &cp
	return nil
}

func (f *fakeStore) GetRefund(_ context.Context, id uint) (*models.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.refunds[id]
	if !ok {
		return nil, domain.ErrRefundNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ListByPayment(_ context.Context, paymentID uint) ([]models.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Refund
	for _, r := range f.refunds {
		if r.PaymentID == paymentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) SetGatewayRef(_ context.Context, refundID uint, gatewayRefundID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.refunds[refundID]
	if !ok {
		return domain.ErrRefundNotFound
	}
	r.GatewayRefundID = gatewayRefundID
	return nil
}

func (f *fakeStore) MarkFailed(_ context.Context, refundID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.refunds[refundID]
	if !ok {
		return domain.ErrRefundNotFound
	}
	if r.Status == domain.RefundPending {
		r.Status = domain.RefundFailed
	}
	return nil
}

func (f *fakeStore) Settle(_ context.Context, gatewayRefundID string, success bool) (*models.Refund, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.refunds {
		if r.GatewayRefundID != gatewayRefundID {
			continue
		}
		if r.Status != domain.RefundPending {
			cp := *r
			return &cp, false, nil
		}
		now := time.Now()
		r.Status = domain.RefundFailed
		if success {
			r.Status = domain.RefundCompleted
		}
		r.ProcessedAt = &now
		cp := *r
		return &cp, true, nil
	}
	return nil, false, domain.ErrRefundNotFound
}

// EventStore

func (f *fakeStore) Record(_ context.Context, ev *models.WebhookEvent) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.events[ev.EventID]; exists {
		return false, nil
	}
	f.nextEventID++
	ev.ID = f.nextEventID
	f.events[ev.EventID] = ev
	return true, nil
}

func (f *fakeStore) GetByEventID(_ context.Context, eventID string) (*models.WebhookEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s not recorded", eventID)
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeStore) MarkProcessed(_ context.Context, id uint, status, note string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, ev := range f.events {
		if ev.ID == id {
			now := time.Now()
			ev.Status = status
			ev.Note = note
			ev.ProcessedAt = &now
			return nil
		}
	}
	return fmt.Errorf("event %d not recorded", id)
}

func (f *fakeStore) eventStatus(eventID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev, ok := f.events[eventID]
	if !ok {
		return ""
	}
	return ev.Status
}

// paymentStoreAdapter resolves the GetByID name collision between the
// booking and payment interfaces on the shared fake.
type paymentStoreAdapter struct{ *fakeStore }

func (a paymentStoreAdapter) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	return a.GetPayment(ctx, id)
}

type refundStoreAdapter struct{ *fakeStore }

func (a refundStoreAdapter) GetByID(ctx context.Context, id uint) (*models.Refund, error) {
	return a.GetRefund(ctx, id)
}

// recordingNotifier captures outbound notifications for assertions.
type recordingNotifier struct {
	mu         sync.Mutex
	confirmed  []uint
	cancelled  []uint
	refundSeen []uint
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b *models.Booking) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b.ID)
}

func (n *recordingNotifier) BookingCancelled(_ context.Context, b *models.Booking, _ string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, b.ID)
}

func (n *recordingNotifier) RefundUpdate(_ context.Context, _ uint, r *models.Refund) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.refundSeen = append(n.refundSeen, r.ID)
}

func testMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// failingProvider errors on every gateway call.
type failingProvider struct{}

func (failingProvider) CreateOrder(context.Context, gateway.OrderRequest) (*gateway.Order, error) {
	return nil, fmt.Errorf("gateway unavailable")
}

func (failingProvider) CreateRefund(context.Context, gateway.RefundRequest) (*gateway.RefundRef, error) {
	return nil, fmt.Errorf("gateway unavailable")
}

type testEnv struct {
	store        *fakeStore
	notifier     *recordingNotifier
	provider     gateway.Provider
	bookings     *BookingService
	refunds      *RefundService
	availability *AvailabilityService
	reconciler   *Reconciler
	now          time.Time
}

// newTestEnv wires the services over the in-memory store with a fixed clock
// and one approved court open 06:00-22:00 at 50000 paise per hour.
func newTestEnv(provider gateway.Provider) *testEnv {
	store := newFakeStore()
	store.addCourt(&models.Court{
		ID:                1,
		FacilityID:        1,
		Name:              "Court 1",
		Sport:             "badminton",
		OpeningTime:       "06:00",
		ClosingTime:       "22:00",
		PricePerHourPaise: 50000,
		IsActive:          true,
		Facility:          models.Facility{ID: 1, OwnerID: 7, ApprovalStatus: domain.ApprovalApproved},
	})
	if provider == nil {
		provider = gateway.NewStubProvider()
	}

	notifier := &recordingNotifier{}
	m := testMetrics()
	logger := testLogger()
	payments := paymentStoreAdapter{store}
	refundStore := refundStoreAdapter{store}

	bookingCfg := config.BookingConfig{
		SlotMinutes:      60,
		MaxDurationHours: 8,
		PaymentExpiry:    15 * time.Minute,
	}
	gatewayCfg := config.GatewayConfig{ProcessingFeeBps: 200, GSTBps: 1800}

	refunds := NewRefundService(refundStore, payments, provider, notifier, m, logger)
	bookings := NewBookingService(store, payments, store, refunds, provider, notifier, nil, m, bookingCfg, gatewayCfg, logger)
	availability := NewAvailabilityService(store, store, nil, 60, logger)
	reconciler := NewReconciler(store, payments, refundStore, bookings, m, logger)

	env := &testEnv{
		store:        store,
		notifier:     notifier,
		provider:     provider,
		bookings:     bookings,
		refunds:      refunds,
		availability: availability,
		reconciler:   reconciler,
		now:          time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local),
	}
	bookings.now = func() time.Time { return env.now }
	return env
}
