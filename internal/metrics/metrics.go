package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the application counters. Constructed once in main with a
// registry so tests can use isolated instances.
type Metrics struct {
	BookingsCreated  prometheus.Counter
	BookingConflicts prometheus.Counter
	BookingsExpired  prometheus.Counter
	WebhookEvents    *prometheus.CounterVec
	RefundsCreated   prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "courtside_bookings_created_total",
			Help: "Bookings successfully reserved and persisted.",
		}),
		BookingConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "courtside_booking_conflicts_total",
			Help: "Reservation attempts rejected because the slot was taken.",
		}),
		BookingsExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "courtside_bookings_expired_total",
			Help: "PENDING bookings cancelled by the payment-timeout sweep.",
		}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "courtside_webhook_events_total",
			Help: "Gateway webhook events by processing outcome.",
		}, []string{"outcome"}),
		RefundsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "courtside_refunds_created_total",
			Help: "Refund requests accepted.",
		}),
	}
}
