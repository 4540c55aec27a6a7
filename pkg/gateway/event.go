package gateway

import "encoding/json"

// EventKind is the closed set of webhook event variants the reconciler
// understands. Anything else parses as EventUnknown — logged, never fatal.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventPaymentCaptured
	EventPaymentFailed
	EventRefundProcessed
	EventRefundFailed
)

const (
	TypePaymentCaptured = "payment.captured"
	TypePaymentFailed   = "payment.failed"
	TypeRefundProcessed = "refund.processed"
	TypeRefundFailed    = "refund.failed"
)

type PaymentEntity struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	AmountPaise int64  `json:"amount"`
	Currency    string `json:"currency"`
	Method      string `json:"method"`
	Status      string `json:"status"`
}

type RefundEntity struct {
	ID          string `json:"id"`
	PaymentID   string `json:"payment_id"`
	AmountPaise int64  `json:"amount"`
	Status      string `json:"status"`
}

// Event is the parsed webhook payload. Exactly one of Payment/Refund is set
// for the known kinds; both are nil for EventUnknown.
type Event struct {
	Kind    EventKind
	ID      string
	Type    string
	Payment *PaymentEntity
	Refund  *RefundEntity
}

type wireEvent struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payload struct {
		Payment *PaymentEntity `json:"payment,omitempty"`
		Refund  *RefundEntity  `json:"refund,omitempty"`
	} `json:"payload"`
}

// ParseEvent decodes a raw webhook body. It errors only on malformed JSON;
// unrecognized event names come back as EventUnknown so callers can record
// and acknowledge them.
func ParseEvent(body []byte) (*Event, error) {
	var w wireEvent
	if err := json.Unmarshal(body, &w); err != nil {
		return nil, err
	}
	ev := &Event{ID: w.ID, Type: w.Event}
	switch w.Event {
	case TypePaymentCaptured:
		ev.Kind = EventPaymentCaptured
		ev.Payment = w.Payload.Payment
	case TypePaymentFailed:
		ev.Kind = EventPaymentFailed
		ev.Payment = w.Payload.Payment
	case TypeRefundProcessed:
		ev.Kind = EventRefundProcessed
		ev.Refund = w.Payload.Refund
	case TypeRefundFailed:
		ev.Kind = EventRefundFailed
		ev.Refund = w.Payload.Refund
	default:
		ev.Kind = EventUnknown
	}
	if (ev.Kind == EventPaymentCaptured || ev.Kind == EventPaymentFailed) && ev.Payment == nil {
		ev.Kind = EventUnknown
	}
	if (ev.Kind == EventRefundProcessed || ev.Kind == EventRefundFailed) && ev.Refund == nil {
		ev.Kind = EventUnknown
	}
	return ev, nil
}
