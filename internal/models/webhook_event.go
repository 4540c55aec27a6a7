package models

import "time"

// WebhookEvent is the durable record of every gateway callback, written
// before any business-logic branch. The unique EventID is the idempotency
// key: a second insert for the same event is a duplicate delivery.
type WebhookEvent struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	EventID          string     `gorm:"size:128;uniqueIndex;not null" json:"event_id"`
	EventType        string     `gorm:"size:64;index" json:"event_type"`
	GatewayOrderID   string     `gorm:"size:64;index" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string     `gorm:"size:64;index" json:"gateway_payment_id,omitempty"`
	GatewayRefundID  string     `gorm:"size:64" json:"gateway_refund_id,omitempty"`
	AmountPaise      int64      `json:"amount_paise"`
	RawBody          string     `gorm:"type:text" json:"-"`
	Status           string     `gorm:"size:20;not null;index" json:"status"`
	Note             string     `gorm:"size:255" json:"note,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	ProcessedAt      *time.Time `json:"processed_at,omitempty"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
