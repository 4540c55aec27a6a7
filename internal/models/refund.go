package models

import "time"

// Refund tracks money flowing back against a captured Payment. Invariant:
// the sum of COMPLETED refund amounts for a payment never exceeds that
// payment's TotalPaise.
type Refund struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	PaymentID       uint       `gorm:"not null;index" json:"payment_id"`
	GatewayRefundID string     `gorm:"size:64;index" json:"gateway_refund_id,omitempty"`
	AmountPaise     int64      `gorm:"not null" json:"amount_paise"`
	Status          string     `gorm:"size:20;not null;index" json:"status"`
	Reason          string     `gorm:"size:255" json:"reason"`
	RequestedBy     string     `gorm:"size:20" json:"requested_by"`
	CreatedAt       time.Time  `json:"created_at"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`

	Payment Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

func (Refund) TableName() string {
	return "refunds"
}
