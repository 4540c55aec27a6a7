package models

import "time"

// Payment is the 1:1 financial shadow of a Booking. All amounts are paise.
// TotalPaise = AmountPaise + ProcessingFeePaise + GSTPaise and is the figure
// the gateway must capture. Immutable once CAPTURED except for refund
// aggregation. GatewayOrderID is NULL until the gateway accepts the order;
// a nullable column keeps the unique index safe for rows whose order was
// never created (MySQL unique indexes allow many NULLs but not many '').
type Payment struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	BookingID          uint       `gorm:"not null;uniqueIndex" json:"booking_id"`
	GatewayOrderID     *string    `gorm:"size:64;uniqueIndex" json:"gateway_order_id,omitempty"`
	GatewayPaymentID   string     `gorm:"size:64;index" json:"gateway_payment_id,omitempty"`
	AmountPaise        int64      `gorm:"not null" json:"amount_paise"`
	ProcessingFeePaise int64      `gorm:"not null" json:"processing_fee_paise"`
	GSTPaise           int64      `gorm:"not null" json:"gst_paise"`
	TotalPaise         int64      `gorm:"not null" json:"total_paise"`
	Currency           string     `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Method             string     `gorm:"size:20" json:"method,omitempty"`
	Status             string     `gorm:"size:20;not null;index" json:"status"`
	CapturedAt         *time.Time `json:"captured_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	Booking Booking  `gorm:"foreignKey:BookingID" json:"-"`
	Refunds []Refund `gorm:"foreignKey:PaymentID" json:"refunds,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
