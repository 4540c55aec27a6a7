package models

import "time"

// Booking is one user's claim on a court interval for a date. Rows are never
// deleted; status transitions stand in for deletion. BookingDate is
// "YYYY-MM-DD", Start/EndTime are "HH:MM" — zero-padded so lexicographic
// comparison matches chronological order in SQL.
type Booking struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	CourtID      uint      `gorm:"not null;index:idx_bookings_court_date,priority:1" json:"court_id"`
	BookingDate  string    `gorm:"size:10;not null;index:idx_bookings_court_date,priority:2" json:"booking_date"`
	StartTime    string    `gorm:"size:5;not null;index:idx_bookings_court_date,priority:3" json:"start_time"`
	EndTime      string    `gorm:"size:5;not null" json:"end_time"`
	Status       string    `gorm:"size:20;not null;index" json:"status"`
	TotalPaise   int64     `gorm:"not null" json:"total_paise"`
	CancelReason string    `gorm:"size:255" json:"cancel_reason,omitempty"`
	CancelledBy  string    `gorm:"size:20" json:"cancelled_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	User  User  `gorm:"foreignKey:UserID" json:"-"`
	Court Court `gorm:"foreignKey:CourtID" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}
