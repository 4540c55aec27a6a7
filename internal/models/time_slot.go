package models

import "time"

// TimeSlot marks a court+date+interval as taken out of circulation by the
// owner (maintenance, private events). Availability treats blocked slots the
// same as live bookings.
type TimeSlot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CourtID   uint      `gorm:"not null;uniqueIndex:idx_slots_court_date_start,priority:1" json:"court_id"`
	SlotDate  string    `gorm:"size:10;not null;uniqueIndex:idx_slots_court_date_start,priority:2" json:"slot_date"`
	StartTime string    `gorm:"size:5;not null;uniqueIndex:idx_slots_court_date_start,priority:3" json:"start_time"`
	EndTime   string    `gorm:"size:5;not null" json:"end_time"`
	IsBlocked bool      `gorm:"not null;default:true" json:"is_blocked"`
	Reason    string    `gorm:"size:255" json:"reason"`
	CreatedAt time.Time `json:"created_at"`

	Court Court `gorm:"foreignKey:CourtID" json:"-"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}
