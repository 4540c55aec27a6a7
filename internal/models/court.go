package models

import "time"

// Court belongs to one Facility. Operating hours are time-of-day strings in
// "HH:MM"; OpeningTime must sort before ClosingTime.
type Court struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	FacilityID        uint      `gorm:"not null;index" json:"facility_id"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	Sport             string    `gorm:"size:50" json:"sport"`
	OpeningTime       string    `gorm:"size:5;not null" json:"opening_time"`
	ClosingTime       string    `gorm:"size:5;not null" json:"closing_time"`
	PricePerHourPaise int64     `gorm:"not null" json:"price_per_hour_paise"`
	IsActive          bool      `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Facility Facility `gorm:"foreignKey:FacilityID" json:"-"`
}

func (Court) TableName() string {
	return "courts"
}
