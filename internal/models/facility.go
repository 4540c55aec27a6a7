package models

import "time"

// Facility is a venue owned by an OWNER user. Its courts become bookable
// only after an admin moves ApprovalStatus to APPROVED.
type Facility struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OwnerID        uint      `gorm:"not null;index" json:"owner_id"`
	Name           string    `gorm:"size:150;not null" json:"name"`
	Address        string    `gorm:"size:255" json:"address"`
	City           string    `gorm:"size:100;index" json:"city"`
	Description    string    `gorm:"type:text" json:"description"`
	ApprovalStatus string    `gorm:"size:20;not null;default:'PENDING';index" json:"approval_status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Owner  User    `gorm:"foreignKey:OwnerID" json:"-"`
	Courts []Court `gorm:"foreignKey:FacilityID" json:"courts,omitempty"`
}

func (Facility) TableName() string {
	return "facilities"
}
