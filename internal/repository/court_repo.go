package repository

import (
	"context"
	"errors"

	"courtside/internal/domain"
	"courtside/internal/models"

	"gorm.io/gorm"
)

type CourtRepository struct {
	db *gorm.DB
}

func NewCourtRepository(db *gorm.DB) *CourtRepository {
	return &CourtRepository{db: db}
}

// GetWithFacility loads a court together with its facility so callers can
// check both the active flag and the approval gate in one read.
func (r *CourtRepository) GetWithFacility(ctx context.Context, id uint) (*models.Court, error) {
	var c models.Court
	if err := r.db.WithContext(ctx).Preload("Facility").First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCourtNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CourtRepository) ListByFacility(ctx context.Context, facilityID uint) ([]models.Court, error) {
	var out []models.Court
	err := r.db.WithContext(ctx).
		Where("facility_id = ?", facilityID).
		Order("name ASC").
		Find(&out).Error
	return out, err
}

// ListBlockedSlots returns owner-blocked intervals for a court+date.
func (r *CourtRepository) ListBlockedSlots(ctx context.Context, courtID uint, date string) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	err := r.db.WithContext(ctx).
		Where("court_id = ? AND slot_date = ? AND is_blocked = ?", courtID, date, true).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (r *CourtRepository) BlockSlot(ctx context.Context, slot *models.TimeSlot) error {
	err := r.db.WithContext(ctx).Create(slot).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrSlotUnavailable
	}
	return err
}
