package repository

import (
	"context"
	"errors"

	"courtside/internal/domain"
	"courtside/internal/models"

	"gorm.io/gorm"
)

type FacilityRepository struct {
	db *gorm.DB
}

func NewFacilityRepository(db *gorm.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

func (r *FacilityRepository) GetByID(ctx context.Context, id uint) (*models.Facility, error) {
	var f models.Facility
	if err := r.db.WithContext(ctx).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFacilityNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FacilityRepository) ListApproved(ctx context.Context, city string, limit, offset int) ([]models.Facility, error) {
	if limit <= 0 {
		limit = 20
	}
	q := r.db.WithContext(ctx).Where("approval_status = ?", domain.ApprovalApproved)
	if city != "" {
		q = q.Where("city = ?", city)
	}
	var out []models.Facility
	err := q.Order("name ASC").Limit(limit).Offset(offset).Find(&out).Error
	return out, err
}

// ListPopular ranks approved facilities by the requested strategy. The
// ranking order is deliberately a parameter, not a fixed rule.
func (r *FacilityRepository) ListPopular(ctx context.Context, rankBy string, limit int) ([]models.Facility, error) {
	if limit <= 0 {
		limit = 10
	}
	base := r.db.WithContext(ctx).Model(&models.Facility{}).
		Where("facilities.approval_status = ?", domain.ApprovalApproved)

	var order string
	switch rankBy {
	case domain.RankByBookings:
		base = base.
			Joins("LEFT JOIN courts ON courts.facility_id = facilities.id").
			Joins("LEFT JOIN bookings ON bookings.court_id = courts.id AND bookings.status IN ('CONFIRMED','COMPLETED')").
			Group("facilities.id")
		order = "COUNT(bookings.id) DESC, facilities.created_at ASC"
	default: // domain.RankByCourts
		base = base.
			Joins("LEFT JOIN courts ON courts.facility_id = facilities.id").
			Group("facilities.id")
		order = "COUNT(courts.id) DESC, facilities.created_at ASC"
	}

	var out []models.Facility
	err := base.Select("facilities.*").Order(order).Limit(limit).Find(&out).Error
	return out, err
}

// SetApproval records the admin decision on a facility.
func (r *FacilityRepository) SetApproval(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Facility{}).
		Where("id = ?", id).
		Update("approval_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrFacilityNotFound
	}
	return nil
}
