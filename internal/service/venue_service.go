package service

import (
	"context"

	"courtside/internal/cache"
	"courtside/internal/domain"
	"courtside/internal/models"
	"courtside/internal/repository"

	"github.com/rs/zerolog"
)

// VenueService covers facility/court master data: public listings, the
// admin approval gate, and owner slot blocking.
type VenueService struct {
	facilities *repository.FacilityRepository
	courts     *repository.CourtRepository
	cache      *cache.AvailabilityCache
	logger     zerolog.Logger
}

func NewVenueService(facilities *repository.FacilityRepository, courts *repository.CourtRepository, c *cache.AvailabilityCache, logger zerolog.Logger) *VenueService {
	return &VenueService{facilities: facilities, courts: courts, cache: c, logger: logger}
}

func (s *VenueService) List(ctx context.Context, city string, limit, offset int) ([]models.Facility, error) {
	return s.facilities.ListApproved(ctx, city, limit, offset)
}

// Popular lists approved facilities under the requested ranking strategy.
func (s *VenueService) Popular(ctx context.Context, rankBy string, limit int) ([]models.Facility, error) {
	if rankBy != domain.RankByBookings {
		rankBy = domain.RankByCourts
	}
	return s.facilities.ListPopular(ctx, rankBy, limit)
}

func (s *VenueService) Courts(ctx context.Context, facilityID uint) ([]models.Court, error) {
	if _, err := s.facilities.GetByID(ctx, facilityID); err != nil {
		return nil, err
	}
	return s.courts.ListByFacility(ctx, facilityID)
}

// SetApproval records the admin decision. Rejecting a facility makes all its
// courts unbookable immediately (booking creation checks the gate on read).
func (s *VenueService) SetApproval(ctx context.Context, facilityID uint, approve bool) (*models.Facility, error) {
	status := domain.ApprovalRejected
	if approve {
		status = domain.ApprovalApproved
	}
	if err := s.facilities.SetApproval(ctx, facilityID, status); err != nil {
		return nil, err
	}
	s.logger.Info().Uint("facility_id", facilityID).Str("status", status).Msg("facility approval updated")
	return s.facilities.GetByID(ctx, facilityID)
}

// BlockSlot takes a court interval out of circulation for a date. The owner
// of the facility is the only actor allowed; handlers enforce that with the
// ownership check here.
func (s *VenueService) BlockSlot(ctx context.Context, ownerID uint, slot *models.TimeSlot) error {
	court, err := s.courts.GetWithFacility(ctx, slot.CourtID)
	if err != nil {
		return err
	}
	if court.Facility.OwnerID != ownerID {
		return domain.ErrNotOwner
	}
	slot.IsBlocked = true
	if err := s.courts.BlockSlot(ctx, slot); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, slot.CourtID, slot.SlotDate)
	return nil
}
