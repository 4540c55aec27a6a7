package repository

import (
	"context"
	"errors"
	"time"

	"courtside/internal/domain"
	"courtside/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// ReserveAndCreate is the reservation guard: the overlap check and the
// booking+payment insert run in one transaction, with candidate rows locked,
// so two concurrent requests for intersecting intervals cannot both commit.
// Overlap: existing.start < candidate.end AND candidate.start < existing.end.
func (r *BookingRepository) ReserveAndCreate(ctx context.Context, b *models.Booking, p *models.Payment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Booking
		err := tx.Model(&models.Booking{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("court_id = ? AND booking_date = ? AND status IN ?",
				b.CourtID, b.BookingDate, []string{domain.BookingPending, domain.BookingConfirmed}).
			Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime).
			Take(&existing).Error
		if err == nil {
			return domain.ErrSlotUnavailable
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		var blocked models.TimeSlot
		err = tx.Model(&models.TimeSlot{}).
			Where("court_id = ? AND slot_date = ? AND is_blocked = ?", b.CourtID, b.BookingDate, true).
			Where("start_time < ? AND end_time > ?", b.EndTime, b.StartTime).
			Take(&blocked).Error
		if err == nil {
			return domain.ErrSlotUnavailable
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(b).Error; err != nil {
			return err
		}
		p.BookingID = b.ID
		return tx.Create(p).Error
	})
	if err != nil {
		// A unique-index race inside the window also means the slot is gone.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrSlotUnavailable
		}
		return err
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uint) (*models.Booking, error) {
	var b models.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListActiveForDate returns PENDING and CONFIRMED bookings for a court+date,
// ordered by start time. This is the availability calculator's input.
func (r *BookingRepository) ListActiveForDate(ctx context.Context, courtID uint, date string) ([]models.Booking, error) {
	var out []models.Booking
	err := r.db.WithContext(ctx).
		Where("court_id = ? AND booking_date = ? AND status IN ?",
			courtID, date, []string{domain.BookingPending, domain.BookingConfirmed}).
		Order("start_time ASC").
		Find(&out).Error
	return out, err
}

func (r *BookingRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Booking, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []models.Booking
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&out).Error
	return out, err
}

// Confirm moves PENDING to CONFIRMED under a row lock. Confirming an
// already-CONFIRMED booking is a no-op (the bool reports whether this call
// made the transition); any other state is a transition conflict.
func (r *BookingRepository) Confirm(ctx context.Context, id uint) (*models.Booking, bool, error) {
	var b models.Booking
	transitioned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookingNotFound
			}
			return err
		}
		switch b.Status {
		case domain.BookingConfirmed:
			return nil
		case domain.BookingPending:
			b.Status = domain.BookingConfirmed
			transitioned = true
			return tx.Model(&b).Update("status", domain.BookingConfirmed).Error
		default:
			return domain.ErrInvalidTransition
		}
	})
	if err != nil {
		return nil, false, err
	}
	return &b, transitioned, nil
}

// Cancel moves PENDING or CONFIRMED to CANCELLED, which releases the slot
// for new reservations (cancelled rows fall out of the overlap predicate).
func (r *BookingRepository) Cancel(ctx context.Context, id uint, actor, reason string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrBookingNotFound
			}
			return err
		}
		if b.Status != domain.BookingPending && b.Status != domain.BookingConfirmed {
			return domain.ErrInvalidTransition
		}
		b.Status = domain.BookingCancelled
		b.CancelReason = reason
		b.CancelledBy = actor
		return tx.Model(&b).Updates(map[string]interface{}{
			"status":        domain.BookingCancelled,
			"cancel_reason": reason,
			"cancelled_by":  actor,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ExpirePending cancels PENDING bookings created before the cutoff whose
// payment never reached CAPTURED, failing the payment in the same
// transaction. Returns the cancelled bookings so the caller can notify and
// invalidate caches.
func (r *BookingRepository) ExpirePending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	var expired []models.Booking
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Joins("JOIN payments ON payments.booking_id = bookings.id").
			Where("bookings.status = ? AND bookings.created_at < ? AND payments.status <> ?",
				domain.BookingPending, cutoff, domain.PaymentCaptured).
			Find(&expired).Error; err != nil {
			return err
		}
		for i := range expired {
			expired[i].Status = domain.BookingCancelled
			expired[i].CancelReason = domain.CancelReasonPaymentTimeout
			expired[i].CancelledBy = domain.ActorSystem
			if err := tx.Model(&models.Booking{}).Where("id = ?", expired[i].ID).
				Updates(map[string]interface{}{
					"status":        domain.BookingCancelled,
					"cancel_reason": domain.CancelReasonPaymentTimeout,
					"cancelled_by":  domain.ActorSystem,
				}).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Payment{}).
				Where("booking_id = ? AND status = ?", expired[i].ID, domain.PaymentCreated).
				Update("status", domain.PaymentFailed).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

// CompleteElapsed flips CONFIRMED bookings whose end time has passed to
// COMPLETED. Pure bookkeeping, no payment side effects.
func (r *BookingRepository) CompleteElapsed(ctx context.Context, today, nowTime string) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ?", domain.BookingConfirmed).
		Where("booking_date < ? OR (booking_date = ? AND end_time <= ?)", today, today, nowTime).
		Update("status", domain.BookingCompleted)
	return res.RowsAffected, res.Error
}
