package service

import (
	"context"
	"encoding/json"
	"fmt"

	"courtside/internal/models"
	"courtside/internal/repository"

	"github.com/rs/zerolog"
)

// NotificationService persists fire-and-forget notifications. Delivery
// transport is out of scope; errors are logged and swallowed so no booking
// flow ever fails on a notification.
type NotificationService struct {
	repo   *repository.NotificationRepository
	logger zerolog.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, logger: logger}
}

func (s *NotificationService) notify(ctx context.Context, userID uint, notifType, title, body string, data map[string]interface{}) {
	var dataJSON string
	if data != nil {
		b, _ := json.Marshal(data)
		dataJSON = string(b)
	}
	err := s.repo.Create(ctx, &models.Notification{
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   dataJSON,
	})
	if err != nil {
		s.logger.Error().Err(err).Uint("user_id", userID).Str("type", notifType).Msg("notification create failed")
	}
}

func (s *NotificationService) BookingConfirmed(ctx context.Context, b *models.Booking) {
	s.notify(ctx, b.UserID, "BOOKING_CONFIRMED", "Booking confirmed",
		fmt.Sprintf("Your booking on %s %s-%s is confirmed.", b.BookingDate, b.StartTime, b.EndTime),
		map[string]interface{}{"booking_id": b.ID})
}

func (s *NotificationService) BookingCancelled(ctx context.Context, b *models.Booking, reason string) {
	s.notify(ctx, b.UserID, "BOOKING_CANCELLED", "Booking cancelled",
		fmt.Sprintf("Your booking on %s %s-%s was cancelled: %s.", b.BookingDate, b.StartTime, b.EndTime, reason),
		map[string]interface{}{"booking_id": b.ID, "reason": reason})
}

func (s *NotificationService) RefundUpdate(ctx context.Context, userID uint, r *models.Refund) {
	s.notify(ctx, userID, "REFUND_"+r.Status, "Refund update",
		fmt.Sprintf("Your refund of %d paise is %s.", r.AmountPaise, r.Status),
		map[string]interface{}{"refund_id": r.ID, "status": r.Status})
}
