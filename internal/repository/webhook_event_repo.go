package repository

import (
	"context"
	"errors"
	"time"

	"courtside/internal/domain"
	"courtside/internal/models"

	"gorm.io/gorm"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{db: db}
}

// Record durably stores the raw event before any business branch. Returns
// false when the event id was already recorded — a duplicate delivery.
func (r *WebhookEventRepository) Record(ctx context.Context, ev *models.WebhookEvent) (bool, error) {
	err := r.db.WithContext(ctx).Create(ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// GetByEventID loads a previously recorded event by its idempotency key.
func (r *WebhookEventRepository) GetByEventID(ctx context.Context, eventID string) (*models.WebhookEvent, error) {
	var ev models.WebhookEvent
	if err := r.db.WithContext(ctx).Where("event_id = ?", eventID).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// MarkProcessed records the outcome of applying an event.
func (r *WebhookEventRepository) MarkProcessed(ctx context.Context, id uint, status, note string) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.WebhookEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"note":         note,
			"processed_at": now,
		}).Error
}

// ListFlagged returns events awaiting manual reconciliation, oldest first.
func (r *WebhookEventRepository) ListFlagged(ctx context.Context, limit int) ([]models.WebhookEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var out []models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.EventFlagged).
		Order("created_at ASC").
		Limit(limit).
		Find(&out).Error
	return out, err
}
