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

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

// CreateChecked inserts a refund only if the payment is CAPTURED and the
// requested amount fits the remaining balance. PENDING refunds count against
// the balance too, so concurrent requests cannot oversubscribe a payment.
// The check and insert share one transaction with the payment row locked.
func (r *RefundRepository) CreateChecked(ctx context.Context, refund *models.Refund) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, refund.PaymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}
		if p.Status != domain.PaymentCaptured {
			return domain.ErrRefundNotCaptured
		}

		var reserved int64
		if err := tx.Model(&models.Refund{}).
			Where("payment_id = ? AND status IN ?", p.ID, []string{domain.RefundPending, domain.RefundCompleted}).
			Select("COALESCE(SUM(amount_paise), 0)").Scan(&reserved).Error; err != nil {
			return err
		}
		remaining := p.TotalPaise - reserved
		if refund.AmountPaise == 0 {
			refund.AmountPaise = remaining
		}
		if refund.AmountPaise <= 0 || refund.AmountPaise > remaining {
			return domain.ErrRefundExceeds
		}
		refund.Status = domain.RefundPending
		return tx.Create(refund).Error
	})
}

func (r *RefundRepository) GetByID(ctx context.Context, id uint) (*models.Refund, error) {
	var rf models.Refund
	if err := r.db.WithContext(ctx).First(&rf, id).Error; err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *RefundRepository) ListByPayment(ctx context.Context, paymentID uint) ([]models.Refund, error) {
	var out []models.Refund
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}

// SetGatewayRef stores the gateway's refund reference after initiation.
func (r *RefundRepository) SetGatewayRef(ctx context.Context, refundID uint, gatewayRefundID string) error {
	return r.db.WithContext(ctx).Model(&models.Refund{}).
		Where("id = ?", refundID).
		Update("gateway_refund_id", gatewayRefundID).Error
}

// MarkFailed terminally fails a refund whose gateway initiation never
// succeeded.
func (r *RefundRepository) MarkFailed(ctx context.Context, refundID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&models.Refund{}).
		Where("id = ? AND status = ?", refundID, domain.RefundPending).
		Updates(map[string]interface{}{
			"status":       domain.RefundFailed,
			"processed_at": now,
		}).Error
}

// Settle moves a PENDING refund to COMPLETED or FAILED, keyed by the
// gateway's refund reference. Already-terminal refunds report transitioned
// false, which the reconciler treats as a duplicate delivery.
func (r *RefundRepository) Settle(ctx context.Context, gatewayRefundID string, success bool) (*models.Refund, bool, error) {
	var rf models.Refund
	transitioned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("gateway_refund_id = ?", gatewayRefundID).First(&rf).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRefundNotFound
			}
			return err
		}
		if rf.Status != domain.RefundPending {
			return nil
		}
		now := time.Now()
		rf.Status = domain.RefundFailed
		if success {
			rf.Status = domain.RefundCompleted
		}
		rf.ProcessedAt = &now
		transitioned = true
		return tx.Model(&rf).Updates(map[string]interface{}{
			"status":       rf.Status,
			"processed_at": now,
		}).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &rf, transitioned, nil
}
