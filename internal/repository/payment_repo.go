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

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByBookingID(ctx context.Context, bookingID uint) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var p models.Payment
	if err := r.db.WithContext(ctx).Where("gateway_order_id = ?", orderID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return &p, nil
}

// SetGatewayOrder records the external order reference once the gateway
// accepted the order. No-op when the same reference is already stored, so
// order creation stays idempotent per booking.
func (r *PaymentRepository) SetGatewayOrder(ctx context.Context, paymentID uint, orderID string) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND (gateway_order_id IS NULL OR gateway_order_id = ?)", paymentID, orderID).
		Update("gateway_order_id", orderID).Error
}

// Capture marks the payment CAPTURED under a row lock. Returns the payment
// and whether this call actually transitioned it; an already-CAPTURED
// payment reports false with no error (duplicate webhook). A FAILED payment
// still captures: the gateway took the money, and the reconciler flags the
// dead booking afterwards.
func (r *PaymentRepository) Capture(ctx context.Context, orderID, gatewayPaymentID, method string) (*models.Payment, bool, error) {
	var p models.Payment
	transitioned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("gateway_order_id = ?", orderID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}
		if p.Status == domain.PaymentCaptured {
			return nil
		}
		now := time.Now()
		p.Status = domain.PaymentCaptured
		p.GatewayPaymentID = gatewayPaymentID
		p.Method = method
		p.CapturedAt = &now
		transitioned = true
		return tx.Model(&p).Updates(map[string]interface{}{
			"status":             domain.PaymentCaptured,
			"gateway_payment_id": gatewayPaymentID,
			"method":             method,
			"captured_at":        now,
		}).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &p, transitioned, nil
}

// Fail marks the payment FAILED unless it is already CAPTURED — a late
// "failed" event must not regress a captured payment.
func (r *PaymentRepository) Fail(ctx context.Context, orderID string) (*models.Payment, bool, error) {
	var p models.Payment
	transitioned := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("gateway_order_id = ?", orderID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrPaymentNotFound
			}
			return err
		}
		if p.Status != domain.PaymentCreated {
			return nil
		}
		p.Status = domain.PaymentFailed
		transitioned = true
		return tx.Model(&p).Update("status", domain.PaymentFailed).Error
	})
	if err != nil {
		return nil, false, err
	}
	return &p, transitioned, nil
}

// FailByBooking fails a payment that never reached the gateway (order
// creation failed after the reserve transaction committed).
func (r *PaymentRepository) FailByBooking(ctx context.Context, bookingID uint) error {
	return r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("booking_id = ? AND status = ?", bookingID, domain.PaymentCreated).
		Update("status", domain.PaymentFailed).Error
}
