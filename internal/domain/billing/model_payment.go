package billing

import (
	"errors"
	"time"

	"artshare-api/internal/domain/gallery"

	"gorm.io/gorm"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusExpired = "expired"
)

var ErrAlreadyPaid = errors.New("commission already paid")

// Payment is one Stripe checkout attempt for a commission.
type Payment struct {
	ID              uint                `gorm:"primaryKey"`
	CommissionID    uint                `gorm:"not null;index"`
	Commission      *gallery.Commission `gorm:"constraint:OnDelete:CASCADE;"`
	StripeSessionID string              `gorm:"uniqueIndex"`
	AmountEUR       float64
	Status          string `gorm:"size:20;not null;default:'pending'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Payment) TableName() string { return "commission_payments" }

// MarkCheckoutPaid settles the payment for a completed checkout session and
// stamps the commission. Replayed events leave the first paid_at untouched.
func MarkCheckoutPaid(tx *gorm.DB, sessionID string, paidAt time.Time) (*Payment, error) {
	var p Payment
	if err := tx.Where("stripe_session_id = ?", sessionID).First(&p).Error; err != nil {
		return nil, err
	}
	if p.Status != StatusPaid {
		if err := tx.Model(&p).Update("status", StatusPaid).Error; err != nil {
			return nil, err
		}
	}
	err := tx.Model(&gallery.Commission{}).
		Where("id = ? AND paid_at IS NULL", p.CommissionID).
		Update("paid_at", paidAt).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// MarkCheckoutExpired flags an abandoned session. Paid sessions are kept.
func MarkCheckoutExpired(tx *gorm.DB, sessionID string) error {
	return tx.Model(&Payment{}).
		Where("stripe_session_id = ? AND status <> ?", sessionID, StatusPaid).
		Update("status", StatusExpired).Error
}

// EnsureUnpaid returns ErrAlreadyPaid when the commission was settled before.
func EnsureUnpaid(m *gallery.Commission) error {
	if m.PaidAt != nil {
		return ErrAlreadyPaid
	}
	return nil
}

func ListForCommission(db *gorm.DB, commissionID uint) ([]Payment, error) {
	var out []Payment
	err := db.Where("commission_id = ?", commissionID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}
