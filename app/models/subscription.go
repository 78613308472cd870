package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubscriptionStatusActive    = "ACTIVE"
	SubscriptionStatusCancelled = "CANCELLED"
	SubscriptionStatusExpired   = "EXPIRED"
)

const (
	BillingIntervalMonth = "month"
	BillingIntervalYear  = "year"
)

// TrialDurationDays is the access window granted by a trial purchase.
const TrialDurationDays = 7

// Subscription is one purchased access window for a plan. The
// CheckoutSessionID comes from the hosted checkout provider and records
// the session that created the row; renewal sessions live only in the
// order ledger. Repeated verification of any session must not provision
// or extend twice.
type Subscription struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	PlanID            uint       `gorm:"not null;index" json:"plan_id"`
	Plan              Plan       `gorm:"foreignKey:PlanID" json:"plan"`
	Status            string     `gorm:"type:varchar(20);not null;default:'ACTIVE';index" json:"status"`
	StartDate         time.Time  `gorm:"not null" json:"start_date"`
	EndDate           time.Time  `gorm:"not null;index" json:"end_date"`
	ActivatedAt       *time.Time `gorm:"type:timestamp;default:null" json:"activated_at,omitempty"`
	IsTrial           bool       `gorm:"default:false" json:"is_trial"`
	BillingInterval   string     `gorm:"type:varchar(16);not null;default:'month'" json:"billing_interval"`
	CheckoutSessionID string     `gorm:"type:varchar(191);uniqueIndex;not null" json:"checkout_session_id"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// Duration returns the length of the paid access window.
func (s *Subscription) Duration() time.Duration {
	return s.EndDate.Sub(s.StartDate)
}

// IsExpired reports whether the access window has passed, regardless of
// the stored status. Expiry is a derived state here; the status column
// may lag behind until MarkExpiredSubscriptions runs.
func (s *Subscription) IsExpired(now time.Time) bool {
	return now.After(s.EndDate)
}

func FindSubscriptionsByUser(db *gorm.DB, userID uint) ([]Subscription, error) {
	var subs []Subscription
	err := db.Preload("Plan").Where("user_id = ?", userID).Order("created_at ASC").Find(&subs).Error
	return subs, err
}

func FindSubscriptionByCheckoutSession(db *gorm.DB, sessionID string) (*Subscription, error) {
	var sub Subscription
	err := db.Preload("Plan").Where("checkout_session_id = ?", sessionID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
