package models

import "time"

const (
	OrderStatusPaid     = "paid"
	OrderStatusRefunded = "refunded"
	OrderStatusFailed   = "failed"
)

// Order is an append-only payment audit record. It is never read by the
// entitlement resolver; it exists for bookkeeping and admin export.
type Order struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	SubscriptionID    uint      `gorm:"index" json:"subscription_id"`
	PlanName          string    `gorm:"type:varchar(150);not null" json:"plan_name"`
	BillingInterval   string    `gorm:"type:varchar(20)" json:"billing_interval"`
	Amount            float64   `gorm:"not null" json:"amount"`
	Currency          string    `gorm:"type:varchar(10);not null;default:'USD'" json:"currency"`
	PaymentMethod     string    `gorm:"type:varchar(50)" json:"payment_method"`
	Status            string    `gorm:"type:varchar(20);not null;default:'paid';index" json:"status"`
	CheckoutSessionID string    `gorm:"type:varchar(191);index" json:"checkout_session_id"`
	CouponCode        string    `gorm:"type:varchar(50)" json:"coupon_code"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}
