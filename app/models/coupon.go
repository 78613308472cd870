package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// Coupon is a percent-off discount code with optional validity window,
// global usage cap and per-user cap.
type Coupon struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required,min=2,max=50"`
	PercentOff   int            `gorm:"not null" json:"percent_off" validate:"required,min=1,max=100"`
	MaxUses      int            `gorm:"default:0" json:"max_uses"`
	PerUserLimit int            `gorm:"default:1" json:"per_user_limit"`
	ValidFrom    *time.Time     `gorm:"type:timestamp;default:null" json:"valid_from,omitempty"`
	ValidUntil   *time.Time     `gorm:"type:timestamp;default:null" json:"valid_until,omitempty"`
	IsActive     bool           `gorm:"default:true;index" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// CouponUsage records one redemption of a coupon by a user.
type CouponUsage struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	CouponID uint      `gorm:"not null;index" json:"coupon_id"`
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	UsedAt   time.Time `gorm:"autoCreateTime" json:"used_at"`
}

func (c *Coupon) Validate() error {
	v := validator.New()
	return v.Struct(c)
}

// IsRedeemable reports whether the coupon can be used at the given time
// independent of per-user limits.
func (c *Coupon) IsRedeemable(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return false
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false
	}
	return true
}

// Discount applies the coupon's percentage to an amount.
func (c *Coupon) Discount(amount float64) float64 {
	return amount * float64(100-c.PercentOff) / 100
}

func FindCouponByCode(db *gorm.DB, code string) (*Coupon, error) {
	var coupon Coupon
	err := db.Where("code = ?", code).First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
