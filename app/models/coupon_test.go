package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponIsRedeemable(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	open := &Coupon{Code: "LAUNCH", PercentOff: 20, IsActive: true}
	assert.True(t, open.IsRedeemable(now))

	inactive := &Coupon{Code: "LAUNCH", PercentOff: 20, IsActive: false}
	assert.False(t, inactive.IsRedeemable(now))

	notYet := &Coupon{Code: "LAUNCH", PercentOff: 20, IsActive: true, ValidFrom: &future}
	assert.False(t, notYet.IsRedeemable(now))

	expired := &Coupon{Code: "LAUNCH", PercentOff: 20, IsActive: true, ValidUntil: &past}
	assert.False(t, expired.IsRedeemable(now))

	windowed := &Coupon{Code: "LAUNCH", PercentOff: 20, IsActive: true, ValidFrom: &past, ValidUntil: &future}
	assert.True(t, windowed.IsRedeemable(now))
}

func TestCouponDiscount(t *testing.T) {
	c := &Coupon{PercentOff: 25}
	assert.InDelta(t, 75.0, c.Discount(100), 0.001)

	full := &Coupon{PercentOff: 100}
	assert.InDelta(t, 0.0, full.Discount(49.99), 0.001)
}

func TestCouponValidate(t *testing.T) {
	valid := &Coupon{Code: "SAVE10", PercentOff: 10}
	assert.NoError(t, valid.Validate())

	tooMuch := &Coupon{Code: "SAVE10", PercentOff: 101}
	assert.Error(t, tooMuch.Validate())

	noCode := &Coupon{PercentOff: 10}
	assert.Error(t, noCode.Validate())
}
