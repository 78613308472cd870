package billing

import (
	"errors"
	"time"

	"github.com/thaiwebseo/unicorn-x/app/models"
)

// CheckoutInput is the normalized result of a verified hosted-checkout
// session, independent of the payment provider's wire format.
type CheckoutInput struct {
	UserID          uint
	PlanName        string
	SessionID       string
	BillingInterval string
	IsTrial         bool
	CouponCode      string
	// Amount is the total the provider charged, discounts included.
	Amount        float64
	Currency      string
	PaymentMethod string
}

// CheckoutResult reports what a verification call did.
type CheckoutResult struct {
	Subscription *models.Subscription
	Bots         []models.Bot
	// Renewed is true when an existing (user, plan) subscription was
	// extended instead of a new one created.
	Renewed bool
	// AlreadyProcessed is true when the checkout session was seen
	// before and the call was a no-op returning the first result.
	AlreadyProcessed bool
}

var (
	ErrTrialAlreadyUsed     = errors.New("billing: trial already used")
	ErrCouponNotValid       = errors.New("billing: coupon not valid")
	ErrCouponExhausted      = errors.New("billing: coupon usage limit reached")
	ErrNotSubscriptionOwner = errors.New("billing: subscription does not belong to user")
	ErrNotBotOwner          = errors.New("billing: bot does not belong to user")
	ErrNotCancellable       = errors.New("billing: subscription is not active")
)

// intervalEnd advances from an anchor by one billing interval, or by the
// trial window for trial purchases.
func intervalEnd(anchor time.Time, interval string, trial bool) time.Time {
	if trial {
		return anchor.AddDate(0, 0, models.TrialDurationDays)
	}
	if interval == models.BillingIntervalYear {
		return anchor.AddDate(1, 0, 0)
	}
	return anchor.AddDate(0, 1, 0)
}
