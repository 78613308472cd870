package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionIsExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sub := &Subscription{
		StartDate: now.AddDate(0, -1, 0),
		EndDate:   now.Add(time.Hour),
		Status:    SubscriptionStatusActive,
	}

	assert.False(t, sub.IsExpired(now))
	assert.True(t, sub.IsExpired(now.Add(2*time.Hour)))

	// expiry is derived from the window, not the status column
	sub.Status = SubscriptionStatusCancelled
	assert.False(t, sub.IsExpired(now))
}

func TestSubscriptionDuration(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	sub := &Subscription{StartDate: start, EndDate: start.AddDate(0, 0, TrialDurationDays)}

	assert.Equal(t, 7*24*time.Hour, sub.Duration())
}
