package s3export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaiwebseo/unicorn-x/app/models"
)

func TestRenderOrdersCSV(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	orders := []models.Order{
		{
			ID:                1,
			UserID:            42,
			SubscriptionID:    7,
			PlanName:          "Bollinger-Pro",
			BillingInterval:   models.BillingIntervalMonth,
			Amount:            29.99,
			Currency:          "USD",
			CouponCode:        "LAUNCH",
			Status:            models.OrderStatusPaid,
			CheckoutSessionID: "cs_test_123",
			CreatedAt:         created,
		},
	}

	data, err := RenderOrdersCSV(orders)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, []string{"id", "user_id", "subscription_id", "plan_name", "billing_interval", "amount", "currency", "coupon_code", "status", "checkout_session_id", "created_at"}, records[0])
	assert.Equal(t, []string{"1", "42", "7", "Bollinger-Pro", "month", "29.99", "USD", "LAUNCH", "paid", "cs_test_123", "2026-02-01T09:30:00Z"}, records[1])
}

func TestRenderOrdersCSVEmpty(t *testing.T) {
	data, err := RenderOrdersCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestConfigGetObjectKey(t *testing.T) {
	cfg := &Config{BucketName: "unicornx-exports"}
	exportedAt := time.Date(2026, 3, 5, 14, 45, 30, 0, time.UTC)

	assert.Equal(t, "orders/2026/03/orders-20260305-144530.csv", cfg.GetObjectKey(exportedAt))
}

func TestConfigIsEnabled(t *testing.T) {
	assert.False(t, (&Config{}).IsEnabled())
	assert.True(t, (&Config{Enabled: true}).IsEnabled())
}
