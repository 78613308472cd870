package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		APIKey:     "sk_test",
		APIBaseURL: baseURL,
		SuccessURL: "http://localhost:4000/checkout/verify?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "http://localhost:4000/pricing",
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateSessionRetrySendsSameIdempotencyKey(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_1","url":"https://pay.example/cs_1","status":"open"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)
	params := CreateSessionParams{
		UserID:          7,
		PlanName:        "Bollinger-Pro",
		Amount:          49,
		Currency:        "USD",
		BillingInterval: "month",
	}

	_, err := client.CreateSession(context.Background(), params)
	require.NoError(t, err)
	_, err = client.CreateSession(context.Background(), params)
	require.NoError(t, err)

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1], "identical create requests must reuse the idempotency key")

	// A different purchase gets its own key.
	params.PlanName = "Timer-Pro"
	_, err = client.CreateSession(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.NotEqual(t, keys[0], keys[2])
}

func TestCreateSessionRejectsMissingConfig(t *testing.T) {
	client := newTestClient("http://localhost:0")
	client.APIKey = ""
	_, err := client.CreateSession(context.Background(), CreateSessionParams{UserID: 1, PlanName: "X"})
	assert.Error(t, err)

	client = newTestClient("http://localhost:0")
	_, err = client.CreateSession(context.Background(), CreateSessionParams{PlanName: "X"})
	assert.Error(t, err)
}
