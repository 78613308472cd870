package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/thaiwebseo/unicorn-x/internal/pkg/env"
)

const defaultAPIBaseURL = "https://api.checkout-provider.com/v1"

// Client talks to the hosted checkout provider. The provider renders the
// payment page; we only create sessions and verify their outcome.
type Client struct {
	APIKey     string
	APIBaseURL string
	SuccessURL string
	CancelURL  string

	HTTPClient *http.Client
}

// Session is the provider's view of one checkout attempt.
type Session struct {
	ID              string  `json:"id"`
	URL             string  `json:"url"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"payment_status"`
	AmountTotal     float64 `json:"amount_total"`
	Currency        string  `json:"currency"`
	PaymentMethod   string  `json:"payment_method"`
	ClientReference string  `json:"client_reference_id"`
	Metadata        struct {
		PlanName        string `json:"plan_name"`
		BillingInterval string `json:"billing_interval"`
		IsTrial         string `json:"is_trial"`
		CouponCode      string `json:"coupon_code"`
	} `json:"metadata"`
}

// IsPaid reports whether the session completed with a captured payment.
func (s *Session) IsPaid() bool {
	return s.Status == "complete" && (s.PaymentStatus == "paid" || s.PaymentStatus == "no_payment_required")
}

// CreateSessionParams describes the checkout session to open.
type CreateSessionParams struct {
	UserID          uint
	PlanName        string
	Amount          float64
	Currency        string
	BillingInterval string
	IsTrial         bool
	CouponCode      string
}

func NewClientFromEnv() *Client {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}
	return &Client{
		APIKey:     strings.TrimSpace(env.GetEnv("CHECKOUT_API_KEY", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("CHECKOUT_API_BASE_URL", defaultAPIBaseURL)),
		SuccessURL: base + "/checkout/verify?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  base + "/pricing",
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateSession opens a hosted checkout session and returns it, most
// importantly its redirect URL and ID.
func (c *Client) CreateSession(ctx context.Context, p CreateSessionParams) (*Session, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("CHECKOUT_API_KEY is not configured")
	}
	if p.UserID == 0 || strings.TrimSpace(p.PlanName) == "" {
		return nil, errors.New("user and plan are required")
	}

	form := url.Values{}
	form.Set("client_reference_id", fmt.Sprintf("%d", p.UserID))
	form.Set("amount", fmt.Sprintf("%.2f", p.Amount))
	form.Set("currency", strings.ToUpper(orDefault(p.Currency, "USD")))
	form.Set("success_url", c.SuccessURL)
	form.Set("cancel_url", c.CancelURL)
	form.Set("metadata[plan_name]", p.PlanName)
	form.Set("metadata[billing_interval]", p.BillingInterval)
	form.Set("metadata[is_trial]", fmt.Sprintf("%t", p.IsTrial))
	if p.CouponCode != "" {
		form.Set("metadata[coupon_code]", p.CouponCode)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIBaseURL+"/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	// the key is derived from the request content, so a retried create
	// reuses it instead of opening a second session
	req.Header.Set("Idempotency-Key", uuid.NewSHA1(uuid.NameSpaceURL, []byte(form.Encode())).String())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout session create failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Session
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("checkout session create returned empty id")
	}
	return &out, nil
}

// GetSession fetches the current state of a checkout session for
// payment verification.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, errors.New("session id is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("CHECKOUT_API_KEY is not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIBaseURL+"/checkout/sessions/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("checkout session fetch failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Session
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
