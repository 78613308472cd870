package billing

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/entitlements"
)

// Service owns the subscription lifecycle: checkout verification with
// renewal/new-purchase disambiguation, bot provisioning, activation
// window shifts, cancellation and explicit expiry.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// VerifyCheckout turns one verified checkout session into subscription
// and bot state. The session ID is the idempotency key: a repeated call
// for the same session returns the previously created result instead of
// provisioning twice.
func (s *Service) VerifyCheckout(ctx context.Context, in CheckoutInput) (*CheckoutResult, error) {
	_ = ctx
	if in.UserID == 0 || strings.TrimSpace(in.SessionID) == "" || strings.TrimSpace(in.PlanName) == "" {
		return nil, errors.New("billing: user_id, session_id and plan_name are required")
	}

	// Already-processed paths. A subscription row keeps the session that
	// created it, and every applied session leaves an order behind, so a
	// renewal session is recognized through the order ledger. If the
	// originally provisioned bot rows were deleted since, recreate
	// placeholders rather than failing.
	existing, err := s.repo.GetSubscriptionByCheckoutSession(in.SessionID)
	if err == nil {
		bots, err := s.ensureBotsFor(existing)
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{Subscription: existing, Bots: bots, AlreadyProcessed: true}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if order, err := s.repo.GetOrderByCheckoutSession(in.SessionID); err == nil {
		sub, err := s.repo.GetSubscription(order.SubscriptionID)
		if err != nil {
			return nil, err
		}
		bots, err := s.ensureBotsFor(sub)
		if err != nil {
			return nil, err
		}
		return &CheckoutResult{Subscription: sub, Bots: bots, AlreadyProcessed: true}, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	plan, err := s.repo.GetPlanByName(in.PlanName)
	if err != nil {
		return nil, err
	}
	user, err := s.repo.GetUser(in.UserID)
	if err != nil {
		return nil, err
	}

	// The coupon was priced into the provider's charge when the session
	// was created, so in.Amount is already the discounted total. Here the
	// code is only re-validated and its redemption counted.
	var coupon *models.Coupon
	if code := strings.TrimSpace(in.CouponCode); code != "" {
		coupon, err = s.validateCoupon(code, in.UserID)
		if err != nil {
			return nil, err
		}
	}

	now := s.now()

	// Renewal: an existing (user, plan) subscription is extended,
	// anchored at whichever is later, now or the current end date. A
	// renewal before expiry keeps the remaining time; one after expiry
	// starts fresh from now and reactivates.
	result := &CheckoutResult{}
	sub, err := s.repo.GetRenewableSubscription(in.UserID, plan.ID)
	switch {
	case err == nil:
		anchor := now
		if sub.EndDate.After(now) {
			anchor = sub.EndDate
		}
		sub.EndDate = intervalEnd(anchor, in.BillingInterval, false)
		sub.Status = models.SubscriptionStatusActive
		sub.BillingInterval = normalizeInterval(in.BillingInterval)
		if err := s.repo.SaveSubscription(sub); err != nil {
			return nil, err
		}
		result.Renewed = true

	case errors.Is(err, gorm.ErrRecordNotFound):
		if in.IsTrial && !user.IsTrialEligible() {
			return nil, ErrTrialAlreadyUsed
		}
		sub = &models.Subscription{
			UserID:            in.UserID,
			PlanID:            plan.ID,
			Plan:              *plan,
			Status:            models.SubscriptionStatusActive,
			StartDate:         now,
			EndDate:           intervalEnd(now, in.BillingInterval, in.IsTrial),
			IsTrial:           in.IsTrial,
			BillingInterval:   normalizeInterval(in.BillingInterval),
			CheckoutSessionID: in.SessionID,
		}
		created, stored, err := s.repo.CreateSubscriptionIfAbsent(sub)
		if err != nil {
			return nil, err
		}
		sub = stored
		if !created {
			// Lost the insert race to a concurrent verification of the
			// same session; the winner's row is the result.
			bots, err := s.ensureBotsFor(sub)
			if err != nil {
				return nil, err
			}
			return &CheckoutResult{Subscription: sub, Bots: bots, AlreadyProcessed: true}, nil
		}
		if in.IsTrial {
			user.MarkTrialUsed(plan.Category)
			if err := s.repo.SaveUser(user); err != nil {
				return nil, err
			}
		}

	default:
		return nil, err
	}

	bots, err := s.ensureBotsFor(sub)
	if err != nil {
		return nil, err
	}
	result.Subscription = sub
	result.Bots = bots

	if coupon != nil {
		if err := s.repo.CreateCouponUsage(&models.CouponUsage{CouponID: coupon.ID, UserID: in.UserID}); err != nil {
			return nil, err
		}
	}

	order := &models.Order{
		UserID:            in.UserID,
		SubscriptionID:    sub.ID,
		PlanName:          plan.Name,
		BillingInterval:   sub.BillingInterval,
		Amount:            in.Amount,
		Currency:          orDefault(in.Currency, "USD"),
		PaymentMethod:     in.PaymentMethod,
		Status:            models.OrderStatusPaid,
		CheckoutSessionID: in.SessionID,
		CouponCode:        strings.TrimSpace(in.CouponCode),
	}
	if err := s.repo.CreateOrder(order); err != nil {
		return nil, err
	}
	return result, nil
}

// ensureBotsFor provisions every bot the subscription's plan entitles,
// creating missing ones in WAITING_FOR_SETUP without touching existing
// rows. Trial subscriptions get suffixed instance names.
func (s *Service) ensureBotsFor(sub *models.Subscription) ([]models.Bot, error) {
	targets := entitlements.TargetsFor(&sub.Plan)
	bots := make([]models.Bot, 0, len(targets))
	for _, name := range targets {
		if sub.IsTrial {
			name += models.BotTrialSuffix
		}
		bot, err := s.repo.EnsureBot(sub.UserID, name, models.BotStatusWaitingForSetup)
		if err != nil {
			return nil, err
		}
		bots = append(bots, *bot)
	}
	return bots, nil
}

// ActivateBot moves a bot to RUNNING. The first activation against a
// subscription shifts its window to start now with the paid duration
// preserved; later activations leave the dates alone.
func (s *Service) ActivateBot(ctx context.Context, userID, botID uint) (*models.Bot, error) {
	_ = ctx
	bot, err := s.repo.GetBot(userID, botID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotBotOwner
		}
		return nil, err
	}
	if bot.Status != models.BotStatusRunning {
		bot.Status = models.BotStatusRunning
		if err := s.repo.SaveBot(bot); err != nil {
			return nil, err
		}
	}

	subs, err := s.repo.ListSubscriptionsByUser(userID)
	if err != nil {
		return nil, err
	}
	res := entitlements.Resolve(subs, []models.Bot{*bot}, entitlements.MatchClosestCreated)
	matched := res[0].Subscription
	if matched == nil || matched.ActivatedAt != nil {
		return bot, nil
	}

	now := s.now()
	duration := matched.Duration()
	matched.StartDate = now
	matched.EndDate = now.Add(duration)
	matched.ActivatedAt = &now
	if err := s.repo.SaveSubscription(matched); err != nil {
		return nil, err
	}
	return bot, nil
}

// SetBotStatus applies an admin-chosen status to any user's bot. A move
// to RUNNING goes through the regular activation path so the first
// transition still shifts the matched subscription window.
func (s *Service) SetBotStatus(ctx context.Context, botID uint, status string) (*models.Bot, error) {
	bot, err := s.repo.GetBotByID(botID)
	if err != nil {
		return nil, err
	}
	if status == models.BotStatusRunning {
		return s.ActivateBot(ctx, bot.UserID, bot.ID)
	}
	bot.Status = status
	if err := s.repo.SaveBot(bot); err != nil {
		return nil, err
	}
	return bot, nil
}

// CancelSubscription marks an active subscription cancelled. Access is
// retained until the end of the paid window.
func (s *Service) CancelSubscription(ctx context.Context, userID, subscriptionID uint) (*models.Subscription, error) {
	_ = ctx
	subs, err := s.repo.ListSubscriptionsByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if subs[i].ID != subscriptionID {
			continue
		}
		if subs[i].Status != models.SubscriptionStatusActive {
			return nil, ErrNotCancellable
		}
		subs[i].Status = models.SubscriptionStatusCancelled
		if err := s.repo.SaveSubscription(&subs[i]); err != nil {
			return nil, err
		}
		return &subs[i], nil
	}
	return nil, ErrNotSubscriptionOwner
}

// MarkExpiredSubscriptions writes the EXPIRED status for rows whose end
// date has passed. Expiry remains a derived state for access checks;
// this keeps the stored column honest for admin listings.
func (s *Service) MarkExpiredSubscriptions(ctx context.Context) (int64, error) {
	_ = ctx
	return s.repo.MarkExpiredSubscriptions(s.now())
}

// ResetAccount wipes a user's bots, subscriptions and coupon usage
// atomically. Admin-only.
func (s *Service) ResetAccount(ctx context.Context, userID uint) error {
	_ = ctx
	return s.repo.ResetUserData(userID)
}

// ValidateCoupon checks a code for redeemability by the given user and
// returns the coupon on success.
func (s *Service) ValidateCoupon(ctx context.Context, code string, userID uint) (*models.Coupon, error) {
	_ = ctx
	return s.validateCoupon(code, userID)
}

func (s *Service) validateCoupon(code string, userID uint) (*models.Coupon, error) {
	coupon, err := s.repo.GetCouponByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotValid
		}
		return nil, err
	}
	if !coupon.IsRedeemable(s.now()) {
		return nil, ErrCouponNotValid
	}
	if coupon.MaxUses > 0 {
		total, err := s.repo.CountCouponUsage(coupon.ID)
		if err != nil {
			return nil, err
		}
		if total >= int64(coupon.MaxUses) {
			return nil, ErrCouponExhausted
		}
	}
	if coupon.PerUserLimit > 0 {
		used, err := s.repo.CountCouponUsageByUser(coupon.ID, userID)
		if err != nil {
			return nil, err
		}
		if used >= int64(coupon.PerUserLimit) {
			return nil, ErrCouponExhausted
		}
	}
	return coupon, nil
}

func normalizeInterval(interval string) string {
	if interval == models.BillingIntervalYear {
		return models.BillingIntervalYear
	}
	return models.BillingIntervalMonth
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
