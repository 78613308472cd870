package billing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/thaiwebseo/unicorn-x/app/models"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	users   map[uint]*models.User
	plans   map[string]*models.Plan
	subs    []*models.Subscription
	bots    []*models.Bot
	orders  []*models.Order
	coupons map[string]*models.Coupon
	usages  []*models.CouponUsage

	nextSubID uint
	nextBotID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     map[uint]*models.User{},
		plans:     map[string]*models.Plan{},
		coupons:   map[string]*models.Coupon{},
		nextSubID: 1,
		nextBotID: 1,
	}
}

func (f *fakeRepo) GetUser(id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeRepo) SaveUser(user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) GetPlanByName(name string) (*models.Plan, error) {
	p, ok := f.plans[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeRepo) GetSubscription(id uint) (*models.Subscription, error) {
	for _, s := range f.subs {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetSubscriptionByCheckoutSession(sessionID string) (*models.Subscription, error) {
	for _, s := range f.subs {
		if s.CheckoutSessionID == sessionID {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetRenewableSubscription(userID, planID uint) (*models.Subscription, error) {
	var best *models.Subscription
	for _, s := range f.subs {
		if s.UserID != userID || s.PlanID != planID {
			continue
		}
		if best == nil || s.EndDate.After(best.EndDate) {
			best = s
		}
	}
	if best == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return best, nil
}

func (f *fakeRepo) ListSubscriptionsByUser(userID uint) ([]models.Subscription, error) {
	var out []models.Subscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateSubscriptionIfAbsent(sub *models.Subscription) (bool, *models.Subscription, error) {
	if existing, err := f.GetSubscriptionByCheckoutSession(sub.CheckoutSessionID); err == nil {
		return false, existing, nil
	}
	sub.ID = f.nextSubID
	f.nextSubID++
	f.subs = append(f.subs, sub)
	return true, sub, nil
}

func (f *fakeRepo) SaveSubscription(sub *models.Subscription) error {
	for i, s := range f.subs {
		if s.ID == sub.ID {
			f.subs[i] = sub
			return nil
		}
	}
	f.subs = append(f.subs, sub)
	return nil
}

func (f *fakeRepo) MarkExpiredSubscriptions(now time.Time) (int64, error) {
	var n int64
	for _, s := range f.subs {
		if s.EndDate.Before(now) && s.Status != models.SubscriptionStatusExpired {
			s.Status = models.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) GetBot(userID, botID uint) (*models.Bot, error) {
	for _, b := range f.bots {
		if b.ID == botID && b.UserID == userID {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetBotByID(botID uint) (*models.Bot, error) {
	for _, b := range f.bots {
		if b.ID == botID {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListBotsByUser(userID uint) ([]models.Bot, error) {
	var out []models.Bot
	for _, b := range f.bots {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeRepo) EnsureBot(userID uint, name, status string) (*models.Bot, error) {
	for _, b := range f.bots {
		if b.UserID == userID && b.Name == name {
			return b, nil
		}
	}
	bot := &models.Bot{ID: f.nextBotID, UserID: userID, Name: name, Status: status, CreatedAt: time.Now()}
	f.nextBotID++
	f.bots = append(f.bots, bot)
	return bot, nil
}

func (f *fakeRepo) SaveBot(bot *models.Bot) error {
	for i, b := range f.bots {
		if b.ID == bot.ID {
			f.bots[i] = bot
			return nil
		}
	}
	f.bots = append(f.bots, bot)
	return nil
}

func (f *fakeRepo) CreateOrder(order *models.Order) error {
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeRepo) GetOrderByCheckoutSession(sessionID string) (*models.Order, error) {
	for _, o := range f.orders {
		if o.CheckoutSessionID == sessionID {
			return o, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) GetCouponByCode(code string) (*models.Coupon, error) {
	c, ok := f.coupons[code]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeRepo) CountCouponUsage(couponID uint) (int64, error) {
	var n int64
	for _, u := range f.usages {
		if u.CouponID == couponID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CountCouponUsageByUser(couponID, userID uint) (int64, error) {
	var n int64
	for _, u := range f.usages {
		if u.CouponID == couponID && u.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) CreateCouponUsage(usage *models.CouponUsage) error {
	f.usages = append(f.usages, usage)
	return nil
}

func (f *fakeRepo) ResetUserData(userID uint) error {
	var subs []*models.Subscription
	for _, s := range f.subs {
		if s.UserID != userID {
			subs = append(subs, s)
		}
	}
	f.subs = subs
	var bots []*models.Bot
	for _, b := range f.bots {
		if b.UserID != userID {
			bots = append(bots, b)
		}
	}
	f.bots = bots
	var usages []*models.CouponUsage
	for _, u := range f.usages {
		if u.UserID != userID {
			usages = append(usages, u)
		}
	}
	f.usages = usages
	return nil
}

var testNow = time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

func newTestService(repo *fakeRepo) *Service {
	svc := NewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedUserAndPlan(repo *fakeRepo) {
	repo.users[1] = &models.User{ID: 1, Name: "Trader", Email: "trader@example.com"}
	repo.plans["Bollinger-Pro"] = &models.Plan{
		ID: 10, Name: "Bollinger-Pro", Category: models.PlanCategoryBots,
		PriceMonthly: 49, PriceYearly: 490, IsActive: true,
	}
	repo.plans["Pro Bundle"] = &models.Plan{
		ID: 11, Name: "Pro Bundle", Category: models.PlanCategoryBundles, Tier: "Pro",
		PriceMonthly: 99, PriceYearly: 990, IsActive: true,
	}
}

func TestVerifyCheckoutNewPurchaseProvisionsBots(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	res, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Pro Bundle", SessionID: "cs_100",
		BillingInterval: models.BillingIntervalMonth, Amount: 99,
	})
	require.NoError(t, err)
	assert.False(t, res.Renewed)
	assert.False(t, res.AlreadyProcessed)
	assert.Equal(t, models.SubscriptionStatusActive, res.Subscription.Status)
	assert.True(t, res.Subscription.EndDate.Equal(testNow.AddDate(0, 1, 0)))

	// Legacy Pro bundle expands to three bots.
	require.Len(t, res.Bots, 3)
	names := []string{res.Bots[0].Name, res.Bots[1].Name, res.Bots[2].Name}
	assert.ElementsMatch(t, []string{"Bollinger-Pro", "Timer-Pro", "MVRV-Pro"}, names)
	for _, b := range res.Bots {
		assert.Equal(t, models.BotStatusWaitingForSetup, b.Status)
	}
	require.Len(t, repo.orders, 1)
	assert.Equal(t, models.OrderStatusPaid, repo.orders[0].Status)
}

func TestVerifyCheckoutIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	in := CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_200",
		BillingInterval: models.BillingIntervalMonth, Amount: 49,
	}
	first, err := svc.VerifyCheckout(context.Background(), in)
	require.NoError(t, err)

	second, err := svc.VerifyCheckout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, second.AlreadyProcessed)
	assert.Equal(t, first.Subscription.ID, second.Subscription.ID)

	// Exactly one subscription, one bot, one order.
	assert.Len(t, repo.subs, 1)
	assert.Len(t, repo.bots, 1)
	assert.Len(t, repo.orders, 1)
}

func TestVerifyCheckoutRecreatesDeletedBotOnReplay(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	in := CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_300",
		BillingInterval: models.BillingIntervalMonth, Amount: 49,
	}
	_, err := svc.VerifyCheckout(context.Background(), in)
	require.NoError(t, err)

	// Simulate the bot being deleted after the first verification.
	repo.bots = nil

	res, err := svc.VerifyCheckout(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, res.AlreadyProcessed)
	require.Len(t, res.Bots, 1)
	assert.Equal(t, "Bollinger-Pro", res.Bots[0].Name)
	assert.Equal(t, models.BotStatusWaitingForSetup, res.Bots[0].Status)
}

func TestVerifyCheckoutRenewalBeforeExpiryKeepsRemainingTime(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	currentEnd := testNow.AddDate(0, 0, 10)
	repo.subs = append(repo.subs, &models.Subscription{
		ID:                1,
		UserID:            1,
		PlanID:            10,
		Plan:              *repo.plans["Bollinger-Pro"],
		Status:            models.SubscriptionStatusActive,
		StartDate:         testNow.AddDate(0, -1, 10),
		EndDate:           currentEnd,
		CheckoutSessionID: "cs_old",
	})

	res, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_renew",
		BillingInterval: models.BillingIntervalMonth, Amount: 49,
	})
	require.NoError(t, err)
	assert.True(t, res.Renewed)
	assert.True(t, res.Subscription.EndDate.Equal(currentEnd.AddDate(0, 1, 0)),
		"renewal must anchor at the current end date, got %v", res.Subscription.EndDate)
}

func TestVerifyCheckoutRenewalAfterExpiryStartsFresh(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	repo.subs = append(repo.subs, &models.Subscription{
		ID:                1,
		UserID:            1,
		PlanID:            10,
		Plan:              *repo.plans["Bollinger-Pro"],
		Status:            models.SubscriptionStatusCancelled,
		StartDate:         testNow.AddDate(0, -2, 0),
		EndDate:           testNow.AddDate(0, 0, -5),
		CheckoutSessionID: "cs_old",
	})

	res, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_renew2",
		BillingInterval: models.BillingIntervalMonth, Amount: 49,
	})
	require.NoError(t, err)
	assert.True(t, res.Renewed)
	assert.Equal(t, models.SubscriptionStatusActive, res.Subscription.Status)
	assert.True(t, res.Subscription.EndDate.Equal(testNow.AddDate(0, 1, 0)))
}

func TestVerifyCheckoutReplayAfterRenewalIsNoOp(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	first, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_first",
		BillingInterval: models.BillingIntervalMonth, Amount: 49,
	})
	require.NoError(t, err)

	renewed, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_second",
		BillingInterval: models.BillingIntervalMonth, Amount: 49,
	})
	require.NoError(t, err)
	require.True(t, renewed.Renewed)
	renewedEnd := renewed.Subscription.EndDate

	// Replaying either session after the renewal must neither extend the
	// window again nor append another order.
	for _, sessionID := range []string{"cs_first", "cs_second"} {
		res, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
			UserID: 1, PlanName: "Bollinger-Pro", SessionID: sessionID,
			BillingInterval: models.BillingIntervalMonth, Amount: 49,
		})
		require.NoError(t, err)
		assert.True(t, res.AlreadyProcessed, "replay of %s must be a no-op", sessionID)
		assert.Equal(t, first.Subscription.ID, res.Subscription.ID)
	}
	assert.True(t, repo.subs[0].EndDate.Equal(renewedEnd))
	require.Len(t, repo.orders, 2)
	assert.Equal(t, "cs_first", repo.orders[0].CheckoutSessionID)
	assert.Equal(t, "cs_second", repo.orders[1].CheckoutSessionID)
}

func TestVerifyCheckoutTrial(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	res, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_trial",
		BillingInterval: models.BillingIntervalMonth, IsTrial: true,
	})
	require.NoError(t, err)
	assert.True(t, res.Subscription.IsTrial)
	assert.True(t, res.Subscription.EndDate.Equal(testNow.AddDate(0, 0, 7)))
	require.Len(t, res.Bots, 1)
	assert.Equal(t, "Bollinger-Pro (Trial)", res.Bots[0].Name)
	assert.Equal(t, models.StringList{models.PlanCategoryBots}, repo.users[1].TrialUsedCategories)
}

func TestVerifyCheckoutSecondTrialRejected(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	repo.users[1].TrialUsedCategories = models.StringList{"Bundles"}
	svc := newTestService(repo)

	// Category differs from the used one; any prior trial still blocks.
	_, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_trial2",
		BillingInterval: models.BillingIntervalMonth, IsTrial: true,
	})
	assert.ErrorIs(t, err, ErrTrialAlreadyUsed)
}

func TestVerifyCheckoutCoupon(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	repo.coupons["LAUNCH20"] = &models.Coupon{ID: 5, Code: "LAUNCH20", PercentOff: 20, PerUserLimit: 1, IsActive: true}
	svc := newTestService(repo)

	// The provider already charged the discounted total; the ledger
	// records it as-is rather than discounting a second time.
	_, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Bollinger-Pro", SessionID: "cs_coupon",
		BillingInterval: models.BillingIntervalMonth, Amount: 39.2, CouponCode: "LAUNCH20",
	})
	require.NoError(t, err)
	require.Len(t, repo.orders, 1)
	assert.InDelta(t, 39.2, repo.orders[0].Amount, 0.001)
	assert.Len(t, repo.usages, 1)

	// Second redemption by the same user exceeds the per-user limit.
	_, err = svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Pro Bundle", SessionID: "cs_coupon2",
		BillingInterval: models.BillingIntervalMonth, Amount: 99, CouponCode: "LAUNCH20",
	})
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestActivateBotShiftsWindowOnce(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	start := testNow.AddDate(0, 0, -3)
	end := start.AddDate(0, 1, 0)
	repo.subs = append(repo.subs, &models.Subscription{
		ID:                1,
		UserID:            1,
		PlanID:            10,
		Plan:              *repo.plans["Bollinger-Pro"],
		Status:            models.SubscriptionStatusActive,
		StartDate:         start,
		EndDate:           end,
		CreatedAt:         start,
		CheckoutSessionID: "cs_act",
	})
	repo.bots = append(repo.bots, &models.Bot{
		ID:        1,
		UserID:    1,
		Name:      "Bollinger-Pro",
		Status:    models.BotStatusWaitingForSetup,
		CreatedAt: start,
	})

	duration := end.Sub(start)
	bot, err := svc.ActivateBot(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.BotStatusRunning, bot.Status)

	sub := repo.subs[0]
	require.NotNil(t, sub.ActivatedAt)
	assert.True(t, sub.StartDate.Equal(testNow))
	assert.True(t, sub.EndDate.Equal(testNow.Add(duration)))

	// Re-activation leaves the shifted window untouched.
	shiftedEnd := sub.EndDate
	svc.now = func() time.Time { return testNow.Add(48 * time.Hour) }
	_, err = svc.ActivateBot(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.True(t, repo.subs[0].EndDate.Equal(shiftedEnd))
	assert.True(t, repo.subs[0].ActivatedAt.Equal(testNow))
}

func TestActivateBotRejectsForeignBot(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	repo.bots = append(repo.bots, &models.Bot{
		ID:     1,
		UserID: 2,
		Name:   "Bollinger-Pro",
		Status: models.BotStatusWaitingForSetup,
	})

	// Someone else's bot and a nonexistent bot both read as not owned.
	_, err := svc.ActivateBot(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNotBotOwner)
	_, err = svc.ActivateBot(context.Background(), 1, 99)
	assert.ErrorIs(t, err, ErrNotBotOwner)
	assert.Equal(t, models.BotStatusWaitingForSetup, repo.bots[0].Status)
}

func TestSetBotStatusRunningShiftsWindow(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	start := testNow.AddDate(0, 0, -3)
	end := start.AddDate(0, 1, 0)
	repo.subs = append(repo.subs, &models.Subscription{
		ID:                1,
		UserID:            1,
		PlanID:            10,
		Plan:              *repo.plans["Bollinger-Pro"],
		Status:            models.SubscriptionStatusActive,
		StartDate:         start,
		EndDate:           end,
		CreatedAt:         start,
		CheckoutSessionID: "cs_admin",
	})
	repo.bots = append(repo.bots, &models.Bot{
		ID:        1,
		UserID:    1,
		Name:      "Bollinger-Pro",
		Status:    models.BotStatusWaitingForSetup,
		CreatedAt: start,
	})

	// An admin move to RUNNING takes the activation path: the window
	// shifts to start now, same as a customer-triggered setup.
	bot, err := svc.SetBotStatus(context.Background(), 1, models.BotStatusRunning)
	require.NoError(t, err)
	assert.Equal(t, models.BotStatusRunning, bot.Status)
	require.NotNil(t, repo.subs[0].ActivatedAt)
	assert.True(t, repo.subs[0].StartDate.Equal(testNow))
	assert.True(t, repo.subs[0].EndDate.Equal(testNow.Add(end.Sub(start))))

	// Other statuses only touch the bot.
	shiftedEnd := repo.subs[0].EndDate
	bot, err = svc.SetBotStatus(context.Background(), 1, models.BotStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, models.BotStatusSuspended, bot.Status)
	assert.True(t, repo.subs[0].EndDate.Equal(shiftedEnd))
}

func TestCancelSubscription(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	repo.subs = append(repo.subs, &models.Subscription{
		ID:                1,
		UserID:            1,
		PlanID:            10,
		Plan:              *repo.plans["Bollinger-Pro"],
		Status:            models.SubscriptionStatusActive,
		StartDate:         testNow,
		EndDate:           testNow.AddDate(0, 1, 0),
		CheckoutSessionID: "cs_cancel",
	})

	sub, err := svc.CancelSubscription(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCancelled, sub.Status)

	// A second cancel is rejected; someone else's subscription is not found.
	_, err = svc.CancelSubscription(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNotCancellable)
	_, err = svc.CancelSubscription(context.Background(), 2, 1)
	assert.ErrorIs(t, err, ErrNotSubscriptionOwner)
}

func TestMarkExpiredSubscriptions(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	repo.subs = append(repo.subs,
		&models.Subscription{ID: 1, UserID: 1, PlanID: 10, Status: models.SubscriptionStatusActive, EndDate: testNow.AddDate(0, 0, -1), CheckoutSessionID: "a"},
		&models.Subscription{ID: 2, UserID: 1, PlanID: 11, Status: models.SubscriptionStatusActive, EndDate: testNow.AddDate(0, 0, 1), CheckoutSessionID: "b"},
	)

	n, err := svc.MarkExpiredSubscriptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, models.SubscriptionStatusExpired, repo.subs[0].Status)
	assert.Equal(t, models.SubscriptionStatusActive, repo.subs[1].Status)
}

func TestResetAccountRemovesEverything(t *testing.T) {
	repo := newFakeRepo()
	seedUserAndPlan(repo)
	svc := newTestService(repo)

	_, err := svc.VerifyCheckout(context.Background(), CheckoutInput{
		UserID: 1, PlanName: "Pro Bundle", SessionID: "cs_reset",
		BillingInterval: models.BillingIntervalMonth, Amount: 99,
	})
	require.NoError(t, err)
	require.NotEmpty(t, repo.subs)
	require.NotEmpty(t, repo.bots)

	require.NoError(t, svc.ResetAccount(context.Background(), 1))
	assert.Empty(t, repo.subs)
	assert.Empty(t, repo.bots)
}
