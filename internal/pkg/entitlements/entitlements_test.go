package entitlements

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thaiwebseo/unicorn-x/app/models"
)

var baseTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func makeSub(planName, category, tier string, included []string, created time.Time, end time.Time) models.Subscription {
	return models.Subscription{
		UserID: 1,
		Plan: models.Plan{
			Name:         planName,
			Category:     category,
			Tier:         tier,
			IncludedBots: included,
		},
		Status:    models.SubscriptionStatusActive,
		StartDate: created,
		EndDate:   end,
		CreatedAt: created,
	}
}

func makeBot(name string, created time.Time) models.Bot {
	return models.Bot{UserID: 1, Name: name, Status: models.BotStatusRunning, CreatedAt: created}
}

func TestTargetsForIncludedBotsWins(t *testing.T) {
	plan := &models.Plan{
		Name:         "Mega Bundle",
		Category:     models.PlanCategoryBundles,
		Tier:         "Starter",
		IncludedBots: models.StringList{"Alpha", "Beta"},
	}
	assert.Equal(t, []string{"Alpha", "Beta"}, TargetsFor(plan))
}

func TestTargetsForLegacyBundleTiers(t *testing.T) {
	tests := []struct {
		tier string
		want []string
	}{
		{tier: "Starter", want: []string{"Bollinger-Starter", "Timer-Starter", "MVRV-Starter"}},
		{tier: "starter-2023", want: []string{"Bollinger-Starter", "Timer-Starter", "MVRV-Starter"}},
		{tier: "Pro", want: []string{"Bollinger-Pro", "Timer-Pro", "MVRV-Pro"}},
		{tier: "Expert", want: []string{"Bollinger-Pro", "Timer-Pro", "MVRV-Pro", "UltimateMax-Pro"}},
		{tier: "EXPERT", want: []string{"Bollinger-Pro", "Timer-Pro", "MVRV-Pro", "UltimateMax-Pro"}},
	}
	for _, tt := range tests {
		plan := &models.Plan{Name: "Bundle", Category: models.PlanCategoryBundles, Tier: tt.tier}
		assert.Equal(t, tt.want, TargetsFor(plan), "tier %q", tt.tier)
	}
}

func TestTargetsForPlainPlanFallsBackToName(t *testing.T) {
	plan := &models.Plan{Name: "Bollinger-Pro", Category: models.PlanCategoryBots}
	assert.Equal(t, []string{"Bollinger-Pro"}, TargetsFor(plan))

	// Unknown bundle tier also falls back to the plan name.
	unknown := &models.Plan{Name: "Mystery Bundle", Category: models.PlanCategoryBundles, Tier: "legendary"}
	assert.Equal(t, []string{"Mystery Bundle"}, TargetsFor(unknown))
}

func TestResolveSingleMatchIsDeterministic(t *testing.T) {
	sub := makeSub("Bollinger-Pro", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 1, 0))
	bot := makeBot("Bollinger-Pro", baseTime.Add(2*time.Minute))

	for _, policy := range []MatchPolicy{MatchClosestCreated, MatchLatestExpiring} {
		res := Resolve([]models.Subscription{sub}, []models.Bot{bot}, policy)
		require.Len(t, res, 1)
		require.NotNil(t, res[0].Subscription)
		assert.Equal(t, "Bollinger-Pro", res[0].SourcePlan)
		require.NotNil(t, res[0].ExpiresAt)
		assert.True(t, res[0].ExpiresAt.Equal(sub.EndDate))
		assert.False(t, res[0].Activated)
	}
}

func TestResolveTrialSuffixNormalized(t *testing.T) {
	sub := makeSub("Timer-Starter", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 0, 7))
	bot := makeBot("Timer-Starter (Trial)", baseTime)

	res := Resolve([]models.Subscription{sub}, []models.Bot{bot}, MatchClosestCreated)
	require.NotNil(t, res[0].Subscription)
	assert.Equal(t, "Timer-Starter", res[0].SourcePlan)
}

func TestResolveUnmatchedBotYieldsEmptyResolution(t *testing.T) {
	sub := makeSub("Bollinger-Pro", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 1, 0))
	bot := makeBot("Manually-Created", baseTime)

	res := Resolve([]models.Subscription{sub}, []models.Bot{bot}, MatchClosestCreated)
	require.Len(t, res, 1)
	assert.Nil(t, res[0].Subscription)
	assert.Nil(t, res[0].ExpiresAt)
	assert.False(t, res[0].Activated)
	assert.Equal(t, "Unknown", SourcePlanLabel(res[0]))
}

func TestResolveNoSubscriptionsNoPanic(t *testing.T) {
	res := Resolve(nil, []models.Bot{makeBot("Anything", baseTime)}, MatchLatestExpiring)
	require.Len(t, res, 1)
	assert.Nil(t, res[0].Subscription)
}

func TestResolveClosestCreatedPicksNearestInTime(t *testing.T) {
	old := makeSub("MVRV-Pro", models.PlanCategoryBots, "", nil, baseTime.AddDate(0, -6, 0), baseTime.AddDate(0, 6, 0))
	fresh := makeSub("MVRV-Pro", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 1, 0))
	bot := makeBot("MVRV-Pro", baseTime.Add(30*time.Second))

	res := Resolve([]models.Subscription{old, fresh}, []models.Bot{bot}, MatchClosestCreated)
	require.NotNil(t, res[0].Subscription)
	assert.True(t, res[0].Subscription.CreatedAt.Equal(fresh.CreatedAt))
}

func TestResolveLatestExpiringPrefersLongestWindow(t *testing.T) {
	// Same shape as above, but the admin policy picks the subscription
	// ending last even though the other was created closer to the bot.
	old := makeSub("MVRV-Pro", models.PlanCategoryBots, "", nil, baseTime.AddDate(0, -6, 0), baseTime.AddDate(0, 6, 0))
	fresh := makeSub("MVRV-Pro", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 1, 0))
	bot := makeBot("MVRV-Pro", baseTime.Add(30*time.Second))

	res := Resolve([]models.Subscription{old, fresh}, []models.Bot{bot}, MatchLatestExpiring)
	require.NotNil(t, res[0].Subscription)
	assert.True(t, res[0].Subscription.EndDate.Equal(old.EndDate))
}

func TestResolveBundleCoversMultipleBots(t *testing.T) {
	bundle := makeSub("Pro Bundle", models.PlanCategoryBundles, "Pro", nil, baseTime, baseTime.AddDate(0, 1, 0))
	bots := []models.Bot{
		makeBot("Bollinger-Pro", baseTime),
		makeBot("Timer-Pro", baseTime.Add(time.Second)),
		makeBot("MVRV-Pro", baseTime.Add(2*time.Second)),
	}

	res := Resolve([]models.Subscription{bundle}, bots, MatchClosestCreated)
	for i := range res {
		require.NotNil(t, res[i].Subscription, "bot %s", bots[i].Name)
		assert.Equal(t, "Pro Bundle", res[i].SourcePlan)
		assert.True(t, res[i].IsBundle)
	}
}

func TestResolveActivatedFlag(t *testing.T) {
	activated := baseTime.Add(time.Hour)
	sub := makeSub("Bollinger-Pro", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 1, 0))
	sub.ActivatedAt = &activated

	res := Resolve([]models.Subscription{sub}, []models.Bot{makeBot("Bollinger-Pro", baseTime)}, MatchClosestCreated)
	assert.True(t, res[0].Activated)
}

func TestIsCurrentlyEntitled(t *testing.T) {
	now := baseTime
	active := makeSub("X", models.PlanCategoryBots, "", nil, now.AddDate(0, -1, 0), now.AddDate(0, 1, 0))
	assert.True(t, IsCurrentlyEntitled(&active, now))

	// Cancelled but unexpired keeps access until the window ends.
	cancelled := active
	cancelled.Status = models.SubscriptionStatusCancelled
	assert.True(t, IsCurrentlyEntitled(&cancelled, now))

	pastEnd := active
	pastEnd.EndDate = now.Add(-time.Minute)
	assert.False(t, IsCurrentlyEntitled(&pastEnd, now))

	forced := active
	forced.Status = models.SubscriptionStatusExpired
	assert.False(t, IsCurrentlyEntitled(&forced, now))

	assert.False(t, IsCurrentlyEntitled(nil, now))
}

func TestSortForAdmin(t *testing.T) {
	subA := makeSub("Alpha", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 1, 0))
	subZ := makeSub("Zeta", models.PlanCategoryBots, "", nil, baseTime, baseTime.AddDate(0, 1, 0))

	bots := []models.Bot{
		makeBot("Zeta", baseTime),
		makeBot("Orphan", baseTime),
		makeBot("Alpha", baseTime),
	}
	res := Resolve([]models.Subscription{subA, subZ}, bots, MatchLatestExpiring)
	SortForAdmin(bots, res)

	// Ordered by source plan label, then bot name; the unmatched bot
	// carries the "Unknown" label, which sorts between Alpha and Zeta.
	assert.Equal(t, "Alpha", bots[0].Name)
	assert.Equal(t, "Orphan", bots[1].Name)
	assert.Equal(t, "Zeta", bots[2].Name)
	assert.Equal(t, "Unknown", SourcePlanLabel(res[1]))
}
