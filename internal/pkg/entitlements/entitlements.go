package entitlements

import (
	"sort"
	"strings"
	"time"

	"github.com/thaiwebseo/unicorn-x/app/models"
)

// MatchPolicy selects which subscription wins when several cover the
// same bot. The two policies exist because the user dashboard and the
// admin panel historically tie-broke differently; they are kept as
// explicit, named strategies instead of drifting apart silently.
type MatchPolicy int

const (
	// MatchClosestCreated picks the subscription whose creation time is
	// closest to the bot's. A bot and its entitling subscription are
	// typically created together, so this pairs them up even when a user
	// holds several overlapping purchases. Used by the user dashboard.
	MatchClosestCreated MatchPolicy = iota

	// MatchLatestExpiring picks the first covering subscription after
	// ordering by end date descending, preferring the one that keeps the
	// bot alive longest. Used by the admin panel.
	MatchLatestExpiring
)

// Resolution is the derived entitlement state for one bot.
type Resolution struct {
	// Subscription is the best covering subscription, or nil when the
	// bot has no match. An unmatched bot is a valid state, not an error.
	Subscription *models.Subscription
	ExpiresAt    *time.Time
	Activated    bool
	SourcePlan   string
	IsBundle     bool
}

// legacy bundle tiers, for bundle plans created before IncludedBots
// existed. New bundle plans must carry IncludedBots; admin plan saves
// backfill it so this table only serves old rows.
var legacyBundleTargets = map[string][]string{
	"starter": {"Bollinger-Starter", "Timer-Starter", "MVRV-Starter"},
	"pro":     {"Bollinger-Pro", "Timer-Pro", "MVRV-Pro"},
	"expert":  {"Bollinger-Pro", "Timer-Pro", "MVRV-Pro", "UltimateMax-Pro"},
}

// TargetsFor returns the set of bot names a plan entitles.
func TargetsFor(plan *models.Plan) []string {
	if len(plan.IncludedBots) > 0 {
		return plan.IncludedBots
	}
	if plan.Category == models.PlanCategoryBundles {
		if targets := LegacyBundleTargets(plan.Tier); targets != nil {
			return targets
		}
	}
	return []string{plan.Name}
}

// LegacyBundleTargets maps a bundle tier name to its hard-coded bot set.
// Returns nil when the tier is not a known legacy tier. "expert" must be
// checked before "pro" would match inside it, hence the fixed order.
func LegacyBundleTargets(tier string) []string {
	t := strings.ToLower(tier)
	for _, key := range []string{"starter", "expert", "pro"} {
		if strings.Contains(t, key) {
			targets := legacyBundleTargets[key]
			out := make([]string, len(targets))
			copy(out, targets)
			return out
		}
	}
	return nil
}

// IsCurrentlyEntitled is the single access predicate used everywhere a
// subscription gates anything: the subscription grants access while its
// end date has not passed and it was not force-expired. A cancelled
// subscription keeps access until the end of its paid window.
func IsCurrentlyEntitled(sub *models.Subscription, now time.Time) bool {
	if sub == nil {
		return false
	}
	if sub.Status == models.SubscriptionStatusExpired {
		return false
	}
	return !now.After(sub.EndDate)
}

// Resolve matches every bot to its covering subscription and derives
// the per-bot expiration and activation state. Subscriptions are never
// consumed by a match: a bundle subscription covers all of its bots.
// The returned slice is parallel to bots.
func Resolve(subs []models.Subscription, bots []models.Bot, policy MatchPolicy) []Resolution {
	candidates := make([]*models.Subscription, len(subs))
	for i := range subs {
		candidates[i] = &subs[i]
	}
	if policy == MatchLatestExpiring {
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].EndDate.After(candidates[j].EndDate)
		})
	}

	targets := make([][]string, len(candidates))
	for i, sub := range candidates {
		targets[i] = TargetsFor(&sub.Plan)
	}

	out := make([]Resolution, len(bots))
	for i := range bots {
		out[i] = resolveOne(&bots[i], candidates, targets, policy)
	}
	return out
}

func resolveOne(bot *models.Bot, subs []*models.Subscription, targets [][]string, policy MatchPolicy) Resolution {
	name := bot.NormalizedName()

	var best *models.Subscription
	var bestIdx int
	for i, sub := range subs {
		if !containsName(targets[i], name) {
			continue
		}
		if best == nil {
			best, bestIdx = sub, i
			if policy == MatchLatestExpiring {
				break
			}
			continue
		}
		// Closest-created heuristic; on equal distance the first
		// encountered subscription stays (stable).
		if distance(bot.CreatedAt, sub.CreatedAt) < distance(bot.CreatedAt, best.CreatedAt) {
			best, bestIdx = sub, i
		}
	}

	if best == nil {
		return Resolution{}
	}
	end := best.EndDate
	return Resolution{
		Subscription: best,
		ExpiresAt:    &end,
		Activated:    best.ActivatedAt != nil,
		SourcePlan:   best.Plan.Name,
		IsBundle:     len(targets[bestIdx]) > 1 || best.Plan.IsBundle(),
	}
}

func containsName(targets []string, name string) bool {
	for _, t := range targets {
		if t == name {
			return true
		}
	}
	return false
}

func distance(a, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}

// SortForAdmin orders bots by matched plan name, then bot name, for the
// admin per-user listing. resolutions must be parallel to bots; both
// are reordered together.
func SortForAdmin(bots []models.Bot, resolutions []Resolution) {
	idx := make([]int, len(bots))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		pa, pb := sourcePlanOrUnknown(resolutions[idx[a]]), sourcePlanOrUnknown(resolutions[idx[b]])
		if pa != pb {
			return pa < pb
		}
		return bots[idx[a]].Name < bots[idx[b]].Name
	})

	sortedBots := make([]models.Bot, len(bots))
	sortedRes := make([]Resolution, len(resolutions))
	for i, j := range idx {
		sortedBots[i] = bots[j]
		sortedRes[i] = resolutions[j]
	}
	copy(bots, sortedBots)
	copy(resolutions, sortedRes)
}

// SourcePlanLabel names the plan a bot's entitlement came from, or
// "Unknown" for unmatched bots.
func SourcePlanLabel(r Resolution) string {
	return sourcePlanOrUnknown(r)
}

func sourcePlanOrUnknown(r Resolution) string {
	if r.Subscription == nil {
		return "Unknown"
	}
	return r.SourcePlan
}
