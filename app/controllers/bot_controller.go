package controllers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/billing"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/database"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/entitlements"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/usercontext"
)

// BotView pairs a bot with its resolved entitlement for rendering.
type BotView struct {
	Bot        models.Bot
	SourcePlan string
	ExpiresAt  string
	Activated  bool
	Unmatched  bool
}

// HandleMyBots renders the customer bot dashboard with entitlement state
// resolved per bot.
func HandleMyBots(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	subRepo := repository.GetGlobalFactory().GetSubscriptionRepository()
	botRepo := repository.GetGlobalFactory().GetBotRepository()

	subs, err := subRepo.GetByUserID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subscriptions")
	}
	bots, err := botRepo.GetByUserID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load bots")
	}

	resolutions := entitlements.Resolve(subs, bots, entitlements.MatchClosestCreated)

	views := make([]BotView, 0, len(bots))
	for i, bot := range bots {
		res := resolutions[i]
		view := BotView{
			Bot:        bot,
			SourcePlan: entitlements.SourcePlanLabel(res),
			Activated:  res.Activated,
			Unmatched:  res.Subscription == nil,
		}
		if res.ExpiresAt != nil {
			view.ExpiresAt = res.ExpiresAt.Format("2006-01-02")
		}
		views = append(views, view)
	}

	return render(c, "dashboard/bots", fiber.Map{
		"PageTitle": "My Bots",
		"Bots":      views,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleBotActivate marks a bot as running and shifts its subscription
// window on first activation.
func HandleBotActivate(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	botID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid bot id")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	if _, err := svc.ActivateBot(c.Context(), userID, uint(botID)); err != nil {
		if errors.Is(err, billing.ErrNotBotOwner) {
			return fiber.NewError(fiber.StatusNotFound, "Bot not found")
		}
		fm := fiber.Map{
			"type":    "error",
			"message": "Could not activate the bot. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/bots")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Bot activated.",
	}
	return flash.WithSuccess(c, fm).Redirect("/dashboard/bots")
}
