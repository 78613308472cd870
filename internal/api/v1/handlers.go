package apiv1

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/entitlements"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/middleware"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/usercontext"
)

// Pong is the ping endpoint response
type Pong struct {
	Ping string `json:"ping"`
}

// BotResource is the JSON shape of one bot with its derived entitlement
type BotResource struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	SourcePlan string `json:"source_plan"`
	ExpiresAt  string `json:"expires_at,omitempty"`
	Activated  bool   `json:"activated"`
	IsTrial    bool   `json:"is_trial"`
	Unmatched  bool   `json:"unmatched"`
}

// APIServer implements the v1 API surface
type APIServer struct{}

// NewAPIServer creates a new API server instance
func NewAPIServer() *APIServer {
	return &APIServer{}
}

// RegisterHandlers attaches the v1 routes to the given router group.
// Everything except ping requires an API key.
func RegisterHandlers(router fiber.Router, s *APIServer) {
	router.Get("/ping", s.GetPing)

	protected := router.Group("", middleware.APIKeyAuthMiddleware())
	protected.Get("/bots", s.GetMyBots)
	protected.Get("/bots/:id/status", s.GetBotStatus)
}

// GetPing handles the ping endpoint
func (s *APIServer) GetPing(c *fiber.Ctx) error {
	response := Pong{
		Ping: "pong",
	}

	return c.Status(fiber.StatusOK).JSON(response)
}

// GetMyBots returns the authenticated user's bots with their resolved
// entitlement state.
func (s *APIServer) GetMyBots(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repos := repository.GetGlobalRepositories()
	bots, err := repos.Bot.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load bots"})
	}
	subs, err := repos.Subscription.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriptions"})
	}

	resolutions := entitlements.Resolve(subs, bots, entitlements.MatchClosestCreated)

	resources := make([]BotResource, 0, len(bots))
	for i, bot := range bots {
		resources = append(resources, botResource(bot.ID, bot.Name, bot.Status, bot.IsTrialInstance(), resolutions[i]))
	}

	return c.JSON(fiber.Map{"bots": resources})
}

// GetBotStatus returns the status of a single bot owned by the caller.
func (s *APIServer) GetBotStatus(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad_request", "message": "Invalid bot id"})
	}

	repos := repository.GetGlobalRepositories()
	bot, err := repos.Bot.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Bot not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load bot"})
	}
	// ownership check before doing any more work; a foreign bot id is
	// indistinguishable from a missing one
	if bot.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found", "message": "Bot not found"})
	}

	subs, err := repos.Subscription.GetByUserID(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal_server_error", "message": "Failed to load subscriptions"})
	}

	bots := []models.Bot{*bot}
	resolutions := entitlements.Resolve(subs, bots, entitlements.MatchClosestCreated)

	return c.JSON(botResource(bot.ID, bot.Name, bot.Status, bot.IsTrialInstance(), resolutions[0]))
}

func botResource(id uint, name, status string, isTrial bool, r entitlements.Resolution) BotResource {
	res := BotResource{
		ID:         id,
		Name:       name,
		Status:     status,
		SourcePlan: entitlements.SourcePlanLabel(r),
		Activated:  r.Activated,
		IsTrial:    isTrial,
		Unmatched:  r.Subscription == nil,
	}
	if r.ExpiresAt != nil {
		res.ExpiresAt = r.ExpiresAt.UTC().Format(time.RFC3339)
	}
	return res
}
