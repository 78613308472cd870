package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/billing"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/database"
)

// ============================================================================
// ADMIN BOT CONTROLLER - Repository Pattern
// ============================================================================

// AdminBotController handles admin bot-related HTTP requests using repository pattern
type AdminBotController struct {
	botRepo  repository.BotRepository
	userRepo repository.UserRepository
}

// NewAdminBotController creates a new admin bot controller with repositories
func NewAdminBotController(botRepo repository.BotRepository, userRepo repository.UserRepository) *AdminBotController {
	return &AdminBotController{
		botRepo:  botRepo,
		userRepo: userRepo,
	}
}

func (abc *AdminBotController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/bots")
}

// adminBotStatuses lists the states an admin may move a bot into.
var adminBotStatuses = []string{
	models.BotStatusWaitingForSetup,
	models.BotStatusSettingUp,
	models.BotStatusRunning,
	models.BotStatusSuspended,
	models.BotStatusStopped,
}

// AdminBotView pairs a bot with its owner for the listing.
type AdminBotView struct {
	Bot       models.Bot
	UserEmail string
	IsTrial   bool
}

// HandleAdminBots renders the paginated bot overview
func (abc *AdminBotController) HandleAdminBots(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	total, err := abc.botRepo.Count()
	if err != nil {
		return abc.handleError(c, "Failed to count bots", err)
	}

	bots, err := abc.botRepo.List(offset, perPage)
	if err != nil {
		return abc.handleError(c, "Failed to load bots", err)
	}

	// one lookup per distinct owner on the page
	owners := make(map[uint]string)
	views := make([]AdminBotView, 0, len(bots))
	for _, bot := range bots {
		email, ok := owners[bot.UserID]
		if !ok {
			if user, err := abc.userRepo.GetByID(bot.UserID); err == nil {
				email = user.Email
			}
			owners[bot.UserID] = email
		}
		views = append(views, AdminBotView{
			Bot:       bot,
			UserEmail: email,
			IsTrial:   bot.IsTrialInstance(),
		})
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	return render(c, "admin/bots", fiber.Map{
		"PageTitle":  "Bot Management",
		"Bots":       views,
		"Statuses":   adminBotStatuses,
		"Page":       page,
		"PrevPage":   page - 1,
		"NextPage":   page + 1,
		"TotalPages": totalPages,
		"TotalBots":  total,
		"CSRFToken":  c.Locals("csrf"),
	})
}

// HandleAdminBotStatusUpdate handles a bot status change
func (abc *AdminBotController) HandleAdminBotStatusUpdate(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/bots")
	}

	bot, err := abc.botRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Bot not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/bots")
	}

	status := c.FormValue("status")
	if !isAllowedBotStatus(status) {
		fm := fiber.Map{
			"type":    "error",
			"message": "Invalid bot status: " + status,
		}
		return flash.WithError(c, fm).Redirect("/admin/bots")
	}

	// A move to RUNNING must go through the billing service so the first
	// activation shifts the subscription window like a customer setup.
	svc := billing.NewServiceFromDB(database.GetDB())
	if _, err := svc.SetBotStatus(c.Context(), bot.ID, status); err != nil {
		return abc.handleError(c, "Failed to update bot status", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Bot " + bot.Name + " is now " + status,
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/bots")
}

// HandleAdminBotDelete handles bot deletion
func (abc *AdminBotController) HandleAdminBotDelete(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/bots")
	}

	if _, err := abc.botRepo.GetByID(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Bot not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/bots")
	}

	if err := abc.botRepo.Delete(uint(id)); err != nil {
		return abc.handleError(c, "Failed to delete bot", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Bot deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/bots")
}

func isAllowedBotStatus(status string) bool {
	for _, s := range adminBotStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ============================================================================
// GLOBAL ADMIN BOT CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminBotController *AdminBotController

// InitializeAdminBotController initializes the global admin bot controller
func InitializeAdminBotController() {
	factory := repository.GetGlobalFactory()
	adminBotController = NewAdminBotController(factory.GetBotRepository(), factory.GetUserRepository())
}

// GetAdminBotController returns the global admin bot controller instance
func GetAdminBotController() *AdminBotController {
	if adminBotController == nil {
		InitializeAdminBotController()
	}
	return adminBotController
}
