package controllers

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/billing"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/database"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/entitlements"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/env"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/mail"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/session"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/usercontext"
)

// AdminController handles admin-related HTTP requests using repository pattern
type AdminController struct {
	repos *repository.Repositories
}

// NewAdminController creates a new admin controller with repository dependencies
func NewAdminController(repos *repository.Repositories) *AdminController {
	return &AdminController{
		repos: repos,
	}
}

// HandleDashboard renders the admin dashboard
func (ac *AdminController) HandleDashboard(c *fiber.Ctx) error {
	// Lazily expire overdue subscriptions; there is no background scheduler.
	svc := billing.NewServiceFromDB(database.GetDB())
	if _, err := svc.MarkExpiredSubscriptions(c.Context()); err != nil {
		log.Printf("failed to mark expired subscriptions: %v", err)
	}

	totalUsers, err := ac.repos.User.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get user count", err)
	}

	activeSubs, err := ac.repos.Subscription.CountByStatus(models.SubscriptionStatusActive)
	if err != nil {
		return ac.handleError(c, "Failed to get subscription count", err)
	}

	runningBots, err := ac.repos.Bot.CountByStatus(models.BotStatusRunning)
	if err != nil {
		return ac.handleError(c, "Failed to get bot count", err)
	}

	waitingBots, err := ac.repos.Bot.CountByStatus(models.BotStatusWaitingForSetup)
	if err != nil {
		return ac.handleError(c, "Failed to get bot count", err)
	}

	revenue30d, err := ac.repos.Order.RevenueSince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return ac.handleError(c, "Failed to get revenue", err)
	}

	recentUsers, err := ac.repos.User.List(0, 5)
	if err != nil {
		return ac.handleError(c, "Failed to get recent users", err)
	}

	signups7d, err := ac.repos.User.CountSignupsSince(time.Now().AddDate(0, 0, -7))
	if err != nil {
		return ac.handleError(c, "Failed to get signup count", err)
	}

	return render(c, "admin/dashboard", fiber.Map{
		"PageTitle":   "Admin Dashboard",
		"TotalUsers":  totalUsers,
		"ActiveSubs":  activeSubs,
		"RunningBots": runningBots,
		"WaitingBots": waitingBots,
		"Revenue30d":  fmt.Sprintf("%.2f", revenue30d),
		"Signups7d":   signups7d,
		"RecentUsers": recentUsers,
	})
}

// HandleUsers renders the user management page
func (ac *AdminController) HandleUsers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	perPage := 20
	offset := (page - 1) * perPage

	totalUsers, err := ac.repos.User.Count()
	if err != nil {
		return ac.handleError(c, "Failed to get user count", err)
	}

	usersWithStats, err := ac.repos.User.GetWithStats(offset, perPage)
	if err != nil {
		return ac.handleError(c, "Failed to get users with statistics", err)
	}

	totalPages := int(totalUsers) / perPage
	if int(totalUsers)%perPage > 0 {
		totalPages++
	}
	pages := make([]int, totalPages)
	for i := range pages {
		pages[i] = i + 1
	}

	return render(c, "admin/users", fiber.Map{
		"PageTitle":   "User Management",
		"Users":       usersWithStats,
		"CurrentPage": page,
		"Pages":       pages,
		"CSRFToken":   c.Locals("csrf"),
	})
}

// HandleUserEdit renders a user's detail page, including every bot with
// its resolved entitlement. The admin view prefers the longest-living
// covering subscription per bot.
func (ac *AdminController) HandleUserEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	user, err := ac.repos.User.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "User not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	subs, err := ac.repos.Subscription.GetByUserID(user.ID)
	if err != nil {
		return ac.handleError(c, "Failed to load subscriptions", err)
	}
	bots, err := ac.repos.Bot.GetByUserID(user.ID)
	if err != nil {
		return ac.handleError(c, "Failed to load bots", err)
	}

	resolutions := entitlements.Resolve(subs, bots, entitlements.MatchLatestExpiring)
	entitlements.SortForAdmin(bots, resolutions)

	botViews := make([]BotView, 0, len(bots))
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
		botViews = append(botViews, view)
	}

	return render(c, "admin/user_edit", fiber.Map{
		"PageTitle":     "Edit User",
		"EditUser":      user,
		"Subscriptions": subs,
		"Bots":          botViews,
		"CSRFToken":     c.Locals("csrf"),
	})
}

// HandleUserUpdate handles user update with repository pattern
func (ac *AdminController) HandleUserUpdate(c *fiber.Ctx) error {
	userID := c.Params("id")
	id, err := strconv.ParseUint(userID, 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	user, err := ac.repos.User.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "User not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	user.Name = c.FormValue("name")
	user.Email = c.FormValue("email")
	user.Role = c.FormValue("role")
	user.Status = c.FormValue("status")

	if err := user.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Validation failed: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/users/edit/" + userID)
	}

	if err := ac.repos.User.Update(user); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update user: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/users/edit/" + userID)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "User updated successfully",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// HandleUserDelete handles user deletion with repository pattern
func (ac *AdminController) HandleUserDelete(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	// Prevent self-deletion
	sess, _ := session.GetSessionStore().Get(c)
	currentUserID := sess.Get(usercontext.KeyUserID).(uint)

	if currentUserID == uint(id) {
		fm := fiber.Map{
			"type":    "error",
			"message": "You cannot delete your own account",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	if err := ac.repos.User.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete user: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "User deleted successfully",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}

// HandleUserReset wipes a user's subscriptions, bots and trial history.
// The order ledger is intentionally left untouched.
func (ac *AdminController) HandleUserReset(c *fiber.Ctx) error {
	userID := c.Params("id")
	id, err := strconv.ParseUint(userID, 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	if err := svc.ResetAccount(c.Context(), uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Account reset failed: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/users/edit/" + userID)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Account reset. Subscriptions, bots and trial history removed.",
	}
	return flash.WithSuccess(c, fm).Redirect("/admin/users/edit/" + userID)
}

// HandleSearch handles admin search
func (ac *AdminController) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q", "")

	if query == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Please enter a search term",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	usersWithStats, err := ac.repos.User.SearchWithStats(query)
	if err != nil {
		return ac.handleError(c, "Search failed", err)
	}

	fm := fiber.Map{
		"type":    "info",
		"message": "Search results for '" + query + "': " + strconv.Itoa(len(usersWithStats)) + " users found",
	}
	flash.WithInfo(c, fm)

	return render(c, "admin/users", fiber.Map{
		"PageTitle":   "User Search",
		"Users":       usersWithStats,
		"CurrentPage": 1,
		"Pages":       []int{1},
		"CSRFToken":   c.Locals("csrf"),
	})
}

// handleError handles errors consistently
func (ac *AdminController) handleError(c *fiber.Ctx, message string, err error) error {
	log.Printf("Admin Controller Error: %s - %v", message, err)

	fm := fiber.Map{
		"type":    "error",
		"message": message,
	}

	redirectPath := "/admin"
	if strings.Contains(c.Path(), "/users") {
		redirectPath = "/admin/users"
	}

	return flash.WithError(c, fm).Redirect(redirectPath)
}

// HandleSettings renders the settings page
func (ac *AdminController) HandleSettings(c *fiber.Ctx) error {
	settings, err := ac.repos.Setting.Get()
	if err != nil {
		return ac.handleError(c, "Failed to get settings", err)
	}

	return render(c, "admin/settings", fiber.Map{
		"PageTitle": "Settings",
		"Settings":  settings,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleSettingsUpdate persists the site settings
func (ac *AdminController) HandleSettingsUpdate(c *fiber.Ctx) error {
	newSettings := &models.AppSettings{
		SiteTitle:           c.FormValue("site_title"),
		SiteDescription:     c.FormValue("site_description"),
		RegistrationEnabled: c.FormValue("registration_enabled") == "on",
		CheckoutEnabled:     c.FormValue("checkout_enabled") == "on",
	}

	if err := ac.repos.Setting.Save(newSettings); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to save settings: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/settings")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Settings saved",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/settings")
}

// HandleResendActivation resends the activation email
func (ac *AdminController) HandleResendActivation(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/users")
	}

	user, err := ac.repos.User.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "User not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/users")
	}

	if err := user.GenerateActivationToken(); err != nil {
		return ac.handleError(c, "Failed to generate activation token", err)
	}

	if err := ac.repos.User.Update(user); err != nil {
		return ac.handleError(c, "Failed to store activation token", err)
	}

	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/activate?token=%s", domain, user.ActivationToken)
	body := fmt.Sprintf("Hi %s,\n\nplease confirm your account:\n%s\n\nYour Unicorn-X Team", user.Name, link)
	go func() {
		if err := mail.SendMail(user.Email, "Activate your Unicorn-X account", body); err != nil {
			log.Printf("failed to resend activation mail to %s: %v", user.Email, err)
		}
	}()

	fm := fiber.Map{
		"type":    "success",
		"message": "Activation mail sent",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/users")
}
