package router

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/csrf"

	"github.com/thaiwebseo/unicorn-x/app/controllers"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/env"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/middleware"
)

func (h HttpRouter) registerCSRFProtectedRoutes(app *fiber.App) {
	csrfConf := csrf.Config{
		KeyLookup:      "form:_csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		Expiration:     1 * time.Hour,
		CookieSecure:   !env.IsDev(),
		Next: func(c *fiber.Ctx) bool {
			// API uses key auth; webhooks are signature-verified
			return strings.HasPrefix(c.Path(), "/api/") || strings.HasPrefix(c.Path(), "/webhooks/")
		},
	}

	group := app.Group("", cors.New(), csrf.New(csrfConf))
	group.Get("/", loggedInMiddleware, controllers.HandleHome)
	group.Get("/pricing", loggedInMiddleware, controllers.HandlePricing)
	group.Get("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Post("/login", loggedInMiddleware, controllers.HandleAuthLogin)
	group.Get("/register", loggedInMiddleware, controllers.HandleAuthRegister)
	group.Post("/register", loggedInMiddleware, controllers.HandleAuthRegister)

	// Checkout
	group.Post("/checkout", middleware.RequireAuth, controllers.HandleCheckoutStart)
	group.Get("/checkout/verify", middleware.RequireAuth, controllers.HandleCheckoutVerify)

	// Customer dashboard
	group.Get("/dashboard", middleware.RequireAuth, controllers.HandleMyBots)
	group.Get("/dashboard/bots", middleware.RequireAuth, controllers.HandleMyBots)
	group.Post("/dashboard/bots/activate/:id", middleware.RequireAuth, controllers.HandleBotActivate)
	group.Get("/dashboard/subscriptions", middleware.RequireAuth, controllers.HandleMySubscriptions)
	group.Post("/dashboard/subscriptions/cancel/:id", middleware.RequireAuth, controllers.HandleSubscriptionCancel)
	group.Get("/dashboard/orders", middleware.RequireAuth, controllers.HandleMyOrders)

	// Profile
	group.Get("/dashboard/profile", middleware.RequireAuth, controllers.HandleUserProfile)
	group.Post("/dashboard/profile/password", middleware.RequireAuth, controllers.HandleUserPasswordChange)
	group.Post("/dashboard/profile/email", middleware.RequireAuth, controllers.HandleUserEmailChangeRequest)
	group.Get("/dashboard/profile/confirm-email", middleware.RequireAuth, controllers.HandleUserEmailChangeConfirm)
	group.Post("/dashboard/profile/api-key", middleware.RequireAuth, controllers.HandleUserAPIKeyIssue)
	group.Post("/dashboard/profile/api-key/revoke", middleware.RequireAuth, controllers.HandleUserAPIKeyRevoke)

	// Admin pages/settings
	group.Get("/admin/pages", middleware.RequireAdmin, controllers.HandleAdminPages)
	group.Get("/admin/pages/create", middleware.RequireAdmin, controllers.HandleAdminPageCreate)
	group.Post("/admin/pages/store", middleware.RequireAdmin, controllers.HandleAdminPageStore)
	group.Get("/admin/pages/edit/:id", middleware.RequireAdmin, controllers.HandleAdminPageEdit)
	group.Post("/admin/pages/update/:id", middleware.RequireAdmin, controllers.HandleAdminPageUpdate)
	group.Post("/admin/pages/delete/:id", middleware.RequireAdmin, controllers.HandleAdminPageDelete)
	group.Get("/admin/settings", middleware.RequireAdmin, controllers.HandleAdminSettings)
	group.Post("/admin/settings", middleware.RequireAdmin, controllers.HandleAdminSettingsUpdate)
}
