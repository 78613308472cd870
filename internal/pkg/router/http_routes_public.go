package router

import (
	"github.com/thaiwebseo/unicorn-x/app/controllers"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
)

func (h HttpRouter) registerPublicRoutes(app *fiber.App) {
	// Marketing site (pricing lives in the CSRF group, its checkout
	// forms need a token)
	app.Get("/page/:slug", loggedInMiddleware, controllers.HandlePageShow)

	// Guides
	app.Get("/guides", loggedInMiddleware, controllers.HandleGuidesIndex)
	app.Get("/guides/:slug", loggedInMiddleware, controllers.HandleGuideShow)

	// Account activation (link from email)
	app.Get("/activate", loggedInMiddleware, controllers.HandleAuthActivate)

	// Auth
	app.Post("/logout", middleware.RequireAuth, controllers.HandleAuthLogout)

	// Social OAuth
	app.Get("/auth/:provider", gothfiber.BeginAuthHandler)
	app.Get("/auth/:provider/callback", controllers.HandleOAuthCallback)

	// Payment provider webhooks (no CSRF, signature-verified in controller)
	app.Post("/webhooks/checkout", controllers.HandleCheckoutWebhook)
}
