package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thaiwebseo/unicorn-x/app/controllers"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/middleware"
)

func (h HttpRouter) registerAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.RequireAdmin)
	adminGroup.Get("/", controllers.HandleAdminDashboard)
	adminGroup.Get("/users", controllers.HandleAdminUsers)
	adminGroup.Get("/users/edit/:id", controllers.HandleAdminUserEdit)
	adminGroup.Post("/users/update/:id", controllers.HandleAdminUserUpdate)
	adminGroup.Post("/users/delete/:id", controllers.HandleAdminUserDelete)
	adminGroup.Post("/users/reset/:id", controllers.HandleAdminUserReset)
	adminGroup.Post("/users/resend-activation/:id", controllers.HandleAdminResendActivation)

	// Plan management
	adminGroup.Get("/plans", controllers.HandleAdminPlans)
	adminGroup.Get("/plans/create", controllers.HandleAdminPlanCreate)
	adminGroup.Post("/plans/store", controllers.HandleAdminPlanStore)
	adminGroup.Get("/plans/edit/:id", controllers.HandleAdminPlanEdit)
	adminGroup.Post("/plans/update/:id", controllers.HandleAdminPlanUpdate)
	adminGroup.Post("/plans/delete/:id", controllers.HandleAdminPlanDelete)

	// Coupon management
	adminGroup.Get("/coupons", controllers.HandleAdminCoupons)
	adminGroup.Get("/coupons/create", controllers.HandleAdminCouponCreate)
	adminGroup.Post("/coupons/store", controllers.HandleAdminCouponStore)
	adminGroup.Get("/coupons/edit/:id", controllers.HandleAdminCouponEdit)
	adminGroup.Post("/coupons/update/:id", controllers.HandleAdminCouponUpdate)
	adminGroup.Post("/coupons/delete/:id", controllers.HandleAdminCouponDelete)

	// Bot management
	adminGroup.Get("/bots", controllers.HandleAdminBots)
	adminGroup.Post("/bots/status/:id", controllers.HandleAdminBotStatusUpdate)
	adminGroup.Post("/bots/delete/:id", controllers.HandleAdminBotDelete)

	// Order ledger
	adminGroup.Get("/orders", controllers.HandleAdminOrders)
	adminGroup.Post("/orders/export", controllers.HandleAdminOrderExport)

	// Guide management
	adminGroup.Get("/guides", controllers.HandleAdminGuides)
	adminGroup.Get("/guides/create", controllers.HandleAdminGuideCreate)
	adminGroup.Post("/guides/store", controllers.HandleAdminGuideStore)
	adminGroup.Get("/guides/edit/:id", controllers.HandleAdminGuideEdit)
	adminGroup.Post("/guides/update/:id", controllers.HandleAdminGuideUpdate)
	adminGroup.Post("/guides/delete/:id", controllers.HandleAdminGuideDelete)

	// Search
	adminGroup.Get("/search", controllers.HandleAdminSearch)
}
