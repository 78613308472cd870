package router

import (
	"github.com/thaiwebseo/unicorn-x/app/controllers"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/middleware"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/oauth"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/session"

	"github.com/gofiber/fiber/v2"
)

type HttpRouter struct {
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init session
	session.NewSessionStore()

	// init oauth providers
	oauth.Setup()

	// Apply UserContext middleware globally as first middleware
	app.Use(middleware.UserContextMiddleware)

	// Initialize admin controller with repositories
	controllers.InitializeAdminController()

	// Initialize admin plan controller with repository
	controllers.InitializeAdminPlanController()

	// Initialize admin coupon controller with repository
	controllers.InitializeAdminCouponController()

	// Initialize admin bot controller with repositories
	controllers.InitializeAdminBotController()

	// Initialize admin order controller with repository
	controllers.InitializeAdminOrderController()

	// Initialize admin page controller with repository
	controllers.InitializeAdminPageController()

	// Initialize admin guide controller with repository
	controllers.InitializeAdminGuideController()

	h.registerPublicRoutes(app)
	h.registerAdminRoutes(app)
	h.registerCSRFProtectedRoutes(app)
}

func NewHttpRouter() *HttpRouter {
	return &HttpRouter{}
}

func loggedInMiddleware(c *fiber.Ctx) error {
	// UserContextMiddleware already set all user context
	// This middleware now just passes through - no additional logic needed
	// All user information is available via usercontext.GetUserContext(c)
	return c.Next()
}
