package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thaiwebseo/unicorn-x/app/repository"
)

// Global admin controller instance
var adminController *AdminController

// InitializeAdminController initializes the global admin controller with repositories
func InitializeAdminController() {
	repos := repository.GetGlobalRepositories()
	adminController = NewAdminController(repos)
}

// GetAdminController returns the global admin controller instance
func GetAdminController() *AdminController {
	if adminController == nil {
		InitializeAdminController()
	}
	return adminController
}

// Adapter functions to maintain compatibility with existing router

// HandleAdminDashboard - Adapter for admin dashboard
func HandleAdminDashboard(c *fiber.Ctx) error {
	return GetAdminController().HandleDashboard(c)
}

// HandleAdminUsers - Adapter for user management
func HandleAdminUsers(c *fiber.Ctx) error {
	return GetAdminController().HandleUsers(c)
}

// HandleAdminUserEdit - Adapter for user edit
func HandleAdminUserEdit(c *fiber.Ctx) error {
	return GetAdminController().HandleUserEdit(c)
}

// HandleAdminUserUpdate - Adapter for user update
func HandleAdminUserUpdate(c *fiber.Ctx) error {
	return GetAdminController().HandleUserUpdate(c)
}

// HandleAdminUserDelete - Adapter for user delete
func HandleAdminUserDelete(c *fiber.Ctx) error {
	return GetAdminController().HandleUserDelete(c)
}

// HandleAdminUserReset - Adapter for account reset
func HandleAdminUserReset(c *fiber.Ctx) error {
	return GetAdminController().HandleUserReset(c)
}

// HandleAdminSearch - Adapter for search functionality
func HandleAdminSearch(c *fiber.Ctx) error {
	return GetAdminController().HandleSearch(c)
}

// HandleAdminSettings - Adapter for settings page
func HandleAdminSettings(c *fiber.Ctx) error {
	return GetAdminController().HandleSettings(c)
}

// HandleAdminSettingsUpdate - Adapter for settings update
func HandleAdminSettingsUpdate(c *fiber.Ctx) error {
	return GetAdminController().HandleSettingsUpdate(c)
}

// HandleAdminResendActivation - Adapter for resend activation
func HandleAdminResendActivation(c *fiber.Ctx) error {
	return GetAdminController().HandleResendActivation(c)
}

// Plan Management - Repository Pattern Functions using dedicated AdminPlanController

// HandleAdminPlans - Adapter for plan management
func HandleAdminPlans(c *fiber.Ctx) error {
	return GetAdminPlanController().HandleAdminPlans(c)
}

// HandleAdminPlanCreate - Adapter for plan create form
func HandleAdminPlanCreate(c *fiber.Ctx) error {
	return GetAdminPlanController().HandleAdminPlanCreate(c)
}

// HandleAdminPlanStore - Adapter for plan creation
func HandleAdminPlanStore(c *fiber.Ctx) error {
	return GetAdminPlanController().HandleAdminPlanStore(c)
}

// HandleAdminPlanEdit - Adapter for plan edit form
func HandleAdminPlanEdit(c *fiber.Ctx) error {
	return GetAdminPlanController().HandleAdminPlanEdit(c)
}

// HandleAdminPlanUpdate - Adapter for plan update
func HandleAdminPlanUpdate(c *fiber.Ctx) error {
	return GetAdminPlanController().HandleAdminPlanUpdate(c)
}

// HandleAdminPlanDelete - Adapter for plan deletion
func HandleAdminPlanDelete(c *fiber.Ctx) error {
	return GetAdminPlanController().HandleAdminPlanDelete(c)
}

// Coupon Management - Repository Pattern Functions using dedicated AdminCouponController

// HandleAdminCoupons - Adapter for coupon management
func HandleAdminCoupons(c *fiber.Ctx) error {
	return GetAdminCouponController().HandleAdminCoupons(c)
}

// HandleAdminCouponCreate - Adapter for coupon create form
func HandleAdminCouponCreate(c *fiber.Ctx) error {
	return GetAdminCouponController().HandleAdminCouponCreate(c)
}

// HandleAdminCouponStore - Adapter for coupon creation
func HandleAdminCouponStore(c *fiber.Ctx) error {
	return GetAdminCouponController().HandleAdminCouponStore(c)
}

// HandleAdminCouponEdit - Adapter for coupon edit form
func HandleAdminCouponEdit(c *fiber.Ctx) error {
	return GetAdminCouponController().HandleAdminCouponEdit(c)
}

// HandleAdminCouponUpdate - Adapter for coupon update
func HandleAdminCouponUpdate(c *fiber.Ctx) error {
	return GetAdminCouponController().HandleAdminCouponUpdate(c)
}

// HandleAdminCouponDelete - Adapter for coupon deletion
func HandleAdminCouponDelete(c *fiber.Ctx) error {
	return GetAdminCouponController().HandleAdminCouponDelete(c)
}

// Bot Management - Repository Pattern Functions using dedicated AdminBotController

// HandleAdminBots - Adapter for bot management
func HandleAdminBots(c *fiber.Ctx) error {
	return GetAdminBotController().HandleAdminBots(c)
}

// HandleAdminBotStatusUpdate - Adapter for bot status changes
func HandleAdminBotStatusUpdate(c *fiber.Ctx) error {
	return GetAdminBotController().HandleAdminBotStatusUpdate(c)
}

// HandleAdminBotDelete - Adapter for bot deletion
func HandleAdminBotDelete(c *fiber.Ctx) error {
	return GetAdminBotController().HandleAdminBotDelete(c)
}

// Order Ledger - Repository Pattern Functions using dedicated AdminOrderController

// HandleAdminOrders - Adapter for the order ledger
func HandleAdminOrders(c *fiber.Ctx) error {
	return GetAdminOrderController().HandleAdminOrders(c)
}

// HandleAdminOrderExport - Adapter for the order ledger S3 export
func HandleAdminOrderExport(c *fiber.Ctx) error {
	return GetAdminOrderController().HandleAdminOrderExport(c)
}

// Page Management - Repository Pattern Functions using dedicated AdminPageController

// HandleAdminPages - Adapter for page management
func HandleAdminPages(c *fiber.Ctx) error {
	return GetAdminPageController().HandleAdminPages(c)
}

// HandleAdminPageCreate - Adapter for page create form
func HandleAdminPageCreate(c *fiber.Ctx) error {
	return GetAdminPageController().HandleAdminPageCreate(c)
}

// HandleAdminPageStore - Adapter for page creation
func HandleAdminPageStore(c *fiber.Ctx) error {
	return GetAdminPageController().HandleAdminPageStore(c)
}

// HandleAdminPageEdit - Adapter for page edit form
func HandleAdminPageEdit(c *fiber.Ctx) error {
	return GetAdminPageController().HandleAdminPageEdit(c)
}

// HandleAdminPageUpdate - Adapter for page update
func HandleAdminPageUpdate(c *fiber.Ctx) error {
	return GetAdminPageController().HandleAdminPageUpdate(c)
}

// HandleAdminPageDelete - Adapter for page deletion
func HandleAdminPageDelete(c *fiber.Ctx) error {
	return GetAdminPageController().HandleAdminPageDelete(c)
}

// Guide Management - Repository Pattern Functions using dedicated AdminGuideController

// HandleAdminGuides - Adapter for guide management
func HandleAdminGuides(c *fiber.Ctx) error {
	return GetAdminGuideController().HandleAdminGuides(c)
}

// HandleAdminGuideCreate - Adapter for guide create form
func HandleAdminGuideCreate(c *fiber.Ctx) error {
	return GetAdminGuideController().HandleAdminGuideCreate(c)
}

// HandleAdminGuideStore - Adapter for guide creation
func HandleAdminGuideStore(c *fiber.Ctx) error {
	return GetAdminGuideController().HandleAdminGuideStore(c)
}

// HandleAdminGuideEdit - Adapter for guide edit form
func HandleAdminGuideEdit(c *fiber.Ctx) error {
	return GetAdminGuideController().HandleAdminGuideEdit(c)
}

// HandleAdminGuideUpdate - Adapter for guide update
func HandleAdminGuideUpdate(c *fiber.Ctx) error {
	return GetAdminGuideController().HandleAdminGuideUpdate(c)
}

// HandleAdminGuideDelete - Adapter for guide deletion
func HandleAdminGuideDelete(c *fiber.Ctx) error {
	return GetAdminGuideController().HandleAdminGuideDelete(c)
}
