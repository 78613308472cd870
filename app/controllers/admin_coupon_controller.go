package controllers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
)

// ============================================================================
// ADMIN COUPON CONTROLLER - Repository Pattern
// ============================================================================

// AdminCouponController handles admin coupon-related HTTP requests using repository pattern
type AdminCouponController struct {
	couponRepo repository.CouponRepository
}

// NewAdminCouponController creates a new admin coupon controller with repository
func NewAdminCouponController(couponRepo repository.CouponRepository) *AdminCouponController {
	return &AdminCouponController{
		couponRepo: couponRepo,
	}
}

func (acc *AdminCouponController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/coupons")
}

// CouponView pairs a coupon with its redemption count for the listing.
type CouponView struct {
	Coupon models.Coupon
	Usages int64
}

// HandleAdminCoupons renders the coupon management overview
func (acc *AdminCouponController) HandleAdminCoupons(c *fiber.Ctx) error {
	coupons, err := acc.couponRepo.GetAll()
	if err != nil {
		return acc.handleError(c, "Failed to load coupons", err)
	}

	views := make([]CouponView, 0, len(coupons))
	for _, coupon := range coupons {
		usages, err := acc.couponRepo.CountUsages(coupon.ID)
		if err != nil {
			return acc.handleError(c, "Failed to count coupon usages", err)
		}
		views = append(views, CouponView{Coupon: coupon, Usages: usages})
	}

	return render(c, "admin/coupons", fiber.Map{
		"PageTitle": "Coupon Management",
		"Coupons":   views,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminCouponCreate renders the coupon creation form
func (acc *AdminCouponController) HandleAdminCouponCreate(c *fiber.Ctx) error {
	return render(c, "admin/coupon_edit", fiber.Map{
		"PageTitle": "Create Coupon",
		"Coupon":    models.Coupon{PerUserLimit: 1, IsActive: true},
		"IsEdit":    false,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminCouponStore handles coupon creation
func (acc *AdminCouponController) HandleAdminCouponStore(c *fiber.Ctx) error {
	coupon := &models.Coupon{}
	acc.bindCouponForm(c, coupon)

	if err := coupon.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Code is required and percent off must be between 1 and 100",
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons/create")
	}

	if existing, err := acc.couponRepo.GetByCode(coupon.Code); err == nil && existing != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "A coupon with this code already exists",
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons/create")
	}

	if err := acc.couponRepo.Create(coupon); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create coupon: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons/create")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Coupon created",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/coupons")
}

// HandleAdminCouponEdit renders the coupon edit form
func (acc *AdminCouponController) HandleAdminCouponEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/coupons")
	}

	coupon, err := acc.couponRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Coupon not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons")
	}

	usages, err := acc.couponRepo.CountUsages(coupon.ID)
	if err != nil {
		return acc.handleError(c, "Failed to count coupon usages", err)
	}

	return render(c, "admin/coupon_edit", fiber.Map{
		"PageTitle": "Edit Coupon",
		"Coupon":    coupon,
		"Usages":    usages,
		"IsEdit":    true,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminCouponUpdate handles coupon updates
func (acc *AdminCouponController) HandleAdminCouponUpdate(c *fiber.Ctx) error {
	couponID := c.Params("id")
	id, err := strconv.ParseUint(couponID, 10, 32)
	if err != nil {
		return c.Redirect("/admin/coupons")
	}

	coupon, err := acc.couponRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Coupon not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons")
	}

	oldCode := coupon.Code
	acc.bindCouponForm(c, coupon)

	if err := coupon.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Code is required and percent off must be between 1 and 100",
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons/edit/" + couponID)
	}

	if coupon.Code != oldCode {
		if existing, err := acc.couponRepo.GetByCode(coupon.Code); err == nil && existing != nil && existing.ID != coupon.ID {
			fm := fiber.Map{
				"type":    "error",
				"message": "Another coupon with this code already exists",
			}
			return flash.WithError(c, fm).Redirect("/admin/coupons/edit/" + couponID)
		}
	}

	if err := acc.couponRepo.Update(coupon); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update coupon: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons/edit/" + couponID)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Coupon updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/coupons")
}

// HandleAdminCouponDelete handles coupon deletion
func (acc *AdminCouponController) HandleAdminCouponDelete(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/coupons")
	}

	if _, err := acc.couponRepo.GetByID(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Coupon not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons")
	}

	if err := acc.couponRepo.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete coupon: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/coupons")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Coupon deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/coupons")
}

// bindCouponForm fills a coupon from the submitted form. Codes are stored
// uppercase; redemption lookups are case-insensitive either way.
func (acc *AdminCouponController) bindCouponForm(c *fiber.Ctx, coupon *models.Coupon) {
	coupon.Code = strings.ToUpper(strings.TrimSpace(c.FormValue("code")))
	coupon.PercentOff, _ = strconv.Atoi(c.FormValue("percent_off"))
	coupon.MaxUses, _ = strconv.Atoi(c.FormValue("max_uses"))
	coupon.PerUserLimit, _ = strconv.Atoi(c.FormValue("per_user_limit"))
	coupon.IsActive = c.FormValue("is_active") == "on"
	coupon.ValidFrom = parseFormDate(c.FormValue("valid_from"))
	coupon.ValidUntil = parseFormDate(c.FormValue("valid_until"))
}

// parseFormDate parses an optional yyyy-mm-dd form value.
func parseFormDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	return &t
}

// ============================================================================
// GLOBAL ADMIN COUPON CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminCouponController *AdminCouponController

// InitializeAdminCouponController initializes the global admin coupon controller
func InitializeAdminCouponController() {
	couponRepo := repository.GetGlobalFactory().GetCouponRepository()
	adminCouponController = NewAdminCouponController(couponRepo)
}

// GetAdminCouponController returns the global admin coupon controller instance
func GetAdminCouponController() *AdminCouponController {
	if adminCouponController == nil {
		InitializeAdminCouponController()
	}
	return adminCouponController
}
