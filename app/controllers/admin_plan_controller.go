package controllers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/entitlements"
)

// ============================================================================
// ADMIN PLAN CONTROLLER - Repository Pattern
// ============================================================================

// AdminPlanController handles admin plan-related HTTP requests using repository pattern
type AdminPlanController struct {
	planRepo repository.PlanRepository
}

// NewAdminPlanController creates a new admin plan controller with repository
func NewAdminPlanController(planRepo repository.PlanRepository) *AdminPlanController {
	return &AdminPlanController{
		planRepo: planRepo,
	}
}

func (apc *AdminPlanController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/plans")
}

// HandleAdminPlans renders the plan management overview
func (apc *AdminPlanController) HandleAdminPlans(c *fiber.Ctx) error {
	plans, err := apc.planRepo.GetAll()
	if err != nil {
		return apc.handleError(c, "Failed to load plans", err)
	}

	return render(c, "admin/plans", fiber.Map{
		"PageTitle": "Plan Management",
		"Plans":     plans,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminPlanCreate renders the plan creation form
func (apc *AdminPlanController) HandleAdminPlanCreate(c *fiber.Ctx) error {
	return render(c, "admin/plan_edit", fiber.Map{
		"PageTitle":  "Create Plan",
		"Plan":       models.Plan{Category: models.PlanCategoryBots, IsActive: true},
		"Categories": []string{models.PlanCategoryBots, models.PlanCategoryBundles},
		"IsEdit":     false,
		"CSRFToken":  c.Locals("csrf"),
	})
}

// HandleAdminPlanStore handles plan creation
func (apc *AdminPlanController) HandleAdminPlanStore(c *fiber.Ctx) error {
	plan := &models.Plan{}
	apc.bindPlanForm(c, plan)

	if err := plan.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Plan name and category are required, prices must not be negative",
		}
		return flash.WithError(c, fm).Redirect("/admin/plans/create")
	}

	nameExists, err := apc.planRepo.NameExists(plan.Name)
	if err != nil {
		return apc.handleError(c, "Failed to check plan name", err)
	}

	if nameExists {
		fm := fiber.Map{
			"type":    "error",
			"message": "A plan with this name already exists",
		}
		return flash.WithError(c, fm).Redirect("/admin/plans/create")
	}

	if err := apc.planRepo.Create(plan); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create plan: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/plans/create")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Plan created",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/plans")
}

// HandleAdminPlanEdit renders the plan edit form
func (apc *AdminPlanController) HandleAdminPlanEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	plan, err := apc.planRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Plan not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/plans")
	}

	return render(c, "admin/plan_edit", fiber.Map{
		"PageTitle":    "Edit Plan",
		"Plan":         plan,
		"Categories":   []string{models.PlanCategoryBots, models.PlanCategoryBundles},
		"IncludedBots": strings.Join(plan.IncludedBots, "\n"),
		"IsEdit":       true,
		"CSRFToken":    c.Locals("csrf"),
	})
}

// HandleAdminPlanUpdate handles plan updates
func (apc *AdminPlanController) HandleAdminPlanUpdate(c *fiber.Ctx) error {
	planID := c.Params("id")
	id, err := strconv.ParseUint(planID, 10, 32)
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	plan, err := apc.planRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Plan not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/plans")
	}

	oldName := plan.Name
	apc.bindPlanForm(c, plan)

	if err := plan.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Plan name and category are required, prices must not be negative",
		}
		return flash.WithError(c, fm).Redirect("/admin/plans/edit/" + planID)
	}

	if plan.Name != oldName {
		nameExists, err := apc.planRepo.NameExistsExceptID(plan.Name, uint(id))
		if err != nil {
			return apc.handleError(c, "Failed to check plan name", err)
		}

		if nameExists {
			fm := fiber.Map{
				"type":    "error",
				"message": "Another plan with this name already exists",
			}
			return flash.WithError(c, fm).Redirect("/admin/plans/edit/" + planID)
		}
	}

	if err := apc.planRepo.Update(plan); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update plan: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/plans/edit/" + planID)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Plan updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/plans")
}

// HandleAdminPlanDelete handles plan deletion
func (apc *AdminPlanController) HandleAdminPlanDelete(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/plans")
	}

	if _, err := apc.planRepo.GetByID(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Plan not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/plans")
	}

	if err := apc.planRepo.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete plan: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/plans")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Plan deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/plans")
}

// bindPlanForm fills a plan from the submitted form. Bundle plans saved
// without an explicit bot list get it backfilled from the legacy tier
// mapping, so the hard-coded tier table only ever serves rows that were
// never re-saved.
func (apc *AdminPlanController) bindPlanForm(c *fiber.Ctx, plan *models.Plan) {
	plan.Name = strings.TrimSpace(c.FormValue("name"))
	plan.Category = c.FormValue("category")
	plan.Tier = strings.TrimSpace(c.FormValue("tier"))
	plan.Description = c.FormValue("description")
	plan.PriceMonthly, _ = strconv.ParseFloat(c.FormValue("price_monthly"), 64)
	plan.PriceYearly, _ = strconv.ParseFloat(c.FormValue("price_yearly"), 64)
	plan.SortOrder, _ = strconv.Atoi(c.FormValue("sort_order"))
	plan.IsActive = c.FormValue("is_active") == "on"
	plan.IncludedBots = parseBotList(c.FormValue("included_bots"))

	if plan.Category == models.PlanCategoryBundles && len(plan.IncludedBots) == 0 {
		plan.IncludedBots = entitlements.LegacyBundleTargets(plan.Tier)
	}
}

// parseBotList splits a textarea value into bot names, one per line,
// commas accepted as well.
func parseBotList(raw string) models.StringList {
	var out models.StringList
	for _, line := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == '\n' || r == ','
	}) {
		name := strings.TrimSpace(line)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// ============================================================================
// GLOBAL ADMIN PLAN CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminPlanController *AdminPlanController

// InitializeAdminPlanController initializes the global admin plan controller
func InitializeAdminPlanController() {
	planRepo := repository.GetGlobalFactory().GetPlanRepository()
	adminPlanController = NewAdminPlanController(planRepo)
}

// GetAdminPlanController returns the global admin plan controller instance
func GetAdminPlanController() *AdminPlanController {
	if adminPlanController == nil {
		InitializeAdminPlanController()
	}
	return adminPlanController
}
