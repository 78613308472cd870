package controllers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
)

// ============================================================================
// ADMIN GUIDE CONTROLLER - Repository Pattern
// ============================================================================

// AdminGuideController handles admin guide-related HTTP requests using repository pattern
type AdminGuideController struct {
	guideRepo repository.GuideRepository
}

// NewAdminGuideController creates a new admin guide controller with repository
func NewAdminGuideController(guideRepo repository.GuideRepository) *AdminGuideController {
	return &AdminGuideController{
		guideRepo: guideRepo,
	}
}

func (agc *AdminGuideController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/guides")
}

// HandleAdminGuides renders the guide management overview
func (agc *AdminGuideController) HandleAdminGuides(c *fiber.Ctx) error {
	guides, err := agc.guideRepo.GetAll()
	if err != nil {
		return agc.handleError(c, "Failed to load guides", err)
	}

	return render(c, "admin/guides", fiber.Map{
		"PageTitle": "Guide Management",
		"Guides":    guides,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminGuideCreate renders the guide creation form
func (agc *AdminGuideController) HandleAdminGuideCreate(c *fiber.Ctx) error {
	return render(c, "admin/guide_edit", fiber.Map{
		"PageTitle": "Create Guide",
		"Guide":     models.Guide{},
		"IsEdit":    false,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminGuideStore handles guide creation
func (agc *AdminGuideController) HandleAdminGuideStore(c *fiber.Ctx) error {
	guide := &models.Guide{
		Title:       c.FormValue("title"),
		Slug:        c.FormValue("slug"),
		Content:     c.FormValue("content"),
		Category:    c.FormValue("category"),
		IsPublished: c.FormValue("is_published") == "on",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	guide.SortOrder, _ = strconv.Atoi(c.FormValue("sort_order"))

	if err := guide.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title, slug and content are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/guides/create")
	}

	slugExists, err := agc.guideRepo.SlugExists(guide.Slug)
	if err != nil {
		return agc.handleError(c, "Failed to check slug", err)
	}

	if slugExists {
		fm := fiber.Map{
			"type":    "error",
			"message": "A guide with this slug already exists",
		}
		return flash.WithError(c, fm).Redirect("/admin/guides/create")
	}

	if err := agc.guideRepo.Create(guide); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create guide: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/guides/create")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Guide created",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/guides")
}

// HandleAdminGuideEdit renders the guide edit form
func (agc *AdminGuideController) HandleAdminGuideEdit(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/guides")
	}

	guide, err := agc.guideRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Guide not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/guides")
	}

	return render(c, "admin/guide_edit", fiber.Map{
		"PageTitle": "Edit Guide",
		"Guide":     guide,
		"IsEdit":    true,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminGuideUpdate handles guide updates
func (agc *AdminGuideController) HandleAdminGuideUpdate(c *fiber.Ctx) error {
	guideID := c.Params("id")
	id, err := strconv.ParseUint(guideID, 10, 32)
	if err != nil {
		return c.Redirect("/admin/guides")
	}

	guide, err := agc.guideRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Guide not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/guides")
	}

	newSlug := c.FormValue("slug")
	if newSlug != guide.Slug {
		slugExists, err := agc.guideRepo.SlugExistsExceptID(newSlug, uint(id))
		if err != nil {
			return agc.handleError(c, "Failed to check slug", err)
		}

		if slugExists {
			fm := fiber.Map{
				"type":    "error",
				"message": "Another guide with this slug already exists",
			}
			return flash.WithError(c, fm).Redirect("/admin/guides/edit/" + guideID)
		}
	}

	guide.Title = c.FormValue("title")
	guide.Slug = newSlug
	guide.Content = c.FormValue("content")
	guide.Category = c.FormValue("category")
	guide.SortOrder, _ = strconv.Atoi(c.FormValue("sort_order"))
	guide.IsPublished = c.FormValue("is_published") == "on"
	guide.UpdatedAt = time.Now()

	if err := guide.Validate(); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title, slug and content are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/guides/edit/" + guideID)
	}

	if err := agc.guideRepo.Update(guide); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update guide: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/guides/edit/" + guideID)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Guide updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/guides")
}

// HandleAdminGuideDelete handles guide deletion
func (agc *AdminGuideController) HandleAdminGuideDelete(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/guides")
	}

	if _, err := agc.guideRepo.GetByID(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Guide not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/guides")
	}

	if err := agc.guideRepo.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete guide: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/guides")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Guide deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/guides")
}

// ============================================================================
// GLOBAL ADMIN GUIDE CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminGuideController *AdminGuideController

// InitializeAdminGuideController initializes the global admin guide controller
func InitializeAdminGuideController() {
	guideRepo := repository.GetGlobalFactory().GetGuideRepository()
	adminGuideController = NewAdminGuideController(guideRepo)
}

// GetAdminGuideController returns the global admin guide controller instance
func GetAdminGuideController() *AdminGuideController {
	if adminGuideController == nil {
		InitializeAdminGuideController()
	}
	return adminGuideController
}
