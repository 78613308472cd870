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
// ADMIN PAGE CONTROLLER - Repository Pattern
// ============================================================================

// AdminPageController handles admin page-related HTTP requests using repository pattern
type AdminPageController struct {
	pageRepo repository.PageRepository
}

// NewAdminPageController creates a new admin page controller with repository
func NewAdminPageController(pageRepo repository.PageRepository) *AdminPageController {
	return &AdminPageController{
		pageRepo: pageRepo,
	}
}

// handleError is a helper method for consistent error handling
func (apc *AdminPageController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/pages")
}

// HandleAdminPages renders the page management overview
func (apc *AdminPageController) HandleAdminPages(c *fiber.Ctx) error {
	pages, err := apc.pageRepo.GetAll()
	if err != nil {
		return apc.handleError(c, "Failed to load pages", err)
	}

	return render(c, "admin/pages", fiber.Map{
		"PageTitle": "Page Management",
		"Pages":     pages,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminPageCreate renders the page creation form
func (apc *AdminPageController) HandleAdminPageCreate(c *fiber.Ctx) error {
	return render(c, "admin/page_edit", fiber.Map{
		"PageTitle": "Create Page",
		"Page":      models.Page{},
		"IsEdit":    false,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminPageStore handles page creation
func (apc *AdminPageController) HandleAdminPageStore(c *fiber.Ctx) error {
	title := c.FormValue("title")
	slug := c.FormValue("slug")
	content := c.FormValue("content")
	metaDescription := c.FormValue("meta_description")
	isActive := c.FormValue("is_active") == "on"
	showInFooter := c.FormValue("show_in_footer") == "on"

	if title == "" || slug == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title and slug are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/create")
	}

	slugExists, err := apc.pageRepo.SlugExists(slug)
	if err != nil {
		return apc.handleError(c, "Failed to check slug", err)
	}

	if slugExists {
		fm := fiber.Map{
			"type":    "error",
			"message": "A page with this slug already exists",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/create")
	}

	page := &models.Page{
		Title:           title,
		Slug:            slug,
		Content:         content,
		MetaDescription: metaDescription,
		IsActive:        isActive,
		ShowInFooter:    showInFooter,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}

	if err := apc.pageRepo.Create(page); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to create page: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/create")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Page created",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/pages")
}

// HandleAdminPageEdit renders the page edit form
func (apc *AdminPageController) HandleAdminPageEdit(c *fiber.Ctx) error {
	pageID := c.Params("id")
	id, err := strconv.ParseUint(pageID, 10, 32)
	if err != nil {
		return c.Redirect("/admin/pages")
	}

	page, err := apc.pageRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Page not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	return render(c, "admin/page_edit", fiber.Map{
		"PageTitle": "Edit Page",
		"Page":      page,
		"IsEdit":    true,
		"CSRFToken": c.Locals("csrf"),
	})
}

// HandleAdminPageUpdate handles page updates
func (apc *AdminPageController) HandleAdminPageUpdate(c *fiber.Ctx) error {
	pageID := c.Params("id")
	id, err := strconv.ParseUint(pageID, 10, 32)
	if err != nil {
		return c.Redirect("/admin/pages")
	}

	page, err := apc.pageRepo.GetByID(uint(id))
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Page not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	title := c.FormValue("title")
	slug := c.FormValue("slug")
	content := c.FormValue("content")
	metaDescription := c.FormValue("meta_description")
	isActive := c.FormValue("is_active") == "on"
	showInFooter := c.FormValue("show_in_footer") == "on"

	if title == "" || slug == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Title and slug are required",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/edit/" + pageID)
	}

	if slug != page.Slug {
		slugExists, err := apc.pageRepo.SlugExistsExceptID(slug, uint(id))
		if err != nil {
			return apc.handleError(c, "Failed to check slug", err)
		}

		if slugExists {
			fm := fiber.Map{
				"type":    "error",
				"message": "Another page with this slug already exists",
			}
			return flash.WithError(c, fm).Redirect("/admin/pages/edit/" + pageID)
		}
	}

	page.Title = title
	page.Slug = slug
	page.Content = content
	page.MetaDescription = metaDescription
	page.IsActive = isActive
	page.ShowInFooter = showInFooter
	page.UpdatedAt = time.Now()

	if err := apc.pageRepo.Update(page); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to update page: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/pages/edit/" + pageID)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Page updated",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/pages")
}

// HandleAdminPageDelete handles page deletion
func (apc *AdminPageController) HandleAdminPageDelete(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Redirect("/admin/pages")
	}

	if _, err := apc.pageRepo.GetByID(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Page not found",
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	if err := apc.pageRepo.Delete(uint(id)); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Failed to delete page: " + err.Error(),
		}
		return flash.WithError(c, fm).Redirect("/admin/pages")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Page deleted",
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/pages")
}

// ============================================================================
// GLOBAL ADMIN PAGE CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminPageController *AdminPageController

// InitializeAdminPageController initializes the global admin page controller
func InitializeAdminPageController() {
	pageRepo := repository.GetGlobalFactory().GetPageRepository()
	adminPageController = NewAdminPageController(pageRepo)
}

// GetAdminPageController returns the global admin page controller instance
func GetAdminPageController() *AdminPageController {
	if adminPageController == nil {
		InitializeAdminPageController()
	}
	return adminPageController
}
