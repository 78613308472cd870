package controllers

import (
	"html/template"

	"github.com/gofiber/fiber/v2"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/metrics/counter"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/statistics"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/utils"
)

// HandleHome renders the marketing landing page
func HandleHome(c *fiber.Ctx) error {
	statistics.UpdateCacheIfNeeded()
	stats := statistics.GetStatistics()

	return render(c, "index", fiber.Map{
		"PageTitle":   "Automated Trading Bots",
		"TotalUsers":  stats.TotalUsers,
		"RunningBots": stats.RunningBots,
	})
}

// HandlePricing renders the public pricing page with all active plans
func HandlePricing(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetPlanRepository()

	botPlans, err := repo.GetActiveByCategory(models.PlanCategoryBots)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load plans")
	}
	bundlePlans, err := repo.GetActiveByCategory(models.PlanCategoryBundles)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load plans")
	}

	return render(c, "pricing", fiber.Map{
		"PageTitle":   "Pricing",
		"BotPlans":    botPlans,
		"BundlePlans": bundlePlans,
		"CSRFToken":   c.Locals("csrf"),
	})
}

// HandlePageShow renders a CMS page by slug
func HandlePageShow(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetPageRepository()

	page, err := repo.GetBySlug(c.Params("slug"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Page not found")
	}

	return render(c, "page", fiber.Map{
		"PageTitle":       page.Title,
		"MetaDescription": page.MetaDescription,
		"Page":            page,
		"Content":         template.HTML(utils.ProcessHTMLContent(page.Content)),
	})
}

// HandleGuidesIndex lists published guides grouped by category
func HandleGuidesIndex(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetGuideRepository()

	guides, err := repo.GetPublished()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load guides")
	}

	return render(c, "guides", fiber.Map{
		"PageTitle": "Guides",
		"Guides":    guides,
	})
}

// HandleGuideShow renders a single published guide
func HandleGuideShow(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetGuideRepository()

	guide, err := repo.GetBySlug(c.Params("slug"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Guide not found")
	}

	// View counting is fire-and-forget; a Redis hiccup must not break the page.
	_ = counter.AddGuideView(guide.ID)

	return render(c, "guide", fiber.Map{
		"PageTitle": guide.Title,
		"Guide":     guide,
		"Content":   template.HTML(utils.ProcessHTMLContent(guide.Content)),
	})
}
