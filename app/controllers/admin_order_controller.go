package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/s3export"
)

// ============================================================================
// ADMIN ORDER CONTROLLER - Repository Pattern
// ============================================================================

// AdminOrderController handles the admin order ledger views and exports
type AdminOrderController struct {
	orderRepo repository.OrderRepository
}

// NewAdminOrderController creates a new admin order controller with repository
func NewAdminOrderController(orderRepo repository.OrderRepository) *AdminOrderController {
	return &AdminOrderController{
		orderRepo: orderRepo,
	}
}

func (aoc *AdminOrderController) handleError(c *fiber.Ctx, message string, err error) error {
	fm := fiber.Map{
		"type":    "error",
		"message": message + ": " + err.Error(),
	}
	return flash.WithError(c, fm).Redirect("/admin/orders")
}

// HandleAdminOrders renders the paginated order ledger
func (aoc *AdminOrderController) HandleAdminOrders(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage := 20
	offset := (page - 1) * perPage

	total, err := aoc.orderRepo.Count()
	if err != nil {
		return aoc.handleError(c, "Failed to count orders", err)
	}

	orders, err := aoc.orderRepo.List(offset, perPage)
	if err != nil {
		return aoc.handleError(c, "Failed to load orders", err)
	}

	revenue30d, err := aoc.orderRepo.RevenueSince(time.Now().AddDate(0, 0, -30))
	if err != nil {
		return aoc.handleError(c, "Failed to compute revenue", err)
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))

	exportCfg, _ := s3export.LoadConfig()

	return render(c, "admin/orders", fiber.Map{
		"PageTitle":     "Order Ledger",
		"Orders":        orders,
		"Page":          page,
		"PrevPage":      page - 1,
		"NextPage":      page + 1,
		"TotalPages":    totalPages,
		"TotalOrders":   total,
		"Revenue30d":    fmt.Sprintf("%.2f", revenue30d),
		"ExportEnabled": exportCfg != nil && exportCfg.IsEnabled(),
		"CSRFToken":     c.Locals("csrf"),
	})
}

// HandleAdminOrderExport exports the full order ledger as CSV to S3
func (aoc *AdminOrderController) HandleAdminOrderExport(c *fiber.Ctx) error {
	if c.Method() != fiber.MethodPost {
		return c.SendStatus(fiber.StatusMethodNotAllowed)
	}

	cfg, err := s3export.LoadConfig()
	if err != nil {
		return aoc.handleError(c, "Export configuration invalid", err)
	}
	if !cfg.IsEnabled() {
		fm := fiber.Map{
			"type":    "error",
			"message": "S3 export is not enabled",
		}
		return flash.WithError(c, fm).Redirect("/admin/orders")
	}

	client, err := s3export.NewClient(cfg)
	if err != nil {
		return aoc.handleError(c, "Failed to initialize export client", err)
	}

	total, err := aoc.orderRepo.Count()
	if err != nil {
		return aoc.handleError(c, "Failed to count orders", err)
	}

	orders, err := aoc.orderRepo.List(0, int(total))
	if err != nil {
		return aoc.handleError(c, "Failed to load orders", err)
	}

	result, err := client.ExportOrders(c.Context(), orders, time.Now())
	if err != nil {
		return aoc.handleError(c, "Export failed", err)
	}

	fm := fiber.Map{
		"type":    "success",
		"message": fmt.Sprintf("Exported %d orders to %s", result.OrderCount, result.ObjectKey),
	}

	return flash.WithSuccess(c, fm).Redirect("/admin/orders")
}

// ============================================================================
// GLOBAL ADMIN ORDER CONTROLLER INSTANCE - Singleton Pattern
// ============================================================================

var adminOrderController *AdminOrderController

// InitializeAdminOrderController initializes the global admin order controller
func InitializeAdminOrderController() {
	orderRepo := repository.GetGlobalFactory().GetOrderRepository()
	adminOrderController = NewAdminOrderController(orderRepo)
}

// GetAdminOrderController returns the global admin order controller instance
func GetAdminOrderController() *AdminOrderController {
	if adminOrderController == nil {
		InitializeAdminOrderController()
	}
	return adminOrderController
}
