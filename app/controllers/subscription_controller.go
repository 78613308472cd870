package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/billing"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/database"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/entitlements"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/usercontext"
)

// HandleMySubscriptions renders the customer subscription list
func HandleMySubscriptions(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	// Lazily expire on read; there is no background scheduler.
	svc := billing.NewServiceFromDB(database.GetDB())
	if _, err := svc.MarkExpiredSubscriptions(c.Context()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to refresh subscriptions")
	}

	subRepo := repository.GetGlobalFactory().GetSubscriptionRepository()
	subs, err := subRepo.GetByUserID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load subscriptions")
	}

	now := time.Now()
	type subView struct {
		ID        uint
		PlanName  string
		Status    string
		StartDate string
		EndDate   string
		IsTrial   bool
		Interval  string
		Active    bool
	}
	views := make([]subView, 0, len(subs))
	for _, sub := range subs {
		views = append(views, subView{
			ID:        sub.ID,
			PlanName:  sub.Plan.Name,
			Status:    sub.Status,
			StartDate: sub.StartDate.Format("2006-01-02"),
			EndDate:   sub.EndDate.Format("2006-01-02"),
			IsTrial:   sub.IsTrial,
			Interval:  sub.BillingInterval,
			Active:    entitlements.IsCurrentlyEntitled(&sub, now),
		})
	}

	return render(c, "dashboard/subscriptions", fiber.Map{
		"PageTitle":     "My Subscriptions",
		"Subscriptions": views,
		"CSRFToken":     c.Locals("csrf"),
	})
}

// HandleSubscriptionCancel cancels an active subscription owned by the
// current user. Entitlements continue until the paid-through date.
func HandleSubscriptionCancel(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	subID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid subscription id")
	}

	svc := billing.NewServiceFromDB(database.GetDB())
	_, err = svc.CancelSubscription(c.Context(), userID, uint(subID))
	switch {
	case errors.Is(err, billing.ErrNotSubscriptionOwner):
		return fiber.NewError(fiber.StatusNotFound, "Subscription not found")
	case errors.Is(err, billing.ErrNotCancellable):
		fm := fiber.Map{
			"type":    "error",
			"message": "Only active subscriptions can be cancelled.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/subscriptions")
	case err != nil:
		fm := fiber.Map{
			"type":    "error",
			"message": "Cancellation failed. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/subscriptions")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Subscription cancelled. It stays usable until the end of the paid period.",
	}
	return flash.WithSuccess(c, fm).Redirect("/dashboard/subscriptions")
}

// HandleMyOrders renders the customer's order history
func HandleMyOrders(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	orders, err := repository.GetGlobalFactory().GetOrderRepository().GetByUserID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load orders")
	}

	return render(c, "dashboard/orders", fiber.Map{
		"PageTitle": "Order History",
		"Orders":    orders,
	})
}
