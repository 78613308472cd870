package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/billing"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/database"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/env"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/payment"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/usercontext"
)

// HandleCheckoutStart opens a hosted checkout session for the selected
// plan and redirects the user to the provider's payment page.
func HandleCheckoutStart(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	settings := models.GetAppSettings()
	if settings != nil && !settings.IsCheckoutEnabled() {
		fm := fiber.Map{
			"type":    "error",
			"message": "Checkout is temporarily unavailable.",
		}
		return flash.WithError(c, fm).Redirect("/pricing")
	}

	planName := c.FormValue("plan")
	interval := c.FormValue("interval", models.BillingIntervalMonth)
	isTrial := c.FormValue("trial") == "1"
	couponCode := c.FormValue("coupon")

	plan, err := repository.GetGlobalFactory().GetPlanRepository().GetByName(planName)
	if err != nil || !plan.IsActive {
		fm := fiber.Map{
			"type":    "error",
			"message": "Unknown plan.",
		}
		return flash.WithError(c, fm).Redirect("/pricing")
	}

	svc := billing.NewServiceFromDB(database.GetDB())

	amount := plan.PriceFor(interval)
	if isTrial {
		amount = 0
	} else if couponCode != "" {
		coupon, err := svc.ValidateCoupon(c.Context(), couponCode, userID)
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": "This coupon cannot be applied.",
			}
			return flash.WithError(c, fm).Redirect("/pricing")
		}
		amount = coupon.Discount(amount)
	}

	client := payment.NewClientFromEnv()
	session, err := client.CreateSession(c.Context(), payment.CreateSessionParams{
		UserID:          userID,
		PlanName:        plan.Name,
		Amount:          amount,
		Currency:        "USD",
		BillingInterval: interval,
		IsTrial:         isTrial,
		CouponCode:      couponCode,
	})
	if err != nil {
		log.Errorf("checkout session creation failed: %v", err)
		fm := fiber.Map{
			"type":    "error",
			"message": "Could not start the checkout. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/pricing")
	}

	return c.Redirect(session.URL, fiber.StatusSeeOther)
}

// HandleCheckoutVerify is the success-URL target. It re-reads the session
// from the provider and applies the purchase. Safe to hit repeatedly.
func HandleCheckoutVerify(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	sessionID := c.Query("session_id")
	if sessionID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing session id")
	}

	client := payment.NewClientFromEnv()
	session, err := client.GetSession(c.Context(), sessionID)
	if err != nil {
		log.Errorf("checkout session lookup failed: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Could not verify the payment")
	}
	if !session.IsPaid() {
		fm := fiber.Map{
			"type":    "error",
			"message": "The payment was not completed.",
		}
		return flash.WithError(c, fm).Redirect("/pricing")
	}

	// The session must belong to the logged-in user.
	if ref, err := strconv.ParseUint(session.ClientReference, 10, 32); err != nil || uint(ref) != userID {
		return fiber.NewError(fiber.StatusForbidden, "Session does not belong to this account")
	}

	result, err := applyPaidSession(c, session, userID)
	if err != nil {
		return checkoutErrorRedirect(c, err)
	}

	message := "Purchase complete! Your bots are being prepared."
	if result.Renewed {
		message = "Subscription renewed. Thanks for staying with us!"
	}
	fm := fiber.Map{
		"type":    "success",
		"message": message,
	}
	return flash.WithSuccess(c, fm).Redirect("/dashboard/bots")
}

// HandleCheckoutWebhook is the provider's server-to-server notification.
// The signature header authenticates the payload; there is no session.
func HandleCheckoutWebhook(c *fiber.Ctx) error {
	secret := env.GetEnv("CHECKOUT_WEBHOOK_SECRET", "")
	signature := c.Get("X-Webhook-Signature")
	if !payment.VerifyWebhookSignature(c.Body(), signature, secret) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   "unauthorized",
			"message": "invalid signature",
		})
	}

	var event struct {
		Type    string          `json:"type"`
		Session payment.Session `json:"data"`
	}
	if err := json.Unmarshal(c.Body(), &event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "malformed payload",
		})
	}

	if event.Type != "checkout.session.completed" || !event.Session.IsPaid() {
		// Acknowledge but ignore events we do not act on.
		return c.JSON(fiber.Map{"received": true, "applied": false})
	}

	ref, err := strconv.ParseUint(event.Session.ClientReference, 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "bad_request",
			"message": "missing client reference",
		})
	}

	result, err := applyPaidSession(c, &event.Session, uint(ref))
	if err != nil {
		log.Errorf("webhook checkout apply failed for session %s: %v", event.Session.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "internal_server_error",
			"message": "could not apply checkout",
		})
	}

	return c.JSON(fiber.Map{
		"received":          true,
		"applied":           true,
		"renewed":           result.Renewed,
		"already_processed": result.AlreadyProcessed,
	})
}

func applyPaidSession(c *fiber.Ctx, session *payment.Session, userID uint) (*billing.CheckoutResult, error) {
	svc := billing.NewServiceFromDB(database.GetDB())
	return svc.VerifyCheckout(c.Context(), billing.CheckoutInput{
		UserID:          userID,
		PlanName:        session.Metadata.PlanName,
		SessionID:       session.ID,
		BillingInterval: session.Metadata.BillingInterval,
		IsTrial:         session.Metadata.IsTrial == "true",
		CouponCode:      session.Metadata.CouponCode,
		Amount:          session.AmountTotal,
		Currency:        session.Currency,
		PaymentMethod:   session.PaymentMethod,
	})
}

func checkoutErrorRedirect(c *fiber.Ctx, err error) error {
	message := "Something went wrong while applying your purchase."
	switch {
	case errors.Is(err, billing.ErrTrialAlreadyUsed):
		message = "You already used your free trial."
	case errors.Is(err, billing.ErrCouponNotValid), errors.Is(err, billing.ErrCouponExhausted):
		message = "This coupon cannot be applied."
	default:
		log.Errorf("checkout verification failed: %v", err)
	}
	fm := fiber.Map{
		"type":    "error",
		"message": fmt.Sprintf("%s Please contact support if the problem persists.", message),
	}
	return flash.WithError(c, fm).Redirect("/pricing")
}
