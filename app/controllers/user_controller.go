package controllers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/env"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/mail"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/usercontext"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/utils"
)

// HandleUserProfile renders the account profile page
func HandleUserProfile(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load profile")
	}

	avatarURL := user.AvatarURL
	if avatarURL == "" {
		avatarURL = utils.GetGravatarURL(user.Email, 160)
	}

	return render(c, "dashboard/profile", fiber.Map{
		"PageTitle":          "Profile",
		"User":               user,
		"AvatarURL":          avatarURL,
		"HasAPIKey":          user.HasActiveAPIKey(),
		"APIKeyPrefix":       user.APIKeyPrefix,
		"PendingEmailChange": user.HasPendingEmailChange(),
		"CSRFToken":          c.Locals("csrf"),
	})
}

// HandleUserPasswordChange updates the account password
func HandleUserPasswordChange(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load profile")
	}

	if !user.CheckPassword(c.FormValue("current_password")) {
		fm := fiber.Map{
			"type":    "error",
			"message": "The current password is wrong.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/profile")
	}

	newPassword := c.FormValue("new_password")
	if newPassword != c.FormValue("new_password_confirm") {
		fm := fiber.Map{
			"type":    "error",
			"message": "The new passwords do not match.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/profile")
	}

	if err := user.SetPassword(newPassword); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Could not update the password.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/profile")
	}
	if err := repo.Update(user); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Could not update the password.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/profile")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Password updated.",
	}
	return flash.WithSuccess(c, fm).Redirect("/dashboard/profile")
}

// HandleUserEmailChangeRequest starts a verified email change
func HandleUserEmailChangeRequest(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load profile")
	}

	newEmail := c.FormValue("email")
	if newEmail == "" || newEmail == user.Email {
		fm := fiber.Map{
			"type":    "error",
			"message": "Please enter a new email address.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/profile")
	}

	user.PendingEmail = newEmail
	if err := user.GenerateEmailChangeToken(); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not start the email change")
	}
	if err := repo.Update(user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not start the email change")
	}

	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/dashboard/profile/confirm-email?token=%s", domain, user.EmailChangeToken)
	body := fmt.Sprintf("Hi %s,\n\nplease confirm your new email address:\n%s\n\nYour Unicorn-X Team", user.Name, link)
	go func() {
		if err := mail.SendMail(newEmail, "Confirm your new email address", body); err != nil {
			fmt.Printf("failed to send email change mail to %s: %v\n", newEmail, err)
		}
	}()

	fm := fiber.Map{
		"type":    "success",
		"message": "We sent a confirmation link to the new address.",
	}
	return flash.WithSuccess(c, fm).Redirect("/dashboard/profile")
}

// HandleUserEmailChangeConfirm completes a pending email change
func HandleUserEmailChangeConfirm(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load profile")
	}

	token := c.Query("token")
	if !user.IsEmailChangeTokenValid(token) {
		fm := fiber.Map{
			"type":    "error",
			"message": "The confirmation link is invalid or expired.",
		}
		return flash.WithError(c, fm).Redirect("/dashboard/profile")
	}

	user.Email = user.PendingEmail
	user.ClearEmailChangeRequest()
	if err := repo.Update(user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not complete the email change")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Email address updated.",
	}
	return flash.WithSuccess(c, fm).Redirect("/dashboard/profile")
}

// HandleUserAPIKeyIssue generates a fresh API key. The raw key is shown
// exactly once.
func HandleUserAPIKeyIssue(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load profile")
	}

	rawKey, err := user.IssueAPIKey()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not generate an API key")
	}
	if err := repo.Update(user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not store the API key")
	}

	// Render directly so the raw key never travels through a redirect.
	avatarURL := user.AvatarURL
	if avatarURL == "" {
		avatarURL = utils.GetGravatarURL(user.Email, 160)
	}
	return render(c, "dashboard/profile", fiber.Map{
		"PageTitle":    "Profile",
		"User":         user,
		"AvatarURL":    avatarURL,
		"HasAPIKey":    true,
		"APIKeyPrefix": user.APIKeyPrefix,
		"NewAPIKey":    rawKey,
		"CSRFToken":    c.Locals("csrf"),
	})
}

// HandleUserAPIKeyRevoke revokes the active API key
func HandleUserAPIKeyRevoke(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load profile")
	}

	user.RevokeAPIKey()
	if err := repo.Update(user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Could not revoke the API key")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "API key revoked.",
	}
	return flash.WithSuccess(c, fm).Redirect("/dashboard/profile")
}
