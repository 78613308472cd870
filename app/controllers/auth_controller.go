package controllers

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"

	"github.com/thaiwebseo/unicorn-x/app/models"
	"github.com/thaiwebseo/unicorn-x/app/repository"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/database"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/env"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/hcaptcha"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/mail"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/session"
	"github.com/thaiwebseo/unicorn-x/internal/pkg/statistics"
)

const (
	AUTH_KEY       string = "authenticated"
	USER_ID        string = "user_id"
	USER_NAME      string = "username"
	USER_IS_ADMIN  string = "isAdmin"
	FROM_PROTECTED string = "from_protected"
)

func HandleAuthLogin(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		var user models.User
		fm := fiber.Map{
			"type": "error",
		}

		// notice: in production you should not inform the user
		// with detailed messages about login failures
		result := database.GetDB().Where("email = ?", c.FormValue("email")).First(&user)
		if result.Error != nil {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if !models.CheckPasswordHash(c.FormValue("password"), user.Password) {
			fm["message"] = "There is a problem with the login process"

			return flash.WithError(c, fm).Redirect("/login")
		}

		if user.Status == models.STATUS_INACTIVE {
			fm["message"] = "Please activate your account first. Check your inbox."

			return flash.WithError(c, fm).Redirect("/login")
		}
		if user.Status == models.STATUS_DISABLED {
			fm["message"] = "This account has been disabled."

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess, err := session.GetSessionStore().Get(c)
		if err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		sess.Set(AUTH_KEY, true)
		sess.Set(USER_ID, user.ID)
		sess.Set(USER_NAME, user.Name)
		sess.Set(USER_IS_ADMIN, user.Role == models.ROLE_ADMIN)

		if err := sess.Save(); err != nil {
			fm["message"] = fmt.Sprintf("something went wrong: %s", err)

			return flash.WithError(c, fm).Redirect("/login")
		}

		now := time.Now()
		user.LastLoginAt = &now
		user.IPv4, user.IPv6 = GetClientIP(c)
		database.GetDB().Save(&user)

		fm = fiber.Map{
			"type":    "success",
			"message": "Welcome back!",
		}

		return flash.WithSuccess(c, fm).Redirect("/dashboard")
	}

	return render(c, "auth/login", fiber.Map{
		"PageTitle": "Login",
		"CSRFToken": c.Locals("csrf"),
	})
}

func HandleAuthLogout(c *fiber.Ctx) error {
	fm := fiber.Map{
		"type": "error",
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		fm["message"] = "logged out (no sess)"

		return flash.WithError(c, fm).Redirect("/login")
	}

	if err := sess.Destroy(); err != nil {
		fm["message"] = fmt.Sprintf("something went wrong: %s", err)

		return flash.WithError(c, fm).Redirect("/login")
	}

	fm = fiber.Map{
		"type":    "success",
		"message": "See you soon!",
	}

	c.Locals(FROM_PROTECTED, false)

	return flash.WithSuccess(c, fm).Redirect("/login")
}

func HandleAuthRegister(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost {
		settings := models.GetAppSettings()
		if settings != nil && !settings.IsRegistrationEnabled() {
			fm := fiber.Map{
				"type":    "error",
				"message": "Registration is currently closed.",
			}
			return flash.WithError(c, fm).Redirect("/register")
		}

		// Verify hCaptcha token
		hcaptchaToken := c.FormValue("h-captcha-response")
		valid, err := hcaptcha.Verify(hcaptchaToken)
		if err != nil || !valid {
			errorMsg := "Captcha validation failed. Please try again."
			if err != nil && env.IsDev() {
				errorMsg = fmt.Sprintf("Captcha validation failed: %v", err)
			}

			fm := fiber.Map{
				"type":    "error",
				"message": errorMsg,
			}
			return flash.WithError(c, fm).Redirect("/register")
		}

		user, err := models.CreateUser(c.FormValue("username"), c.FormValue("email"), c.FormValue("password"))
		if err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := user.GenerateActivationToken(); err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		if err := database.GetDB().Create(&user).Error; err != nil {
			fm := fiber.Map{
				"type":    "error",
				"message": fmt.Sprintf("something went wrong: %s", err),
			}

			return flash.WithError(c, fm).Redirect("/register")
		}

		sendActivationMail(user)

		// Update statistics after registration
		go statistics.UpdateStatisticsCache()

		fm := fiber.Map{
			"type":    "success",
			"message": "Registration successful! Please confirm your email address.",
		}

		return flash.WithSuccess(c, fm).Redirect("/login")
	}

	return render(c, "auth/register", fiber.Map{
		"PageTitle":       "Register",
		"CSRFToken":       c.Locals("csrf"),
		"HCaptchaSitekey": env.GetEnv("HCAPTCHA_SITEKEY", ""),
	})
}

// HandleAuthActivate confirms an account via the emailed token
func HandleAuthActivate(c *fiber.Ctx) error {
	token := c.Query("token")
	if token == "" {
		fm := fiber.Map{
			"type":    "error",
			"message": "Missing activation token.",
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByActivationToken(token)
	if err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Invalid or expired activation link.",
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repo.Update(user); err != nil {
		fm := fiber.Map{
			"type":    "error",
			"message": "Activation failed. Please try again.",
		}
		return flash.WithError(c, fm).Redirect("/login")
	}

	fm := fiber.Map{
		"type":    "success",
		"message": "Account activated. You can log in now.",
	}
	return flash.WithSuccess(c, fm).Redirect("/login")
}

func sendActivationMail(user *models.User) {
	domain := env.GetEnv("PUBLIC_DOMAIN", "http://localhost:8080")
	link := fmt.Sprintf("%s/activate?token=%s", domain, user.ActivationToken)
	body := fmt.Sprintf("Hi %s,\n\nplease confirm your account:\n%s\n\nYour Unicorn-X Team", user.Name, link)
	go func() {
		if err := mail.SendMail(user.Email, "Activate your Unicorn-X account", body); err != nil {
			fmt.Printf("failed to send activation mail to %s: %v\n", user.Email, err)
		}
	}()
}
