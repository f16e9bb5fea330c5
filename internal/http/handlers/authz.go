package handlers

import (
	"livingdead/internal/auth"
	applog "livingdead/internal/log"

	"github.com/gofiber/fiber/v2"
)

func RequireUser(authSvc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := authSvc.Current(c.Cookies("sid"))
		if sess == nil {
			return c.Redirect("/login")
		}
		c.Locals("session", sess)
		return c.Next()
	}
}

func RequireAdmin(authSvc *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := authSvc.Current(c.Cookies("sid"))
		if sess == nil {
			return c.Redirect("/login")
		}
		if !authSvc.IsAdmin(sess) {
			applog.Security(c, "access.denied.admin", map[string]any{"email": sess.Email})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("session", sess)
		return c.Next()
	}
}
