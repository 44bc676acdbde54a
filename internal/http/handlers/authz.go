package handlers

import (
	"greengrocer/internal/domain"
	applog "greengrocer/internal/log"
	"greengrocer/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RequireUser enforces a logged-in session; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func requireRole(auth *services.AuthService, role, denyAction string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil || u.Role != role {
			applog.Security(c, denyAction, map[string]any{"sid": sid})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("user", u)
		return c.Next()
	}
}

func RequireCarrier(auth *services.AuthService) fiber.Handler {
	return requireRole(auth, domain.RoleCarrier, "access.denied.carrier")
}

func RequireOwner(auth *services.AuthService) fiber.Handler {
	return requireRole(auth, domain.RoleOwner, "access.denied.owner")
}
