package auth

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

// OnlyRoles rejects callers whose role is not listed. Must run after AuthJWT.
func OnlyRoles(message string, roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := helperAuth.GetRole(c)
		if role == "" {
			return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - role missing")
		}
		if !helperAuth.HasRole(c, roles...) {
			msg := message
			if msg == "" {
				msg = fmt.Sprintf("Access denied for role %s", role)
			}
			return helper.JsonError(c, fiber.StatusForbidden, msg)
		}
		return c.Next()
	}
}

// RequirePageSession guards HTML pages: it reads the access_token cookie and
// redirects to /login?next=<path> when missing, invalid or not permitted.
func RequirePageSession(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		toLogin := func() error {
			return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
		}
		raw := strings.TrimSpace(c.Cookies("access_token"))
		if raw == "" {
			return toLogin()
		}
		claims, err := helperAuth.ParseToken(configs.JWTSecret, raw)
		if err != nil {
			return toLogin()
		}
		c.Locals(helperAuth.LocalUserID, claims.ID)
		c.Locals(helperAuth.LocalRole, claims.Role)
		c.Locals(helperAuth.LocalUserName, claims.UserName)
		if len(roles) > 0 && !helperAuth.HasRole(c, roles...) {
			return toLogin()
		}
		return c.Next()
	}
}
