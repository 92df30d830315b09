package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	LocalUserID   = "user_id"
	LocalRole     = "userRole"
	LocalUserName = "user_name"
	LocalToken    = "access_token"
)

// GetUserIDFromToken reads the user id stored by the auth middleware.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals(LocalUserID).(string)
	if strings.TrimSpace(raw) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - user id missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized - invalid user id")
	}
	return id, nil
}

// GetRole returns the lower-cased role claim, or "" when unauthenticated.
func GetRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalRole).(string)
	return strings.ToLower(strings.TrimSpace(role))
}

func GetUserName(c *fiber.Ctx) string {
	name, _ := c.Locals(LocalUserName).(string)
	return name
}

func HasRole(c *fiber.Ctx, roles ...string) bool {
	role := GetRole(c)
	for _, r := range roles {
		if strings.EqualFold(role, r) {
			return true
		}
	}
	return false
}

// ExtractToken takes the bearer token from Authorization, falling back to the access_token cookie.
func ExtractToken(c *fiber.Ctx) string {
	auth := strings.TrimSpace(c.Get("Authorization"))
	if auth != "" {
		fields := strings.Fields(auth)
		if len(fields) == 2 && strings.EqualFold(fields[0], "Bearer") {
			return strings.Trim(fields[1], "\"'")
		}
		return ""
	}
	return strings.TrimSpace(c.Cookies("access_token"))
}
