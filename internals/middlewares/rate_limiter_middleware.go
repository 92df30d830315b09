package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	helper "schoolhub_backend/internals/helpers"
)

func newLimiter(max int, window time.Duration, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	})
}

// Global limiter for every API endpoint
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(120, time.Minute, "Too many requests. Please try again later.")
}

func LoginRateLimiter() fiber.Handler {
	return newLimiter(5, time.Minute, "Too many login attempts. Please wait a moment.")
}

func RegisterRateLimiter() fiber.Handler {
	return newLimiter(3, 5*time.Minute, "Too many registration attempts. Please wait a few minutes.")
}

// Public forms: admissions and contact
func PublicSubmitRateLimiter() fiber.Handler {
	return newLimiter(10, 10*time.Minute, "Too many submissions. Please try again later.")
}
