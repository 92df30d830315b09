package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/metrics"
)

func MetricsMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = "unmatched"
		}
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, c.Method(), strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
		return err
	}
}
