package middlewares

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/utils"
)

const (
	HeaderRequestID         = "X-Request-ID"
	HeaderRequestGeneration = "X-Request-Generation"

	RequestTimeout = 5 * time.Second
)

// RequestContext assigns a request id, echoes the client's request generation
// and bounds the request with a cancellable timeout context.
func RequestContext(timeout time.Duration) fiber.Handler {
	if timeout <= 0 {
		timeout = RequestTimeout
	}
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(HeaderRequestID))
		if id == "" {
			id = utils.UUID()
		}
		c.Set(HeaderRequestID, id)
		c.Locals("request_id", id)

		if gen := strings.TrimSpace(c.Get(HeaderRequestGeneration)); gen != "" {
			c.Set(HeaderRequestGeneration, gen)
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
