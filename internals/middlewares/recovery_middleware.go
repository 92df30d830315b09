package middlewares

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/helpers/reporter"
)

// RecoveryMiddleware turns panics into 500 and reports them.
func RecoveryMiddleware() fiber.Handler {
	log := configs.Logger("recover")
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Error().
				Str("path", c.Path()).
				Str("panic", fmt.Sprint(e)).
				Bytes("stack", debug.Stack()).
				Msg("[PANIC] recovered")
			reporter.Critical(c, e)
		},
	})
}
