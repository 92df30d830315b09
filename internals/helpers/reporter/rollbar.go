// Package reporter forwards unexpected errors to Rollbar when ROLLBAR_TOKEN is configured.
package reporter

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rollbar/rollbar-go"
	rollbarErrors "github.com/rollbar/rollbar-go/errors"

	"schoolhub_backend/internals/configs"
)

var enabled bool

func Init() {
	token := configs.GetEnv("ROLLBAR_TOKEN")
	if token == "" {
		rollbar.SetEnabled(false)
		return
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(configs.GetEnv("APP_ENV", "development"))
	rollbar.SetCodeVersion(configs.GetEnv("APP_VERSION", "dev"))
	rollbar.SetStackTracer(rollbarErrors.StackTracer)
	rollbar.SetEnabled(true)
	enabled = true
	configs.Logger("reporter").Info().Msg("[ROLLBAR] enabled")
}

// Error reports err with request context; no-op when disabled.
func Error(c *fiber.Ctx, err error) {
	if !enabled || err == nil {
		return
	}
	extras := map[string]interface{}{}
	if c != nil {
		extras["method"] = c.Method()
		extras["path"] = c.Path()
		if rid, ok := c.Locals("request_id").(string); ok {
			extras["request_id"] = rid
		}
		if uid, ok := c.Locals("user_id").(string); ok {
			rollbar.SetPerson(uid, "", "")
			defer rollbar.ClearPerson()
		}
	}
	rollbar.Error(err, extras)
}

// Critical reports a recovered panic.
func Critical(c *fiber.Ctx, value interface{}) {
	if !enabled {
		return
	}
	extras := map[string]interface{}{}
	if c != nil {
		extras["method"] = c.Method()
		extras["path"] = c.Path()
	}
	rollbar.Critical(value, extras)
}

func Close() {
	if enabled {
		rollbar.Close()
	}
}
