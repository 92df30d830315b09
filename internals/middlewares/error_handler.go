package middlewares

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/reporter"
)

// ErrorHandler renders JSON for /api paths and the error page otherwise.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		msg = fe.Message
	}

	if code >= 500 {
		configs.Logger("http").Error().Err(err).Str("path", c.Path()).Msg("[HTTP][ERROR]")
		reporter.Error(c, err)
		msg = "Internal server error"
	}

	if strings.HasPrefix(c.Path(), "/api") || c.Path() == "/metrics" {
		return helper.JsonError(c, code, msg)
	}

	c.Status(code)
	if renderErr := c.Render("pages/error", fiber.Map{
		"Title":   "Error",
		"Code":    code,
		"Message": msg,
	}, "layouts/main"); renderErr != nil {
		return c.SendString(msg)
	}
	return nil
}
