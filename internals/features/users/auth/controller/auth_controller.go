package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/users/auth/dto"
	"schoolhub_backend/internals/features/users/auth/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type AuthController struct {
	Svc *service.AuthService
}

func NewAuthController(svc *service.AuthService) *AuthController {
	return &AuthController{Svc: svc}
}

func setAccessCookie(c *fiber.Ctx, token string, exp time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   configs.IsProduction(),
		SameSite: "Lax",
	})
}

// POST /api/auth/register
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	user, err := ac.Svc.Register(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Registration successful", dto.ToUserResponse(user))
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resp, err := ac.Svc.Login(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	setAccessCookie(c, resp.AccessToken, resp.ExpiresAt)
	return helper.JsonOK(c, "Login successful", resp)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	resp, err := ac.Svc.LoginGoogle(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	setAccessCookie(c, resp.AccessToken, resp.ExpiresAt)
	return helper.JsonOK(c, "Login successful", resp)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	token := helperAuth.ExtractToken(c)
	if token == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized - No token provided")
	}
	if err := ac.Svc.Logout(c.UserContext(), token); err != nil {
		configs.Logger("auth").Error().Err(err).Msg("[AUTH][LOGOUT] failed")
		return helper.FromError(c, err)
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "Logout successful", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	user, err := ac.Svc.Me(c.UserContext(), userID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToUserResponse(user))
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ac.Svc.ChangePassword(c.UserContext(), userID, req); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Password changed", nil)
}
