package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/dashboard/dto"
	"schoolhub_backend/internals/features/dashboard/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type DashboardController struct {
	Svc *service.DashboardService
}

func NewDashboardController(svc *service.DashboardService) *DashboardController {
	return &DashboardController{Svc: svc}
}

func viewer(c *fiber.Ctx) (dto.Viewer, error) {
	id, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return dto.Viewer{}, err
	}
	return dto.Viewer{ID: id, Role: helperAuth.GetRole(c), Name: helperAuth.GetUserName(c)}, nil
}

// GET /api/u/dashboard
func (ctl *DashboardController) Show(c *fiber.Ctx) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	out, err := ctl.Svc.Build(c.UserContext(), v)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Dashboard loaded", out)
}

// GET /dashboard
func (ctl *DashboardController) Page(c *fiber.Ctx) error {
	v, err := viewer(c)
	if err != nil {
		return err
	}
	out, err := ctl.Svc.Build(c.UserContext(), v)
	if errors.Is(err, helper.ErrForbidden) {
		return fiber.NewError(fiber.StatusForbidden, "No dashboard for this account")
	}
	if err != nil {
		return err
	}
	return c.Render("pages/dashboard", fiber.Map{
		"Title":     "Dashboard",
		"Dashboard": out,
	}, "layouts/main")
}
