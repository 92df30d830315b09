package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/finance/summary/service"
	helper "schoolhub_backend/internals/helpers"
)

type SummaryController struct {
	Svc *service.SummaryService
}

func NewSummaryController(svc *service.SummaryService) *SummaryController {
	return &SummaryController{Svc: svc}
}

// GET /api/a/finance/summary?year=2024
func (ctl *SummaryController) Summary(c *fiber.Ctx) error {
	out, err := ctl.Svc.Summary(c.UserContext(), helper.QueryInt(c, "year", 0))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
