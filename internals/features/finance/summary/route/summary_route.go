package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/finance/summary/controller"
	"schoolhub_backend/internals/features/finance/summary/service"
)

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.SummaryService) {
	ctl := controller.NewSummaryController(svc)
	r.Get("/finance/summary", ctl.Summary)
}
