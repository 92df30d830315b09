package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/finance/payroll/controller"
	"schoolhub_backend/internals/features/finance/payroll/service"
)

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.PayrollService) {
	ctl := controller.NewPayrollController(svc)
	g := r.Group("/payroll")
	g.Get("/", ctl.List)
	g.Post("/generate", ctl.Generate)
	g.Get("/preview/:teacher_id", ctl.Preview)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id/status", ctl.SetStatus)
}
