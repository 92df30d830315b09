package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/finance/expenses/controller"
	"schoolhub_backend/internals/features/finance/expenses/service"
)

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.ExpenseService) {
	ctl := controller.NewExpenseController(svc)
	g := r.Group("/expenses")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Patch("/:id/status", ctl.SetStatus)
	g.Delete("/:id", ctl.Delete)
}
