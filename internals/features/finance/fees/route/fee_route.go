package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/finance/fees/controller"
	"schoolhub_backend/internals/features/finance/fees/service"
)

// PublicRoutes mounts the gateway webhook under /api/payments.
func PublicRoutes(r fiber.Router, svc *service.FeeService) {
	ctl := controller.NewFeeController(svc)
	r.Post("/payments/notification", ctl.Notification)
}

// FamilyRoutes mounts under /api/u.
func FamilyRoutes(r fiber.Router, svc *service.FeeService) {
	ctl := controller.NewFeeController(svc)
	r.Post("/fees/:id/checkout", ctl.Checkout)
	r.Get("/payments/my", ctl.MyPayments)
}

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.FeeService) {
	ctl := controller.NewFeeController(svc)
	g := r.Group("/fees")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/payments", ctl.RecordPayment)
	r.Get("/payments", ctl.ListPayments)
}
