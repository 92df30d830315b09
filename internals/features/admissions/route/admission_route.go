package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/admissions/controller"
	"schoolhub_backend/internals/features/admissions/service"
	"schoolhub_backend/internals/middlewares"
)

// PublicRoutes mounts under /api/public.
func PublicRoutes(r fiber.Router, svc *service.AdmissionService) {
	ctl := controller.NewAdmissionController(svc)
	r.Post("/admissions", middlewares.PublicSubmitRateLimiter(), ctl.Submit)
	r.Get("/admissions/:application_number", ctl.Lookup)
}

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.AdmissionService) {
	ctl := controller.NewAdmissionController(svc)
	g := r.Group("/admissions")
	g.Get("/", ctl.List)
	g.Get("/stats", ctl.Stats)
	g.Patch("/documents/:doc_id/status", ctl.SetDocumentStatus)
	g.Get("/:id", ctl.Detail)
	g.Patch("/:id/status", ctl.UpdateStatus)
	g.Post("/:id/interview", ctl.ScheduleInterview)
	g.Post("/:id/documents", ctl.AddDocument)
}
