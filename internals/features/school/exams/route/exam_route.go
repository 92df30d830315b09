package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/school/exams/controller"
	"schoolhub_backend/internals/features/school/exams/service"
)

// StaffRoutes mounts under /api/s; admins and teachers both manage exams.
func StaffRoutes(r fiber.Router, svc *service.ExamService) {
	ctl := controller.NewExamController(svc)
	g := r.Group("/exams")
	g.Get("/", ctl.List)
	g.Post("/", ctl.Create)
	g.Get("/:id", ctl.Get)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Get("/:id/results", ctl.Results)
	g.Put("/:id/results", ctl.RecordResults)
	g.Get("/:id/stats", ctl.Stats)
}
