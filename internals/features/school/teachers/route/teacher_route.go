package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/school/teachers/controller"
	"schoolhub_backend/internals/features/school/teachers/service"
)

// StaffRoutes mounts under /api/s.
func StaffRoutes(r fiber.Router, svc *service.TeacherService) {
	ctl := controller.NewTeacherController(svc)
	g := r.Group("/teachers")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
}

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.TeacherService) {
	ctl := controller.NewTeacherController(svc)
	g := r.Group("/teachers")
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Put("/:id/subjects", ctl.AssignSubjects)
	g.Post("/:id/reviews", ctl.CreateReview)
	g.Get("/:id/reviews", ctl.Reviews)
}
