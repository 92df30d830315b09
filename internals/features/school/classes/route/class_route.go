package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/school/classes/controller"
	"schoolhub_backend/internals/features/school/classes/service"
)

// StaffRoutes mounts under /api/s.
func StaffRoutes(r fiber.Router, svc *service.ClassService) {
	ctl := controller.NewClassController(svc)
	g := r.Group("/classes")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Get("/:id/stats", ctl.Stats)
}

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.ClassService) {
	ctl := controller.NewClassController(svc)
	g := r.Group("/classes")
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/students", ctl.AssignStudents)
	g.Put("/:id/subjects", ctl.LinkSubjects)
}
