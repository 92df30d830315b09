package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/school/subjects/controller"
	"schoolhub_backend/internals/features/school/subjects/service"
)

// UserRoutes mounts under /api/u.
func UserRoutes(r fiber.Router, svc *service.SubjectService) {
	ctl := controller.NewSubjectController(svc)
	g := r.Group("/subjects")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
}

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.SubjectService) {
	ctl := controller.NewSubjectController(svc)
	g := r.Group("/subjects")
	g.Post("/", ctl.Create)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
}
