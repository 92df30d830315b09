package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/school/students/controller"
	"schoolhub_backend/internals/features/school/students/service"
)

// StaffRoutes mounts under /api/s (admin, teacher).
func StaffRoutes(r fiber.Router, svc *service.StudentService) {
	ctl := controller.NewStudentController(svc)
	g := r.Group("/students")
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.Get)
	g.Get("/:id/performance", ctl.Performance)
	g.Get("/:id/report-card.pdf", ctl.ReportCard)
}

// AdminRoutes mounts under /api/a (admin).
func AdminRoutes(r fiber.Router, svc *service.StudentService) {
	ctl := controller.NewStudentController(svc)
	g := r.Group("/students")
	g.Post("/", ctl.Create)
	g.Post("/bulk-import", ctl.BulkImport)
	g.Patch("/:id", ctl.Update)
	g.Delete("/:id", ctl.Delete)
	g.Post("/:id/photo", ctl.UploadPhoto)
}
