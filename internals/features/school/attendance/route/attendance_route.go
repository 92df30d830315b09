package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/school/attendance/controller"
	"schoolhub_backend/internals/features/school/attendance/service"
)

// StaffRoutes mounts under /api/s.
func StaffRoutes(r fiber.Router, svc *service.AttendanceService) {
	ctl := controller.NewAttendanceController(svc)

	att := r.Group("/attendance")
	att.Post("/", ctl.Mark)
	att.Get("/", ctl.List)
	att.Get("/summary", ctl.Summary)

	beh := r.Group("/behavior")
	beh.Post("/", ctl.RecordBehavior)
	beh.Get("/", ctl.ListBehavior)
	beh.Get("/students/:id/score", ctl.BehaviorScore)
}
