package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/dashboard/controller"
	"schoolhub_backend/internals/features/dashboard/service"
	authMiddleware "schoolhub_backend/internals/middlewares/auth"
)

// UserRoutes mounts under /api/u.
func UserRoutes(r fiber.Router, svc *service.DashboardService) {
	ctl := controller.NewDashboardController(svc)
	r.Get("/dashboard", ctl.Show)
}

// PageRoutes mounts the server-rendered dashboard on the app root.
func PageRoutes(app *fiber.App, svc *service.DashboardService) {
	ctl := controller.NewDashboardController(svc)
	app.Get("/dashboard", authMiddleware.RequirePageSession(constants.AllRoles...), ctl.Page)
}
