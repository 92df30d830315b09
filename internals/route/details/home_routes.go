package details

import (
	"github.com/gofiber/fiber/v2"

	admissionRoute "schoolhub_backend/internals/features/admissions/route"
	admissionService "schoolhub_backend/internals/features/admissions/service"
	dashboardRoute "schoolhub_backend/internals/features/dashboard/route"
	dashboardService "schoolhub_backend/internals/features/dashboard/service"
	homeRoute "schoolhub_backend/internals/features/home/route"
	homeService "schoolhub_backend/internals/features/home/service"
)

// Site bundles the public site, admissions and the dashboard.
type Site struct {
	Home       *homeService.HomeService
	Admissions *admissionService.AdmissionService
	Dashboard  *dashboardService.DashboardService
}

// SitePageRoutes mounts the server-rendered pages on the app root.
func SitePageRoutes(app *fiber.App, s Site) {
	homeRoute.PageRoutes(app, s.Home, s.Admissions)
	dashboardRoute.PageRoutes(app, s.Dashboard)
}

func SitePublicRoutes(r fiber.Router, s Site) {
	homeRoute.PublicRoutes(r, s.Home)
	admissionRoute.PublicRoutes(r, s.Admissions)
}

func SiteUserRoutes(r fiber.Router, s Site) {
	dashboardRoute.UserRoutes(r, s.Dashboard)
}

func SiteAdminRoutes(r fiber.Router, s Site) {
	homeRoute.AdminRoutes(r, s.Home)
	admissionRoute.AdminRoutes(r, s.Admissions)
}
