package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/features/home/controller"
	"schoolhub_backend/internals/features/home/service"
	"schoolhub_backend/internals/middlewares"
)

// PageRoutes mounts the server-rendered public site on the app root.
func PageRoutes(app *fiber.App, svc *service.HomeService, admissions controller.AdmissionLookup) {
	ctl := controller.NewPageController(svc, admissions)
	app.Get("/", ctl.Home)
	app.Get("/admissions", ctl.Admissions)
	app.Get("/admissions/status", ctl.AdmissionStatus)
	app.Get("/programs", ctl.Programs)
	app.Get("/news", ctl.News)
	app.Get("/news/:slug", ctl.NewsDetail)
	app.Get("/contact", ctl.ContactForm)
	app.Post("/contact", middlewares.PublicSubmitRateLimiter(), ctl.ContactSubmit)
	app.Get("/login", ctl.Login)
}

// PublicRoutes mounts under /api/public.
func PublicRoutes(r fiber.Router, svc *service.HomeService) {
	ctl := controller.NewHomeController(svc)
	r.Get("/news", ctl.PublicNews)
	r.Get("/news/:slug", ctl.PublicNewsDetail)
	r.Get("/programs", ctl.PublicPrograms)
	r.Post("/contact", middlewares.PublicSubmitRateLimiter(), ctl.Contact)
}

// AdminRoutes mounts under /api/a.
func AdminRoutes(r fiber.Router, svc *service.HomeService) {
	ctl := controller.NewHomeController(svc)

	news := r.Group("/news")
	news.Get("/", ctl.AdminNews)
	news.Post("/", ctl.CreateNews)
	news.Patch("/:id", ctl.UpdateNews)
	news.Delete("/:id", ctl.DeleteNews)

	programs := r.Group("/programs")
	programs.Post("/", ctl.CreateProgram)
	programs.Patch("/:id", ctl.UpdateProgram)
	programs.Delete("/:id", ctl.DeleteProgram)

	r.Get("/contact-messages", ctl.ContactMessages)
	r.Patch("/contact-messages/:id/handled", ctl.MarkHandled)
}
