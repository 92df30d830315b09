package controller

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	admissionDTO "schoolhub_backend/internals/features/admissions/dto"
	"schoolhub_backend/internals/features/home/dto"
	"schoolhub_backend/internals/features/home/service"
	helper "schoolhub_backend/internals/helpers"
)

// AdmissionLookup resolves an application number for the public status page.
type AdmissionLookup interface {
	Lookup(ctx context.Context, number string) (*admissionDTO.StatusLookup, error)
}

type PageController struct {
	Svc     *service.HomeService
	Lookups AdmissionLookup
}

func NewPageController(svc *service.HomeService, admissions AdmissionLookup) *PageController {
	return &PageController{Svc: svc, Lookups: admissions}
}

func render(c *fiber.Ctx, page string, data fiber.Map) error {
	return c.Render("pages/"+page, data, "layouts/main")
}

func (ctl *PageController) Home(c *fiber.Ctx) error {
	ctx := c.UserContext()
	log := configs.Logger("home")
	news, err := ctl.Svc.LatestNews(ctx, 3)
	if err != nil {
		log.Error().Err(err).Msg("[HOME][PAGE] latest news failed")
	}
	programs, err := ctl.Svc.Programs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("[HOME][PAGE] programs failed")
	}
	return render(c, "home", fiber.Map{"Title": "Welcome", "News": news, "Programs": programs})
}

func (ctl *PageController) Admissions(c *fiber.Ctx) error {
	return render(c, "admissions", fiber.Map{"Title": "Admissions"})
}

// GET /admissions/status?number=APP-2024-001234
func (ctl *PageController) AdmissionStatus(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Query("number"))
	data := fiber.Map{"Title": "Application Status", "Number": number}
	if number == "" {
		return render(c, "admission_status", data)
	}
	res, err := ctl.Lookups.Lookup(c.UserContext(), number)
	switch {
	case errors.Is(err, helper.ErrNotFound):
		data["NotFound"] = true
	case err != nil:
		return err
	default:
		data["Result"] = res
	}
	return render(c, "admission_status", data)
}

func (ctl *PageController) Programs(c *fiber.Ctx) error {
	programs, err := ctl.Svc.Programs(c.UserContext())
	if err != nil {
		configs.Logger("home").Error().Err(err).Msg("[HOME][PAGE] programs failed")
	}
	return render(c, "programs", fiber.Map{"Title": "Programs", "Programs": programs})
}

func (ctl *PageController) News(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, 9, 30)
	published := true
	page, err := ctl.Svc.ListNews(c.UserContext(), q, dto.NewsFilter{Published: &published})
	if err != nil {
		configs.Logger("home").Error().Err(err).Msg("[HOME][PAGE] news failed")
	}
	return render(c, "news", fiber.Map{
		"Title":      "News",
		"News":       page.Items,
		"Pagination": q.Pagination(page.Total),
	})
}

func (ctl *PageController) NewsDetail(c *fiber.Ctx) error {
	m, err := ctl.Svc.PublishedNews(c.UserContext(), c.Params("slug"))
	if errors.Is(err, helper.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "News not found")
	}
	if err != nil {
		return err
	}
	return render(c, "news_detail", fiber.Map{"Title": m.NewsTitle, "Post": m})
}

func (ctl *PageController) ContactForm(c *fiber.Ctx) error {
	return render(c, "contact", fiber.Map{"Title": "Contact"})
}

// POST /contact (form post)
func (ctl *PageController) ContactSubmit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid form")
	}
	data := fiber.Map{"Title": "Contact", "Form": req}
	_, err := ctl.Svc.SubmitContact(c.UserContext(), req)
	var ve *helper.ValidationError
	switch {
	case errors.As(err, &ve):
		c.Status(fiber.StatusUnprocessableEntity)
		data["Errors"] = ve.Map()
	case err != nil:
		return err
	default:
		data["Sent"] = true
		data["Form"] = nil
	}
	return render(c, "contact", data)
}

// GET /login?next=/dashboard
func (ctl *PageController) Login(c *fiber.Ctx) error {
	next := c.Query("next", "/dashboard")
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		next = "/dashboard"
	}
	return render(c, "login", fiber.Map{"Title": "Sign in", "Next": next})
}
