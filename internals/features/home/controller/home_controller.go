package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/home/dto"
	"schoolhub_backend/internals/features/home/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type HomeController struct {
	Svc *service.HomeService
}

func NewHomeController(svc *service.HomeService) *HomeController {
	return &HomeController{Svc: svc}
}

/* ===================== Public API ===================== */

// GET /api/public/news?category=&search=
func (ctl *HomeController) PublicNews(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	published := true
	page, err := ctl.Svc.ListNews(c.UserContext(), q, dto.NewsFilter{Category: c.Query("category"), Published: &published})
	if err != nil {
		configs.Logger("home").Error().Err(err).Msg("[HOME][NEWS] list failed")
	}
	return helper.JsonList(c, "ok", page.Items, q.Pagination(page.Total))
}

func (ctl *HomeController) PublicNewsDetail(c *fiber.Ctx) error {
	m, err := ctl.Svc.PublishedNews(c.UserContext(), c.Params("slug"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

func (ctl *HomeController) PublicPrograms(c *fiber.Ctx) error {
	rows, err := ctl.Svc.Programs(c.UserContext())
	if err != nil {
		configs.Logger("home").Error().Err(err).Msg("[HOME][PROGRAMS] list failed")
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/public/contact
func (ctl *HomeController) Contact(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.SubmitContact(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Message received", fiber.Map{"contact_id": m.ContactID})
}

/* ===================== Admin: news ===================== */

// GET /api/a/news?published=&category=&search=
func (ctl *HomeController) AdminNews(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	page, err := ctl.Svc.ListNews(c.UserContext(), q, dto.NewsFilter{
		Category:  c.Query("category"),
		Published: helper.QueryBool(c, "published"),
	})
	if err != nil {
		configs.Logger("home").Error().Err(err).Msg("[HOME][NEWS] admin list failed")
	}
	return helper.JsonList(c, "ok", page.Items, q.Pagination(page.Total))
}

func (ctl *HomeController) CreateNews(c *fiber.Ctx) error {
	var req dto.CreateNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	var author *uuid.UUID
	if id, err := helperAuth.GetUserIDFromToken(c); err == nil {
		author = &id
	}
	m, err := ctl.Svc.CreateNews(c.UserContext(), author, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "News created", m)
}

func (ctl *HomeController) UpdateNews(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateNewsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.UpdateNews(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "News updated", m)
}

func (ctl *HomeController) DeleteNews(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.DeleteNews(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "News deleted", fiber.Map{"news_id": id})
}

/* ===================== Admin: programs ===================== */

func (ctl *HomeController) CreateProgram(c *fiber.Ctx) error {
	var req dto.CreateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.CreateProgram(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Program created", m)
}

func (ctl *HomeController) UpdateProgram(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateProgramRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.UpdateProgram(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Program updated", m)
}

func (ctl *HomeController) DeleteProgram(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.DeleteProgram(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Program deleted", fiber.Map{"program_id": id})
}

/* ===================== Admin: contact ===================== */

// GET /api/a/contact-messages?handled=
func (ctl *HomeController) ContactMessages(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	page, err := ctl.Svc.ContactMessages(c.UserContext(), q, helper.QueryBool(c, "handled"))
	if err != nil {
		configs.Logger("home").Error().Err(err).Msg("[HOME][CONTACT] list failed")
	}
	return helper.JsonList(c, "ok", page.Items, q.Pagination(page.Total))
}

// PATCH /api/a/contact-messages/:id/handled
func (ctl *HomeController) MarkHandled(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	changed, err := ctl.Svc.MarkHandled(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	msg := "Message marked as handled"
	if !changed {
		msg = "Message already handled"
	}
	return helper.JsonUpdated(c, msg, fiber.Map{"contact_id": id, "contact_is_handled": true})
}
