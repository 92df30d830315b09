package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/admissions/dto"
	"schoolhub_backend/internals/features/admissions/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type AdmissionController struct {
	Svc *service.AdmissionService
}

func NewAdmissionController(svc *service.AdmissionService) *AdmissionController {
	return &AdmissionController{Svc: svc}
}

func actor(c *fiber.Ctx) *uuid.UUID {
	id, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

/* ===================== Public ===================== */

// POST /api/public/admissions
func (ctl *AdmissionController) Submit(c *fiber.Ctx) error {
	var req dto.SubmitApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Submit(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Application submitted", fiber.Map{
		"application_id":     m.ApplicationID,
		"application_number": m.ApplicationNumber,
		"status":             m.ApplicationStatus,
	})
}

// GET /api/public/admissions/:application_number
func (ctl *AdmissionController) Lookup(c *fiber.Ctx) error {
	out, err := ctl.Svc.Lookup(c.UserContext(), c.Params("application_number"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

/* ===================== Admin ===================== */

// GET /api/a/admissions?status=&grade=&search=
func (ctl *AdmissionController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	page, err := ctl.Svc.List(c.UserContext(), q, dto.ApplicationFilter{
		Status: strings.ToUpper(c.Query("status")),
		Grade:  helper.QueryInt(c, "grade", 0),
	})
	if err != nil {
		configs.Logger("admissions").Error().Err(err).Msg("[ADMISSION][LIST] query failed")
	}
	return helper.JsonList(c, "ok", dto.FromModels(page.Items), q.Pagination(page.Total))
}

func (ctl *AdmissionController) Detail(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctl.Svc.Detail(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PATCH /api/a/admissions/:id/status
func (ctl *AdmissionController) UpdateStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	out, changed, err := ctl.Svc.UpdateStatus(c.UserContext(), id, actor(c), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !changed {
		return helper.JsonOK(c, "Status unchanged", out)
	}
	return helper.JsonUpdated(c, "Application status updated", out)
}

// POST /api/a/admissions/:id/interview
func (ctl *AdmissionController) ScheduleInterview(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ScheduleInterviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	out, err := ctl.Svc.ScheduleInterview(c.UserContext(), id, actor(c), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Interview scheduled", out)
}

// POST /api/a/admissions/:id/documents
// multipart: file + document_type; JSON: document_type, file_name, file_url.
func (ctl *AdmissionController) AddDocument(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		fh, err := c.FormFile("file")
		if err != nil {
			return helper.JsonValidationError(c, map[string][]string{"file": {"file is required"}})
		}
		doc, err := ctl.Svc.UploadDocument(c.UserContext(), id, c.FormValue("document_type"), fh)
		if err != nil {
			return helper.FromError(c, err)
		}
		return helper.JsonCreated(c, "Document uploaded", doc)
	}

	var req dto.AddDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	doc, err := ctl.Svc.AddDocument(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Document added", doc)
}

// PATCH /api/a/admissions/documents/:doc_id/status
func (ctl *AdmissionController) SetDocumentStatus(c *fiber.Ctx) error {
	docID, err := helper.ParseUUIDParam(c, "doc_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.DocumentStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	doc, changed, err := ctl.Svc.SetDocumentStatus(c.UserContext(), docID, actor(c), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if !changed {
		return helper.JsonOK(c, "Status unchanged", doc)
	}
	return helper.JsonUpdated(c, "Document status updated", doc)
}

// GET /api/a/admissions/stats?year=
func (ctl *AdmissionController) Stats(c *fiber.Ctx) error {
	out, err := ctl.Svc.Stats(c.UserContext(), helper.QueryInt(c, "year", 0))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
