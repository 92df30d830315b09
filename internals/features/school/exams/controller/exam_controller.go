package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/school/exams/dto"
	"schoolhub_backend/internals/features/school/exams/service"
	helper "schoolhub_backend/internals/helpers"
)

type ExamController struct {
	Svc *service.ExamService
}

func NewExamController(svc *service.ExamService) *ExamController {
	return &ExamController{Svc: svc}
}

// GET /api/s/exams?class_id=&subject_id=&exam_type=&from=&to=
func (ctl *ExamController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	var f dto.ExamFilter
	var err error
	if f.ClassID, err = helper.QueryUUID(c, "class_id"); err != nil {
		return helper.FromError(c, err)
	}
	if f.SubjectID, err = helper.QueryUUID(c, "subject_id"); err != nil {
		return helper.FromError(c, err)
	}
	if f.From, err = helper.QueryDate(c, "from"); err != nil {
		return helper.FromError(c, err)
	}
	if f.To, err = helper.QueryDate(c, "to"); err != nil {
		return helper.FromError(c, err)
	}
	f.Type = c.Query("exam_type")

	page, err := ctl.Svc.List(c.UserContext(), q, f)
	if err != nil {
		configs.Logger("exams").Error().Err(err).Msg("[EXAM][LIST] query failed")
	}
	return helper.JsonList(c, "ok", page.Items, q.Pagination(page.Total))
}

func (ctl *ExamController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

func (ctl *ExamController) Create(c *fiber.Ctx) error {
	var req dto.CreateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Exam created", m)
}

func (ctl *ExamController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateExamRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Exam updated", m)
}

func (ctl *ExamController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Exam deleted", fiber.Map{"exam_id": id})
}

func (ctl *ExamController) Results(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	rows, err := ctl.Svc.Results(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", rows)
}

// PUT /api/s/exams/:id/results
func (ctl *ExamController) RecordResults(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RecordResultsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	rows, err := ctl.Svc.RecordResults(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Results recorded", rows)
}

func (ctl *ExamController) Stats(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	stats, err := ctl.Svc.Stats(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", stats)
}
